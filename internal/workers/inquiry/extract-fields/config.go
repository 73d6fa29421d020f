// internal/workers/inquiry/extract-fields/config.go
package extractfields

import "time"

// Config holds extract-fields worker configuration.
type Config struct {
	Timeout         time.Duration
	DefaultCurrency string

	// BookingYear resolves year-less dates ("18 July"). Inquiries never
	// carry a year, so day-month mentions bind to this year.
	BookingYear int
}

// LoadConfig returns default configuration for the extract-fields worker.
func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		DefaultCurrency: "INR",
		BookingYear:     time.Now().Year(),
	}
}
