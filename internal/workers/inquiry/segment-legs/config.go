// internal/workers/inquiry/segment-legs/config.go
package segmentlegs

import "time"

// Config holds segment-legs worker configuration.
type Config struct {
	Timeout time.Duration

	// Placeholder strings for leg fields with no text evidence and no
	// whole-inquiry fallback.
	DurationPlaceholder       string
	TransportationPlaceholder string
}

// LoadConfig returns default configuration for the segment-legs worker.
func LoadConfig() *Config {
	return &Config{
		Timeout:                   30 * time.Second,
		DurationPlaceholder:       "To be specified",
		TransportationPlaceholder: "Not specified",
	}
}
