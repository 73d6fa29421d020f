// internal/workers/inquiry/process-inquiry/config.go
package processinquiry

import "time"

// Config holds process-inquiry worker configuration.
type Config struct {
	Timeout time.Duration

	// Result cache for repeated inquiries. Disabled when no Redis
	// client is wired in.
	CacheEnabled   bool
	CacheKeyPrefix string
	CacheTTL       time.Duration

	DefaultCurrency string
}

// LoadConfig returns default configuration for the process-inquiry worker.
func LoadConfig() *Config {
	return &Config{
		Timeout:         60 * time.Second,
		CacheEnabled:    false,
		CacheKeyPrefix:  "inq:result:",
		CacheTTL:        15 * time.Minute,
		DefaultCurrency: "INR",
	}
}
