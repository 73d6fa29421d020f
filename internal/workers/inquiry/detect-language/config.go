// internal/workers/inquiry/detect-language/config.go
package detectlanguage

import "time"

type Config struct {
	Timeout time.Duration
	// MaxConfidence caps the reported confidence; the detector never
	// claims certainty.
	MaxConfidence float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		MaxConfidence: 0.99,
	}
}
