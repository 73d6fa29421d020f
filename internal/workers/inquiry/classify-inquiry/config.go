// internal/workers/inquiry/classify-inquiry/config.go
package classifyinquiry

import "time"

// Config holds classify-inquiry worker configuration.
type Config struct {
	Timeout time.Duration

	// Fixed confidence per decision path, tunable without touching
	// the decision logic.
	ModificationConfidence float64
	MultiLegConfidence     float64
	SingleLegConfidence    float64
}

// LoadConfig returns default configuration for the classify-inquiry worker.
func LoadConfig() *Config {
	return &Config{
		Timeout:                30 * time.Second,
		ModificationConfidence: 0.98,
		MultiLegConfidence:     0.95,
		SingleLegConfidence:    0.90,
	}
}
