// internal/workers/communication/send-quote/config.go
package sendquote

import (
	"time"

	"travel-inquiry-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration

	EmailEnabled bool
	FromEmail    string
	ReplyTo      string

	SMSEnabled bool
	// UrgencyThreshold gates the SMS alert; only modification inquiries
	// at or above it trigger one. Supported values: normal, high.
	UrgencyThreshold string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		EmailEnabled:     true,
		FromEmail:        "quotes@example.com",
		SMSEnabled:       false,
		UrgencyThreshold: "high",
	}
}

// FromQuotes maps the application-level quotes section onto the worker
// config, keeping LoadConfig defaults for unset values.
func FromQuotes(quotes config.QuoteConfig) *Config {
	cfg := LoadConfig()

	cfg.EmailEnabled = quotes.Email.Enabled
	if quotes.Email.FromEmail != "" {
		cfg.FromEmail = quotes.Email.FromEmail
	}
	cfg.ReplyTo = quotes.Email.ReplyTo

	cfg.SMSEnabled = quotes.SMS.Enabled
	if quotes.SMS.UrgencyThreshold != "" {
		cfg.UrgencyThreshold = quotes.SMS.UrgencyThreshold
	}

	return cfg
}
