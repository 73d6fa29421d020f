// internal/workers/ingestion/fetch-emails/config.go
package fetchemails

import (
	"time"

	"travel-inquiry-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration

	// Gmail REST endpoint settings.
	BaseURL    string
	UserID     string
	Label      string
	MaxResults int

	// OAuth2 credentials for the mailbox.
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string

	// Dedupe settings. FailOpen keeps the pipeline running when Redis
	// is unreachable, at the cost of possible duplicate inquiries.
	DedupeKeyPrefix string
	DedupeTTL       time.Duration
	DedupeFailOpen  bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		BaseURL:         "https://gmail.googleapis.com",
		UserID:          "me",
		Label:           "travel-inquiries",
		MaxResults:      25,
		TokenURL:        "https://oauth2.googleapis.com/token",
		DedupeKeyPrefix: "inq:seen:",
		DedupeTTL:       72 * time.Hour,
		DedupeFailOpen:  true,
	}
}

// FromMailbox maps the application-level mailbox section onto the
// worker config, keeping LoadConfig defaults for unset values.
func FromMailbox(mailbox config.MailboxConfig) *Config {
	cfg := LoadConfig()

	if mailbox.Gmail.BaseURL != "" {
		cfg.BaseURL = mailbox.Gmail.BaseURL
	}
	if mailbox.Gmail.UserID != "" {
		cfg.UserID = mailbox.Gmail.UserID
	}
	if mailbox.Gmail.Label != "" {
		cfg.Label = mailbox.Gmail.Label
	}
	if mailbox.Gmail.MaxResults > 0 {
		cfg.MaxResults = mailbox.Gmail.MaxResults
	}
	if mailbox.Gmail.TokenURL != "" {
		cfg.TokenURL = mailbox.Gmail.TokenURL
	}
	cfg.ClientID = mailbox.Gmail.ClientID
	cfg.ClientSecret = mailbox.Gmail.ClientSecret
	cfg.RefreshToken = mailbox.Gmail.RefreshToken

	if mailbox.Dedupe.KeyPrefix != "" {
		cfg.DedupeKeyPrefix = mailbox.Dedupe.KeyPrefix
	}
	if mailbox.Dedupe.TTLHours > 0 {
		cfg.DedupeTTL = time.Duration(mailbox.Dedupe.TTLHours) * time.Hour
	}
	cfg.DedupeFailOpen = mailbox.Dedupe.FailOpen

	return cfg
}
