// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Mailbox   MailboxConfig           `mapstructure:"mailbox"`
	Pipeline  PipelineConfig          `mapstructure:"pipeline"`
	Quotes    QuoteConfig             `mapstructure:"quotes"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Registry  RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	Index      string   `mapstructure:"index"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// MailboxConfig holds settings for the fetch-emails worker.
type MailboxConfig struct {
	Gmail struct {
		BaseURL      string `mapstructure:"base_url"`
		UserID       string `mapstructure:"user_id"`
		Label        string `mapstructure:"label"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		RefreshToken string `mapstructure:"refresh_token"`
		TokenURL     string `mapstructure:"token_url"`
		MaxResults   int    `mapstructure:"max_results"`
	} `mapstructure:"gmail"`

	Dedupe struct {
		KeyPrefix  string `mapstructure:"key_prefix"`
		TTLHours   int    `mapstructure:"ttl_hours"`
		FailOpen   bool   `mapstructure:"fail_open"`
	} `mapstructure:"dedupe"`
}

// PipelineConfig holds tuning knobs for the extraction pipeline.
type PipelineConfig struct {
	MaxConfidence        float64 `mapstructure:"max_confidence"`
	CacheEnabled         bool    `mapstructure:"cache_enabled"`
	CacheTTLMinutes      int     `mapstructure:"cache_ttl_minutes"`
	DefaultCurrency      string  `mapstructure:"default_currency"`
	DefaultDepartureCity string  `mapstructure:"default_departure_city"`
}

// QuoteConfig holds settings for the send-quote worker.
type QuoteConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ReplyTo   string `mapstructure:"reply_to"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled          bool   `mapstructure:"enabled"`
		UrgencyThreshold string `mapstructure:"urgency_threshold"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// RegistryConfig points at the worker registry JSON.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
