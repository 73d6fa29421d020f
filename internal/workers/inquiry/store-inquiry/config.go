// internal/workers/inquiry/store-inquiry/config.go
package storeinquiry

import "time"

type Config struct {
	Timeout time.Duration

	// Table is the PostgreSQL table inquiries are persisted to.
	Table string
	// Index is the Elasticsearch index inquiries are searchable under.
	Index string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Table:   "inquiries",
		Index:   "inquiries",
	}
}
