package config

import (
	"os"
	"time"
)

// Config captures the store-level configuration the library needs. The
// surrounding process owns everything else (listen address, CORS, auth).
type Config struct {
	MongoURI      string
	MongoDatabase string

	// RedisURL enables the record read cache when non-empty.
	RedisURL string
	CacheTTL time.Duration
}

// FromEnv builds a Config from environment variables so embedding binaries
// stay lean.
func FromEnv() Config {
	uri := os.Getenv("CASECONNECT_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	db := os.Getenv("CASECONNECT_MONGO_DATABASE")
	if db == "" {
		db = "caseconnect"
	}

	ttl := 5 * time.Minute
	if raw := os.Getenv("CASECONNECT_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}

	return Config{
		MongoURI:      uri,
		MongoDatabase: db,
		RedisURL:      os.Getenv("CASECONNECT_REDIS_URL"),
		CacheTTL:      ttl,
	}
}
