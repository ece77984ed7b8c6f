// Package config defines service configuration and its defaults.
package config

import (
	"time"
)

// Store drivers understood by the repository factory.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the record store backend: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the sqlite path or postgres connection string.
	StoreDSN string `koanf:"store_dsn"`

	// IssueBookCapacity caps the number of issues per event.
	IssueBookCapacity int `koanf:"issue_book_capacity"`

	// LeaderboardCapacity caps the number of distinct contributors per event.
	LeaderboardCapacity int `koanf:"leaderboard_capacity"`

	// MaxNameLength caps event names, in runes.
	MaxNameLength int `koanf:"max_name_length"`

	// JWTSecret signs and verifies caller tokens (HS256).
	JWTSecret string `koanf:"jwt_secret"`

	// JWTIssuer is stamped into issued tokens and required on verification when set.
	JWTIssuer string `koanf:"jwt_issuer"`

	// TokenTTL bounds the lifetime of issued tokens.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// MetricsRefreshInterval controls the gauge refresh job.
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`

	// Genesis seeds holdings at boot.
	Genesis Genesis `koanf:"genesis"`
}

// Genesis lists holdings created when the process starts with an empty store.
type Genesis struct {
	// Balances maps an identity to the starting value of its account.
	Balances map[string]uint64 `koanf:"balances"`

	// Collectibles maps a collectible id to the identity that owns it.
	Collectibles map[string]string `koanf:"collectibles"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		StoreDriver:            DriverMemory,
		IssueBookCapacity:      50,
		LeaderboardCapacity:    100,
		MaxNameLength:          32,
		JWTIssuer:              "bounty",
		TokenTTL:               24 * time.Hour,
		MetricsRefreshInterval: 10 * time.Second,
	}
}
