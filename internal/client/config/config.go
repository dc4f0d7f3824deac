package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionguard/internal/client/credentials"
)

// Credential store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds runtime settings for the sessionguard CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the user backend, e.g. http://127.0.0.1:8080.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RefreshTimeout: upper bound for a single token refresh.
//   - CredentialStore: where the access token lives (sqlite, redis, memory).
//   - DatabasePath: SQLite file used by the sqlite store.
//   - RedisAddr, RedisKey: Redis server and key used by the redis store.
//   - LogLevel, LogFormat: logger settings (see internal/logging).
type Config struct {
	ServerBaseURL       string
	OnlineCheckInterval time.Duration
	RefreshTimeout      time.Duration
	CredentialStore     string
	DatabasePath        string
	RedisAddr           string
	RedisKey            string
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.RefreshTimeout = 10 * time.Second
	c.CredentialStore = StoreSQLite
	c.DatabasePath = "session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisKey = credentials.DefaultRedisKey
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.ServerBaseURL == "" {
		return errors.New("server base url is required")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.RefreshTimeout <= 0 {
		return fmt.Errorf("refresh timeout must be positive, got %s", c.RefreshTimeout)
	}
	switch c.CredentialStore {
	case StoreSQLite:
		if c.DatabasePath == "" {
			return errors.New("database path is required for the sqlite store")
		}
	case StoreRedis:
		if c.RedisAddr == "" || c.RedisKey == "" {
			return errors.New("redis address and key are required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown credential store %q", c.CredentialStore)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
