// Package config loads runtime configuration for the sessionguard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via flags: -c or -config.
//     Files ending in .yaml or .yml are YAML, everything else is JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend
//	-i int      online status check interval (seconds)
//	-t int      token refresh timeout (seconds)
//	-s string   credential store: sqlite, redis or memory
//	-d string   SQLite database path
//	-r string   Redis address
//	-l string   log level
//
// # File schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "online_check_interval": "3s",
//	  "refresh_timeout": "10s",
//	  "credential_store": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_key": "sessionguard:access_token",
//	  "log_level": "debug",
//	  "log_format": "zap"
//	}
//
// The same keys are used in YAML files.
package config
