package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/sessionguard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server
//	-i int      online check interval in seconds
//	-t int      token refresh timeout in seconds
//	-s string   credential store: sqlite, redis or memory
//	-d string   SQLite database path
//	-r string   Redis address
//	-l string   log level
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-s", "-d", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	refreshTimeout := fs.Int("t", int(cfg.RefreshTimeout.Seconds()), "token refresh timeout (in seconds)")
	fs.StringVar(&cfg.CredentialStore, "s", cfg.CredentialStore, "credential store (sqlite, redis, memory)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RefreshTimeout = time.Duration(*refreshTimeout) * time.Second
}
