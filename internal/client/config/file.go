package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/sessionguard/internal/flagx"
	"github.com/dmitrijs2005/sessionguard/internal/timex"
)

// FileConfig is a DTO used exclusively for config file unmarshalling. It
// relies on timex.Duration so intervals can be strings like "3s" or integer
// nanoseconds. Empty fields keep the value they had before the file was read.
type FileConfig struct {
	ServerBaseURL       string         `json:"server_base_url" yaml:"server_base_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RefreshTimeout      timex.Duration `json:"refresh_timeout" yaml:"refresh_timeout"`
	CredentialStore     string         `json:"credential_store" yaml:"credential_store"`
	DatabasePath        string         `json:"database_path" yaml:"database_path"`
	RedisAddr           string         `json:"redis_addr" yaml:"redis_addr"`
	RedisKey            string         `json:"redis_key" yaml:"redis_key"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Files ending in .yaml or .yml are read as YAML, anything else as
// JSON. It panics on read or unmarshal errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerBaseURL, fc.ServerBaseURL)
	setDuration(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
	setDuration(&cfg.RefreshTimeout, fc.RefreshTimeout)
	setString(&cfg.CredentialStore, fc.CredentialStore)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisKey, fc.RedisKey)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
