// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	OMDb       OMDbConfig       `toml:"omdb"`
	Cache      CacheConfig      `toml:"cache"`
	Pagination PaginationConfig `toml:"pagination"`
	Export     ExportConfig     `toml:"export"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	// AdminKey gates the export endpoint. Empty disables the check.
	AdminKey string `toml:"admin_key"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type OMDbConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type CacheConfig struct {
	TTLHours             int   `toml:"ttl_hours"`
	Enabled              *bool `toml:"enabled"`
	PruneIntervalMinutes int   `toml:"prune_interval_minutes"`
}

type PaginationConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

type ExportConfig struct {
	MaxRecords int `toml:"max_records"`
}

// TTL returns the cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// PruneInterval returns how often expired rows are physically removed.
func (c CacheConfig) PruneInterval() time.Duration {
	return time.Duration(c.PruneIntervalMinutes) * time.Minute
}

// CacheEnabled reports whether caching is on (default true).
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.OMDb.APIKey == "" {
		return nil, fmt.Errorf("omdb.api_key is required")
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8686
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/movieflix.db"
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 24
	}
	if cfg.Cache.PruneIntervalMinutes == 0 {
		cfg.Cache.PruneIntervalMinutes = 60
	}
	if cfg.Pagination.DefaultLimit == 0 {
		cfg.Pagination.DefaultLimit = 20
	}
	if cfg.Pagination.MaxLimit == 0 {
		cfg.Pagination.MaxLimit = 100
	}
	if cfg.Export.MaxRecords == 0 {
		cfg.Export.MaxRecords = 10000
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
