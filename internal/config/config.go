// Package config loads tool configuration from an optional config file,
// BILL2CSV_* environment variables, and defaults, in that order of
// precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dvloznov/bill2csv/internal/batch"
	"github.com/dvloznov/bill2csv/internal/retry"
)

// Config is the full tool configuration.
type Config struct {
	Model           string  `mapstructure:"model"`
	Temperature     float32 `mapstructure:"temperature"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens"`

	CategoriesFile   string `mapstructure:"categories_file"`
	DefaultCategory  string `mapstructure:"default_category"`
	CleanDescription bool   `mapstructure:"clean_description"`
	IncludePayee     bool   `mapstructure:"include_payee"`
	Strict           bool   `mapstructure:"strict"`
	OutDir           string `mapstructure:"outdir"`

	Retry    RetryConfig    `mapstructure:"retry"`
	Keychain KeychainConfig `mapstructure:"keychain"`
}

// RetryConfig tunes the backoff policy for the extraction call.
type RetryConfig struct {
	MaxRetries   int           `mapstructure:"max_retries"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	Multiplier   float64       `mapstructure:"multiplier"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	Jitter       time.Duration `mapstructure:"jitter"`
}

// KeychainConfig names the macOS Keychain entry holding the API key.
type KeychainConfig struct {
	Service string `mapstructure:"service"`
	Account string `mapstructure:"account"`
}

// Load reads configuration. An empty configPath means defaults and
// environment only; a named file that cannot be read is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("model", "gemini-2.5-flash")
	v.SetDefault("temperature", 0.1)
	v.SetDefault("max_output_tokens", 65536)
	v.SetDefault("default_category", "Other")
	v.SetDefault("clean_description", true)
	v.SetDefault("include_payee", true)
	v.SetDefault("outdir", ".")
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.initial_delay", 2*time.Second)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.max_delay", 32*time.Second)
	v.SetDefault("retry.jitter", time.Second)

	v.SetEnvPrefix("BILL2CSV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: reading %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Schema resolves the configured column layout.
func (c *Config) Schema() batch.Schema {
	if c.IncludePayee {
		return batch.SchemaWithPayee
	}
	return batch.SchemaBasic
}

// RetryPolicy builds the backoff policy for the given transient-error
// predicate.
func (c *Config) RetryPolicy(retryable func(error) bool) retry.Policy {
	return retry.Policy{
		MaxRetries:   c.Retry.MaxRetries,
		InitialDelay: c.Retry.InitialDelay,
		Multiplier:   c.Retry.Multiplier,
		MaxDelay:     c.Retry.MaxDelay,
		Jitter:       c.Retry.Jitter,
		Retryable:    retryable,
	}
}
