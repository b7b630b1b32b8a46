// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
	Airtable AirtableConfig `mapstructure:"airtable"`
	Search   SearchConfig   `mapstructure:"search"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// HTTPConfig configures fetch retry behavior.
type HTTPConfig struct {
	TimeoutSeconds     int `mapstructure:"timeout_seconds"`
	MaxAttempts        int `mapstructure:"max_attempts"`
	BackoffBaseSeconds int `mapstructure:"backoff_base_seconds"`
}

// CrawlerConfig governs the extraction pipeline.
type CrawlerConfig struct {
	UserAgent           string `mapstructure:"user_agent"`
	RequestDelaySeconds int    `mapstructure:"request_delay_seconds"`
	SeedDelaySeconds    int    `mapstructure:"seed_delay_seconds"`
}

// AirtableConfig holds remote store credentials and rate limits.
type AirtableConfig struct {
	APIKey        string `mapstructure:"api_key"`
	BaseID        string `mapstructure:"base_id"`
	TableName     string `mapstructure:"table_name"`
	RecordDelayMs int    `mapstructure:"record_delay_ms"`
}

// SearchConfig controls seed discovery.
type SearchConfig struct {
	MaxResults int      `mapstructure:"max_results"`
	Queries    []string `mapstructure:"queries"`
}

// MetricsConfig configures the metrics/health listener.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_attempts", 4)
	v.SetDefault("http.backoff_base_seconds", 3)
	v.SetDefault("crawler.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	v.SetDefault("crawler.request_delay_seconds", 2)
	v.SetDefault("crawler.seed_delay_seconds", 2)
	v.SetDefault("airtable.record_delay_ms", 200)
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.queries", []string{
		"book awards submission deadline",
		"literary prize application",
		"book contest entry requirements",
		"publishing awards eligibility",
		"author awards application process",
	})
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxAttempts <= 0 {
		return fmt.Errorf("http.max_attempts must be > 0")
	}
	if c.HTTP.BackoffBaseSeconds < 0 {
		return fmt.Errorf("http.backoff_base_seconds must be >= 0")
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("metrics.port must be > 0 when metrics are enabled")
	}
	return nil
}

// ValidateAirtable checks the store credentials needed for sync runs.
func (c Config) ValidateAirtable() error {
	if c.Airtable.APIKey == "" {
		return fmt.Errorf("airtable.api_key must be set")
	}
	if c.Airtable.BaseID == "" {
		return fmt.Errorf("airtable.base_id must be set")
	}
	if c.Airtable.TableName == "" {
		return fmt.Errorf("airtable.table_name must be set")
	}
	return nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BackoffBase converts the backoff base config into a duration.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.HTTP.BackoffBaseSeconds) * time.Second
}

// RequestDelay is the pause between related-page fetches.
func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.Crawler.RequestDelaySeconds) * time.Second
}

// SeedDelay is the pause between seed URLs in a batch run.
func (c Config) SeedDelay() time.Duration {
	return time.Duration(c.Crawler.SeedDelaySeconds) * time.Second
}

// RecordDelay is the pause between record writes against the store.
func (c Config) RecordDelay() time.Duration {
	return time.Duration(c.Airtable.RecordDelayMs) * time.Millisecond
}
