// Package config loads service settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Gold     GoldConfig     `yaml:"gold"`
	Products ProductsConfig `yaml:"products"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	RateLimitPerMin int `yaml:"rate_limit_per_min"`
}

// GoldConfig configures the price feed. An empty APIKey is valid: every
// lookup then serves the fallback price.
type GoldConfig struct {
	APIKey   string        `yaml:"api_key"`
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ProductsConfig selects the product source; DSN takes precedence over File.
type ProductsConfig struct {
	File string `yaml:"file"`
	DSN  string `yaml:"dsn"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

func Default() *Config {
	return &Config{
		Port:     "3001",
		LogLevel: "info",
		Gold: GoldConfig{
			URL:      "https://www.goldapi.io/api",
			Timeout:  10 * time.Second,
			CacheTTL: 30 * time.Minute,
		},
		Products: ProductsConfig{
			File: "products.json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads path (if non-empty) with ${VAR} expansion, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Gold.APIKey, "GOLD_API_KEY")
	setString(&c.Gold.URL, "GOLD_API_URL")
	setString(&c.Products.File, "PRODUCTS_FILE")
	setString(&c.Products.DSN, "PRODUCTS_DSN")
	setString(&c.Metrics.Token, "METRICS_TOKEN")

	if err := setDuration(&c.Gold.Timeout, "GOLD_FEED_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.Gold.CacheTTL, "GOLD_CACHE_TTL"); err != nil {
		return err
	}
	if err := setBool(&c.Metrics.Enabled, "METRICS_ENABLED"); err != nil {
		return err
	}
	return setInt(&c.RateLimitPerMin, "RATE_LIMIT_PER_MIN")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config: port is required")
	}
	if c.Gold.Timeout <= 0 {
		return fmt.Errorf("config: gold.timeout must be positive, got %s", c.Gold.Timeout)
	}
	if c.Gold.CacheTTL <= 0 {
		return fmt.Errorf("config: gold.cache_ttl must be positive, got %s", c.Gold.CacheTTL)
	}
	if c.Products.DSN == "" && c.Products.File == "" {
		return fmt.Errorf("config: products.file or products.dsn is required")
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("config: rate_limit_per_min must not be negative")
	}
	return nil
}

func (c *Config) Addr() string { return ":" + c.Port }

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}
