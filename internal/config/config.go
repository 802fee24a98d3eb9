package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string         `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	Database DatabaseConfig `yaml:"database"`
	AVAPI    AVAPIConfig    `yaml:"av_api"`
	Collect  CollectConfig  `yaml:"collect"`
	KV       KVConfig       `yaml:"kv"`
}

// DatabaseConfig holds the Postgres connection settings.
// ConnectionString wins over the individual fields when set.
type DatabaseConfig struct {
	ConnectionString string `yaml:"connection_string"`
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	Name             string `yaml:"name"`
	SSLMode          string `yaml:"sslmode"`
}

// DSN returns the Postgres connection string
func (d DatabaseConfig) DSN() string {
	if d.ConnectionString != "" {
		return d.ConnectionString
	}
	if d.Host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "disable",
		},
		AVAPI:   *DefaultAVAPIConfig(),
		Collect: *DefaultCollectConfig(),
		KV:      *DefaultKVConfig(),
	}
}

// Load builds the configuration from defaults, the optional YAML file named by CONFIG_FILE
// and the environment, in that order of precedence (environment last).
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
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

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Database.ConnectionString = getEnv("DB_CONNECTION_STRING", c.Database.ConnectionString)
	c.Database.Host = getEnv("POSTGRES_HOST", c.Database.Host)
	if c.Database.Port, err = getEnvInt("POSTGRES_PORT", c.Database.Port); err != nil {
		return err
	}
	c.Database.User = getEnv("POSTGRES_USER", c.Database.User)
	c.Database.Password = getEnv("POSTGRES_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("POSTGRES_DB", c.Database.Name)
	c.Database.SSLMode = getEnv("POSTGRES_SSLMODE", c.Database.SSLMode)

	c.AVAPI.BaseURL = getEnv("AV_API_BASE_URL", c.AVAPI.BaseURL)
	c.AVAPI.Token = getEnv("AV_API_TOKEN", c.AVAPI.Token)
	if c.AVAPI.RatePerSecond, err = getEnvFloat("AV_API_RATE_PER_SECOND", c.AVAPI.RatePerSecond); err != nil {
		return err
	}
	if c.AVAPI.MaxRetries, err = getEnvInt("AV_API_MAX_RETRIES", c.AVAPI.MaxRetries); err != nil {
		return err
	}
	if c.AVAPI.TimeoutSeconds, err = getEnvInt("AV_API_TIMEOUT_SECONDS", c.AVAPI.TimeoutSeconds); err != nil {
		return err
	}

	if c.Collect.IntervalMinutes, err = getEnvInt("COLLECT_INTERVAL_MINUTES", c.Collect.IntervalMinutes); err != nil {
		return err
	}

	c.KV.Driver = getEnv("KV_DRIVER", c.KV.Driver)
	c.KV.SQLitePath = getEnv("KV_SQLITE_PATH", c.KV.SQLitePath)

	return nil
}

// Validate checks the configuration for missing or invalid values
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.Database.DSN() == "" {
		return fmt.Errorf("missing required configuration: DB_CONNECTION_STRING or POSTGRES_HOST must be set")
	}
	if err := c.AVAPI.Validate(); err != nil {
		return err
	}
	if c.Collect.IntervalMinutes < 0 {
		return fmt.Errorf("COLLECT_INTERVAL_MINUTES must not be negative")
	}
	return c.KV.Validate()
}

// CollectInterval returns the scheduled collection interval, zero when disabled
func (c *Config) CollectInterval() time.Duration {
	return time.Duration(c.Collect.IntervalMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
