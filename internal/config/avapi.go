package config

import (
	"fmt"
	"time"
)

// AVAPIConfig holds AV API client configuration
type AVAPIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Token          string        `yaml:"token"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	MaxRetries     int           `yaml:"max_retries"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// DefaultAVAPIConfig returns the default AV API configuration
func DefaultAVAPIConfig() *AVAPIConfig {
	return &AVAPIConfig{
		BaseURL:        "https://api.av.by",
		RatePerSecond:  2,
		MaxRetries:     3,
		TimeoutSeconds: 30,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// Timeout returns the per-request timeout
func (c AVAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c AVAPIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("AV_API_BASE_URL must not be empty")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("AV_API_MAX_RETRIES must be at least 1")
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("AV_API_TIMEOUT_SECONDS must be at least 1")
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("AV_API_RATE_PER_SECOND must not be negative")
	}
	return nil
}
