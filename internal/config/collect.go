package config

import "fmt"

// CollectConfig holds collection scheduling configuration
type CollectConfig struct {
	// IntervalMinutes schedules a collection of the saved selection; 0 disables it
	IntervalMinutes int `yaml:"interval_minutes"`
}

// DefaultCollectConfig returns the default collection configuration
func DefaultCollectConfig() *CollectConfig {
	return &CollectConfig{}
}

const (
	KVDriverPostgres = "postgres"
	KVDriverSQLite   = "sqlite"
	KVDriverMemory   = "memory"
)

// KVConfig selects where the selection, catalogs and scrape states are kept
type KVConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

// DefaultKVConfig returns the default key-value store configuration
func DefaultKVConfig() *KVConfig {
	return &KVConfig{
		Driver:     KVDriverPostgres,
		SQLitePath: "./data/kv.db",
	}
}

func (c KVConfig) Validate() error {
	switch c.Driver {
	case KVDriverPostgres, KVDriverMemory:
		return nil
	case KVDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("KV_SQLITE_PATH must be set for the sqlite driver")
		}
		return nil
	default:
		return fmt.Errorf("unsupported KV_DRIVER: %q", c.Driver)
	}
}
