package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a Go duration string ("90m") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// JSONConfig is the on-disk shape of the configuration file. Zero values
// leave the corresponding setting untouched.
type JSONConfig struct {
	Addr        string   `json:"addr"`
	SecretKey   string   `json:"secret_key"`
	TokenTTL    Duration `json:"token_ttl"`
	Storage     string   `json:"storage"`
	BadgerPath  string   `json:"badger_path"`
	DatabaseDSN string   `json:"database_dsn"`
	BcryptCost  int      `json:"bcrypt_cost"`
	LogLevel    string   `json:"log_level"`
}

// parseJSON overlays values from the JSON file at path onto config. An empty
// path loads nothing.
func parseJSON(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenTTL.Duration != 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.Storage != "" {
		config.Storage = c.Storage
	}
	if c.BadgerPath != "" {
		config.BadgerPath = c.BadgerPath
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	return nil
}
