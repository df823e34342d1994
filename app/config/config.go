// Package config handles configuration for the server, including defaults,
// a JSON overlay, the environment, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Storage backends.
const (
	StorageBadger   = "badger"
	StoragePostgres = "postgres"
)

// SecretKeyEnv overrides the signing secret without putting it on the
// command line.
const SecretKeyEnv = "QUILL_SECRET_KEY"

// Config holds runtime settings for the server.
//
// Fields:
//   - Addr: bind address for the HTTP listener.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenTTL: lifetime of an issued session token.
//   - Storage: "badger" or "postgres".
//   - BadgerPath: directory of the embedded database.
//   - DatabaseDSN: PostgreSQL DSN (pgx), used when Storage is "postgres".
//   - BcryptCost: work factor for password hashes.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr        string
	SecretKey   string
	TokenTTL    time.Duration
	Storage     string
	BadgerPath  string
	DatabaseDSN string
	BcryptCost  int
	LogLevel    string
}

// LoadDefaults populates Config with development defaults. There is no
// default secret.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.TokenTTL = time.Hour
	c.Storage = StorageBadger
	c.BadgerPath = "data/badger"
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required (flag -s or %s)", SecretKeyEnv)
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	switch c.Storage {
	case StorageBadger:
		if c.BadgerPath == "" {
			return errors.New("badger path is required")
		}
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("database DSN is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and command-line flags. QUILL_SECRET_KEY is
// applied last and wins over -s. args excludes the program name and
// subcommand.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, jsonConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if secret := os.Getenv(SecretKeyEnv); secret != "" {
		cfg.SecretKey = secret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
