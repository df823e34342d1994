package config

import (
	"flag"
	"io"
	"strings"
	"time"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g., ":8080")
//	-s string        token signing secret
//	-t int           token validity, minutes
//	-storage string  badger or postgres
//	-db string       badger directory
//	-d string        PostgreSQL DSN
//	-cost int        bcrypt cost
//	-log string      log level
//	-c, -config      JSON config file (read earlier by parseJSON)
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.Storage, "storage", config.Storage, "storage backend (badger|postgres)")
	fs.StringVar(&config.BadgerPath, "db", config.BadgerPath, "badger database directory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.BcryptCost, "cost", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "log", config.LogLevel, "log level")

	var ignored string
	fs.StringVar(&ignored, "c", "", "json config file")
	fs.StringVar(&ignored, "config", "", "json config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only an explicit -t replaces a TTL that may carry sub-minute precision.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
		}
	})
	return nil
}

// jsonConfigPath finds the value of -c/-config in args without parsing the
// rest of them.
func jsonConfigPath(args []string) string {
	for i, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if key, value, ok := strings.Cut(name, "="); ok {
			if key == "c" || key == "config" {
				return value
			}
			continue
		}
		if (name == "c" || name == "config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
