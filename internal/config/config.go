package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Database drivers accepted by DATABASE_TYPE.
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Defaults applied when neither a flag nor the environment sets a value.
const (
	DefaultPort        = 9000
	DefaultDatabaseURL = "file:contestui.db"
	DefaultPageLimit   = 10
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	SecretKey    string
	PageLimit    int
	APIBase      string
	SeedEntries  int
}

// Load reads envFiles (missing files are ignored) into the environment and
// then parses args. Variables already set in the environment win over the
// files.
func Load(args []string, envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return ParseFlags(args)
}

// ParseFlags parses args, falling back to environment variables for
// anything not given on the command line.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("contestui", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.IntVar(&cfg.PageLimit, "limit", 0, "Rows per page in tables")
	fs.StringVar(&cfg.APIBase, "api", "", "Base URL pages use to reach the JSON API")
	fs.IntVar(&cfg.SeedEntries, "seed", -1, "Seed an empty database with a demo contest of this many entries")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SecretKey, "secret", "", "Session and CSRF signing key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = envOr("DATABASE_URL", DefaultDatabaseURL)
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", DatabaseSQLite)
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.PageLimit == 0 {
		limit, err := envInt("PAGE_LIMIT", DefaultPageLimit)
		if err != nil {
			return Config{}, err
		}
		cfg.PageLimit = limit
	}
	if cfg.PageLimit < 0 {
		return Config{}, errors.New("page limit must be positive")
	}

	if cfg.SeedEntries < 0 {
		n, err := envInt("SEED_ENTRIES", 0)
		if err != nil {
			return Config{}, err
		}
		cfg.SeedEntries = max(n, 0)
	}

	if cfg.APIBase == "" {
		cfg.APIBase = envOr("API_BASE", "http://localhost:"+strconv.Itoa(cfg.Port))
	}

	// Secrets - MUST be provided
	if cfg.SecretKey == "" {
		cfg.SecretKey = os.Getenv("SECRET_KEY")
	}
	if cfg.SecretKey == "" {
		return Config{}, errors.New("SECRET_KEY required (use --secret or SECRET_KEY env)")
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return v, nil
}
