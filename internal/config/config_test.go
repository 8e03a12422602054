package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable the parser reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "SECRET_KEY", "PAGE_LIMIT", "API_BASE", "SEED_ENTRIES"} {
		t.Setenv(k, "")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	want := Config{
		Port:         DefaultPort,
		DatabaseURL:  DefaultDatabaseURL,
		DatabaseType: DatabaseSQLite,
		SecretKey:    "s3cret",
		PageLimit:    DefaultPageLimit,
		APIBase:      "http://localhost:9000",
	}
	if cfg != want {
		t.Errorf("ParseFlags() = %+v, want %+v", cfg, want)
	}
	if cfg.Addr() != ":9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8123")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("SECRET_KEY", "k")
	t.Setenv("PAGE_LIMIT", "25")
	t.Setenv("SEED_ENTRIES", "14")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8123 || cfg.DatabaseType != DatabasePostgres || cfg.PageLimit != 25 || cfg.SeedEntries != 14 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.APIBase != "http://localhost:8123" {
		t.Errorf("APIBase = %q", cfg.APIBase)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SECRET_KEY", "env-secret")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-secret", "cli-secret", "-api", "https://admin.example"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.SecretKey != "cli-secret" {
		t.Errorf("SecretKey = %q, want cli-secret", cfg.SecretKey)
	}
	if cfg.APIBase != "https://admin.example" {
		t.Errorf("APIBase = %q", cfg.APIBase)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing secret", nil, nil},
		{"bad port", map[string]string{"SECRET_KEY": "k", "PORT": "http"}, nil},
		{"bad limit", map[string]string{"SECRET_KEY": "k", "PAGE_LIMIT": "ten"}, nil},
		{"negative limit", map[string]string{"SECRET_KEY": "k"}, []string{"-limit", "-1"}},
		{"unknown driver", map[string]string{"SECRET_KEY": "k", "DATABASE_TYPE": "mysql"}, nil},
		{"bad seed", map[string]string{"SECRET_KEY": "k", "SEED_ENTRIES": "lots"}, nil},
		{"unknown flag", map[string]string{"SECRET_KEY": "k"}, []string{"-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SECRET_KEY")
	os.Unsetenv("PAGE_LIMIT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SECRET_KEY=from-file\nPAGE_LIMIT=5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil, path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SecretKey != "from-file" || cfg.PageLimit != 5 {
		t.Errorf("Load() = %+v", cfg)
	}
}
