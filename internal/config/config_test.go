package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/admitd_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
	if cfg.TokenTTLMinutes != 60 {
		t.Errorf("expected default token TTL 60, got %d", cfg.TokenTTLMinutes)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{Env: "production", TokenTTLMinutes: 60, DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}

	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DevAllowsEmptySecret(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLMinutes: 60, DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_TokenTTL(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLMinutes: 0, DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive TOKEN_TTL_MINUTES")
	}
}

func TestValidate_ConnBounds(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLMinutes: 60, DBMaxConns: 5, DBMinConns: 10}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when DB_MIN_CONNS exceeds DB_MAX_CONNS")
	}
}
