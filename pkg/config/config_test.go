package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNFromLegacyParts(t *testing.T) {
	cfg := DBConfig{
		LegacyHost:     "localhost",
		LegacyPort:     5432,
		LegacyUser:     "mahalla",
		LegacyPassword: "s3cret",
		LegacyName:     "mahalla",
		LegacySSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(cfg.DSN, "postgres://mahalla:") {
		t.Fatalf("unexpected dsn %q", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "sslmode=disable") {
		t.Fatalf("dsn missing sslmode: %q", cfg.DSN)
	}
}

func TestEnsureDSNKeepsExplicitValue(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@h:5432/db"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://u:p@h:5432/db" {
		t.Fatalf("explicit dsn should be untouched, got %q", cfg.DSN)
	}
}

func TestEnsureDSNRequiresParts(t *testing.T) {
	cfg := DBConfig{}
	if err := cfg.ensureDSN(); err == nil {
		t.Fatal("expected error when neither DSN nor host/user/name provided")
	}
}

func TestAppEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "Development"}
	if !app.IsDev() || app.IsProd() {
		t.Fatal("env matching should be case-insensitive")
	}
}
