package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("AUTH_DEV_SECRET", "dev-secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("SITE_DOMAIN", "https://contesto.example/")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("expected default port 3000, got %s", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected 5s shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Cache.PopularTTL != 10*time.Minute {
		t.Errorf("expected 10m popular ttl, got %s", cfg.Cache.PopularTTL)
	}
	if cfg.Payments.Currency != "usd" {
		t.Errorf("expected usd, got %s", cfg.Payments.Currency)
	}
	if cfg.Payments.SiteDomain != "https://contesto.example" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Payments.SiteDomain)
	}
	if cfg.CacheEnabled() || cfg.StorageEnabled() {
		t.Errorf("optional components should be disabled by default")
	}
}

func TestLoadMissingStripeKey(t *testing.T) {
	setRequired(t)
	t.Setenv("STRIPE_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STRIPE_SECRET_KEY is empty")
	}
}

func TestLoadRequiresIdentityProvider(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH_DEV_SECRET", "")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without identity provider settings")
	}
}

func TestAllowedOriginsList(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173,https://contesto.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", DBName: "contesto", SSLMode: "require",
	}}
	want := "host=db port=5432 user=u password=p dbname=contesto sslmode=require"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}

	cfg.Database.URL = "postgres://u:p@db/contesto"
	if got := cfg.GetDSN(); got != cfg.Database.URL {
		t.Errorf("expected DATABASE_URL to win, got %q", got)
	}

	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = "local.db"
	if got := cfg.GetDSN(); got != "local.db" {
		t.Errorf("expected sqlite path, got %q", got)
	}
}
