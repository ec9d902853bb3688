package config_test

import (
	"slices"
	"testing"
	"time"

	"github.com/noah-isme/backend-inventory/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":    "postgres://localhost/inventory",
		"REDIS_URL":       "redis://localhost:6379/0",
		"AUTH_JWT_SECRET": "secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.HTTPAddr(); got != ":8080" {
		t.Fatalf("addr = %q", got)
	}
	if cfg.JWTAudience != "authenticated" {
		t.Fatalf("audience = %q", cfg.JWTAudience)
	}
	if cfg.PageSize != 10 || cfg.ReportDefaultDays != 7 {
		t.Fatalf("page size %d, report days %d", cfg.PageSize, cfg.ReportDefaultDays)
	}
	if cfg.WalkInLabel != "Walk-in Customer" {
		t.Fatalf("walk-in label = %q", cfg.WalkInLabel)
	}
	if cfg.CartTTL != 2*time.Hour {
		t.Fatalf("cart ttl = %s", cfg.CartTTL)
	}
	if cfg.AdminEnabled() {
		t.Fatal("admin client enabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = ":9090"
	env["CART_TTL"] = "30m"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example"
	env["AUTH_ADMIN_URL"] = "https://auth.example/"
	env["AUTH_SERVICE_ROLE_KEY"] = "service"
	env["REPORT_DEFAULT_DAYS"] = "not-a-number"

	cfg, err := config.LoadForTests(env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.HTTPAddr(); got != ":9090" {
		t.Fatalf("addr = %q", got)
	}
	if cfg.CartTTL != 30*time.Minute {
		t.Fatalf("cart ttl = %s", cfg.CartTTL)
	}
	if want := []string{"https://a.example", "https://b.example"}; !slices.Equal(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.AdminURL != "https://auth.example" || !cfg.AdminEnabled() {
		t.Fatalf("admin url %q enabled=%v", cfg.AdminURL, cfg.AdminEnabled())
	}
	if cfg.ReportDefaultDays != 7 {
		t.Fatalf("invalid REPORT_DEFAULT_DAYS should fall back to 7, got %d", cfg.ReportDefaultDays)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	env := baseEnv()
	env["AUTH_JWT_SECRET"] = ""
	if _, err := config.LoadForTests(env); err == nil {
		t.Fatal("expected an error without AUTH_JWT_SECRET")
	}
}
