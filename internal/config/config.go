package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	JWTSecret    string
	JWTIssuer    string
	JWTAudience  string
	JWTClockSkew time.Duration

	AdminURL            string
	ServiceRoleKey      string
	AdminHTTPTimeout    time.Duration
	AdminRetryAttempts  int
	AdminRetryBase      time.Duration
	AdminBreakerMinReq  int
	AdminBreakerRatio   float64
	AdminBreakerOpenFor time.Duration

	CartTTL           time.Duration
	ReportCacheTTL    time.Duration
	ReportDefaultDays int
	IdempotencyTTL    time.Duration
	LockTTL           time.Duration
	LockRetryBackoff  time.Duration
	RateLimit         string
	PageSize          int
	WalkInLabel       string
	DefaultCurrency   string

	QueueConcurrency int
	QueueMaxRetry    int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		JWTSecret:    k.String("AUTH_JWT_SECRET"),
		JWTIssuer:    strings.TrimSpace(k.String("AUTH_JWT_ISSUER")),
		JWTAudience:  valueOrDefault(k.String("AUTH_JWT_AUDIENCE"), "authenticated"),
		JWTClockSkew: parseDuration(k.String("AUTH_JWT_CLOCK_SKEW"), "30s"),

		AdminURL:            strings.TrimRight(strings.TrimSpace(k.String("AUTH_ADMIN_URL")), "/"),
		ServiceRoleKey:      k.String("AUTH_SERVICE_ROLE_KEY"),
		AdminHTTPTimeout:    parseDuration(k.String("ADMIN_HTTP_TIMEOUT"), "5s"),
		AdminRetryAttempts:  parseInt(k.String("ADMIN_RETRY_MAX_ATTEMPTS"), 3),
		AdminRetryBase:      parseDuration(k.String("ADMIN_RETRY_BASE"), "200ms"),
		AdminBreakerMinReq:  parseInt(k.String("ADMIN_BREAKER_MIN_REQUESTS"), 5),
		AdminBreakerRatio:   parseFloat(k.String("ADMIN_BREAKER_FAILURE_RATIO"), 0.5),
		AdminBreakerOpenFor: parseDuration(k.String("ADMIN_BREAKER_OPEN_FOR"), "30s"),

		CartTTL:           parseDuration(k.String("CART_TTL"), "2h"),
		ReportCacheTTL:    parseDuration(k.String("REPORT_CACHE_TTL"), "5m"),
		ReportDefaultDays: parseInt(k.String("REPORT_DEFAULT_DAYS"), 7),
		IdempotencyTTL:    parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		LockTTL:           parseDuration(k.String("LOCK_TTL"), "15s"),
		LockRetryBackoff:  parseDuration(k.String("LOCK_RETRY_BACKOFF"), "50ms"),
		RateLimit:         valueOrDefault(k.String("RATE_LIMIT"), "300-M"),
		PageSize:          parseInt(k.String("PAGE_SIZE"), 10),
		WalkInLabel:       valueOrDefault(k.String("WALK_IN_CUSTOMER_LABEL"), "Walk-in Customer"),
		DefaultCurrency:   valueOrDefault(k.String("DEFAULT_CURRENCY"), "INR"),

		QueueConcurrency: parseInt(k.String("QUEUE_CONCURRENCY"), 5),
		QueueMaxRetry:    parseInt(k.String("QUEUE_MAX_RETRY"), 5),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// AdminEnabled reports whether worker provisioning against the auth platform is configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminURL != "" && strings.TrimSpace(c.ServiceRoleKey) != ""
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseFloat(value string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
