package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-inventory/internal/auth"
	"github.com/noah-isme/backend-inventory/internal/cart"
	"github.com/noah-isme/backend-inventory/internal/catalog"
	"github.com/noah-isme/backend-inventory/internal/common"
	"github.com/noah-isme/backend-inventory/internal/config"
	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/events"
	"github.com/noah-isme/backend-inventory/internal/health"
	"github.com/noah-isme/backend-inventory/internal/lock"
	"github.com/noah-isme/backend-inventory/internal/obs"
	"github.com/noah-isme/backend-inventory/internal/ratelimit"
	"github.com/noah-isme/backend-inventory/internal/report"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/resilience"
	"github.com/noah-isme/backend-inventory/internal/sale"
	"github.com/noah-isme/backend-inventory/internal/security"
	tenantservices "github.com/noah-isme/backend-inventory/internal/services/tenant"
	"github.com/noah-isme/backend-inventory/internal/settings"
	"github.com/noah-isme/backend-inventory/internal/tasks"
	"github.com/noah-isme/backend-inventory/internal/tenant"
	"github.com/noah-isme/backend-inventory/internal/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "inventory")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "inventory-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()
	queries := dbgen.New(pool)

	redisClient := mustInitRedis(ctx, cfg, logger, metricsEnabled)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse queue redis url")
	}
	taskClient := asynq.NewClient(redisOpt)
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	productsRepo := repo.ProductsRepo{Q: queries, DB: pool}
	salesRepo := repo.SalesRepo{Q: queries, DB: pool, Logger: &logger}
	profilesRepo := repo.ProfilesRepo{Q: queries}

	bus := &events.Bus{
		Notifiers: []events.Notifier{tasks.Notifier{
			Client:    taskClient,
			UniqueFor: 5 * time.Second,
			MaxRetry:  cfg.QueueMaxRetry,
			Logger:    logger,
		}},
	}
	locker := lock.Locker{R: redisClient, RetryBackoff: cfg.LockRetryBackoff}

	settingsSvc := settings.NewService(repo.SettingsRepo{Q: queries}, repo.AccountsRepo{Q: queries}, cfg.DefaultCurrency)
	settingsSvc.Onboarding = repo.AccountsRepo{Q: queries, DB: pool}
	settingsHandler := &settings.Handler{Svc: settingsSvc}

	cartSvc := &cart.Service{
		Store:   cart.Store{R: redisClient, TTL: cfg.CartTTL},
		Catalog: tenantservices.CartCatalog{R: productsRepo},
		Locker:  locker,
		LockTTL: cfg.LockTTL,
	}
	cartHandler := &cart.Handler{Svc: cartSvc, Policies: settingsSvc}

	saleSvc := &sale.Service{
		Carts:       cartSvc,
		Policies:    settingsSvc,
		Writer:      salesRepo,
		Reader:      salesRepo,
		Locker:      locker,
		LockTTL:     cfg.LockTTL,
		Events:      bus,
		WalkInLabel: cfg.WalkInLabel,
		Logger:      &logger,
	}
	saleHandler := &sale.Handler{Svc: saleSvc, PageSize: cfg.PageSize}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{Store: productsRepo, Events: bus, Logger: logger})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogSvc})

	reportSvc := &report.Service{
		Sales:       salesRepo,
		Products:    productsRepo,
		R:           redisClient,
		TTL:         cfg.ReportCacheTTL,
		DefaultDays: cfg.ReportDefaultDays,
	}
	reportHandler := &report.Handler{Svc: reportSvc}

	var adminUsers workers.Users
	if cfg.AdminEnabled() {
		breaker := resilience.NewBreaker(resilience.BreakerConfig{
			Target:       "auth-admin",
			MinRequests:  cfg.AdminBreakerMinReq,
			FailureRatio: cfg.AdminBreakerRatio,
			OpenFor:      cfg.AdminBreakerOpenFor,
		})
		adminUsers = auth.NewAdminClient(cfg.AdminURL, cfg.ServiceRoleKey, cfg.AdminHTTPTimeout, resilience.HTTPClient{
			Breaker:     breaker.WithLogger(logger),
			BaseBackoff: cfg.AdminRetryBase,
			MaxAttempts: cfg.AdminRetryAttempts,
			Jitter:      0.2,
		})
	} else {
		logger.Warn().Msg("auth admin api not configured; worker management disabled")
	}
	workersSvc := workers.NewService(profilesRepo, adminUsers, logger)
	workersHandler := &workers.Handler{Svc: workersSvc, PageSize: cfg.PageSize}

	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		Role:      "authenticated",
		ClockSkew: cfg.JWTClockSkew,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise token verifier")
	}
	authMiddleware := auth.Middleware{Verifier: verifier}
	tenantResolver := tenant.Resolver{Profiles: profilesRepo}

	limiter, err := ratelimit.NewRedis(redisClient, cfg.RateLimit, "ratelimit")
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}
	rateLimit := ratelimit.Handler{
		Limiter: limiter,
		OnError: func(err error) { logger.Warn().Err(err).Msg("rate limiter unavailable") },
	}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.ScopeMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{
		Enable:     envBool("SECURE_HEADERS_ENABLE", true),
		EnableHSTS: envBool("SECURE_HSTS_ENABLE", false),
	}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Content-Disposition", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      health.Probes{DB: pool, Redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	jsonBody := security.BodyLimit{Max: security.DefaultMaxBody}.Middleware
	importBody := security.BodyLimit{Max: security.ImportMaxBody}.Middleware

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(authMiddleware.RequireAuth)
		v.Use(rateLimit.Middleware)

		// Signed-up users without a profile land here first.
		v.With(jsonBody).Post("/accounts", settingsHandler.CreateAccount)

		v.Group(func(v chi.Router) {
			v.Use(tenantResolver.Middleware)

			v.Route("/carts", func(c chi.Router) {
				c.Use(jsonBody)
				c.Post("/", cartHandler.Create)
				c.Get("/{id}", cartHandler.Get)
				c.Delete("/{id}", cartHandler.Discard)
				c.Post("/{id}/items", cartHandler.AddItem)
				c.Delete("/{id}/items", cartHandler.Clear)
				c.Patch("/{id}/items/{productId}", cartHandler.UpdateItem)
				c.Put("/{id}/items/{productId}/price", cartHandler.SetPrice)
				c.Delete("/{id}/items/{productId}", cartHandler.RemoveItem)
				c.With(idem.Middleware).Post("/{id}/submit", saleHandler.Submit)
			})

			v.Get("/sales", saleHandler.List)

			v.Get("/categories/presets", catalogHandler.Categories)
			v.Route("/products", func(p chi.Router) {
				p.Get("/", catalogHandler.Products)
				p.Get("/available", catalogHandler.Available)
				p.Get("/low-stock", catalogHandler.LowStock)
				p.Get("/{id}", catalogHandler.Product)
				p.Group(func(owner chi.Router) {
					owner.Use(tenant.RequireOwner)
					owner.With(jsonBody).Post("/", catalogHandler.Create)
					owner.With(importBody).Post("/import", catalogHandler.Import)
					owner.With(jsonBody).Put("/{id}", catalogHandler.Update)
					owner.Delete("/{id}", catalogHandler.Delete)
				})
			})

			v.Route("/reports", func(rep chi.Router) {
				rep.Use(tenant.RequireOwner)
				rep.Get("/daily", reportHandler.Daily)
				rep.Get("/daily/export", reportHandler.ExportDaily)
				rep.Get("/products", reportHandler.Products)
				rep.Get("/products/export", reportHandler.ExportProducts)
				rep.Get("/overview", reportHandler.Overview)
			})

			v.Route("/settings", func(s chi.Router) {
				s.Get("/", settingsHandler.Get)
				s.Group(func(owner chi.Router) {
					owner.Use(tenant.RequireOwner, jsonBody)
					owner.Put("/", settingsHandler.Update)
					owner.Put("/account", settingsHandler.Rename)
				})
			})

			v.Route("/workers", func(wr chi.Router) {
				wr.Use(tenant.RequireOwner, jsonBody)
				wr.Get("/", workersHandler.List)
				wr.Post("/", workersHandler.Create)
				wr.Delete("/{id}", workersHandler.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), envDurationMillis("HTTP_SHUTDOWN_TIMEOUT_MS", 15000))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	logger.Info().Msg("server stopped")
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	startCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "inventory-api"

	pool, err := pgxpool.NewWithConfig(startCtx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(startCtx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger, metricsEnabled bool) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
