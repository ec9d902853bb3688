package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-inventory/internal/config"
	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/obs"
	"github.com/noah-isme/backend-inventory/internal/report"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracingConfig{
		ServiceName: "inventory-worker",
		Endpoint:    envOrDefault("OBS_OTLP_ENDPOINT", ""),
		Exporter:    envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
		Environment: cfg.AppEnv,
	})
	if err != nil {
		logger.Error().Err(err).Msg("initialise tracing")
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Error().Err(err).Msg("shutdown tracer")
			}
		}()
	}

	pool, queries := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse queue redis url")
	}

	productsRepo := repo.ProductsRepo{Q: queries, DB: pool}
	handlers := tasks.Handlers{
		Reports: &report.Service{
			Sales:    repo.SalesRepo{Q: queries, DB: pool, Logger: &logger},
			Products: productsRepo,
			R:        redisClient,
			TTL:      cfg.ReportCacheTTL,
		},
		Products: productsRepo,
		Alerts:   tasks.LogAlerts{Logger: logger},
		Logger:   logger,
	}
	mux := asynq.NewServeMux()
	handlers.Register(mux)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.QueueConcurrency,
		Queues:      tasks.Queues(),
		BaseContext: func() context.Context { return logger.WithContext(context.Background()) },
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("type", task.Type()).Msg("task failed")
		}),
		Logger: asynqLogger{l: logger},
	})

	logger.Info().Msg("worker starting")
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}
	<-ctx.Done()
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

// asynqLogger routes asynq's internal logs through zerolog.
type asynqLogger struct{ l zerolog.Logger }

func (a asynqLogger) Debug(args ...any) { a.l.Debug().Msg(sprint(args)) }
func (a asynqLogger) Info(args ...any)  { a.l.Info().Msg(sprint(args)) }
func (a asynqLogger) Warn(args ...any)  { a.l.Warn().Msg(sprint(args)) }
func (a asynqLogger) Error(args ...any) { a.l.Error().Msg(sprint(args)) }
func (a asynqLogger) Fatal(args ...any) { a.l.Fatal().Msg(sprint(args)) }

func sprint(args []any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if s, ok := arg.(string); ok {
			parts = append(parts, s)
			continue
		}
		if err, ok := arg.(error); ok {
			parts = append(parts, err.Error())
		}
	}
	return strings.Join(parts, " ")
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, *dbgen.Queries) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool, dbgen.New(pool)
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
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
