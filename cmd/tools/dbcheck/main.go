// Command dbcheck verifies that the database is reachable, the application
// tables are readable and reports whether the optional sale customer columns
// are present.
package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
)

var tables = []string{"accounts", "profiles", "settings", "products", "sales"}

var customerColumns = []string{"customer_name", "customer_phone"}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("component", "dbcheck").Logger()

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	logger.Info().Msg("connection ok")

	failed := false
	for _, table := range tables {
		if err := probeTable(ctx, pool, table); err != nil {
			failed = true
			logger.Error().Err(err).Str("table", table).Msg("table not readable")
			continue
		}
		logger.Info().Str("table", table).Msg("table ok")
	}

	q := dbgen.New(pool)
	for _, column := range customerColumns {
		present, err := q.SalesColumnExists(ctx, column)
		if err != nil {
			failed = true
			logger.Error().Err(err).Str("column", column).Msg("inspect sales column")
			continue
		}
		if !present {
			logger.Warn().Str("column", column).Msg("optional sales column missing; sales will be recorded without customer details")
			continue
		}
		logger.Info().Str("column", column).Msg("sales column present")
	}

	if failed {
		os.Exit(1)
	}
}

func probeTable(ctx context.Context, pool *pgxpool.Pool, table string) error {
	var one int
	err := pool.QueryRow(ctx, "SELECT 1 FROM "+pgx.Identifier{table}.Sanitize()+" LIMIT 1").Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
