package obs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/noah-isme/backend-inventory/internal/obs"
)

func TestQueryName(t *testing.T) {
	cases := map[string]string{
		"-- name: GetProfile :one\nSELECT id FROM profiles WHERE id = $1": "GetProfile",
		"  -- name: ListSalesPage :many\nSELECT 1":                           "ListSalesPage",
		"INSERT INTO sales (account_id) VALUES ($1)":                          "",
		"-- name:":                                                            "",
	}
	for sql, want := range cases {
		if got := obs.QueryName(sql); got != want {
			t.Fatalf("QueryName(%q) = %q, want %q", sql, got, want)
		}
	}
}

func TestPGXTracerNamesSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, scope := obs.WithScope(context.Background())
	scope.Set(obs.FieldAccountID, "acct-9")

	var tracer obs.PGXTracer
	qctx := tracer.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{SQL: "-- name: GetProfile :one\nSELECT id FROM profiles WHERE id = $1"})
	tracer.TraceQueryEnd(qctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})

	qctx = tracer.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{SQL: "insert into sales (account_id) values ($1)"})
	tracer.TraceQueryEnd(qctx, nil, pgx.TraceQueryEndData{Err: errors.New("undefined column")})

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "db GetProfile" || spans[1].Name() != "db INSERT" {
		t.Fatalf("unexpected span names %q, %q", spans[0].Name(), spans[1].Name())
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["inventory.account_id"].AsString() != "acct-9" || attrs["db.rows_affected"].AsInt64() != 1 {
		t.Fatalf("unexpected attributes: %v", attrs)
	}
	if len(spans[1].Events()) == 0 {
		t.Fatalf("expected the failed query to record its error")
	}
}
