package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestCheckFlagsUnfilteredQueries(t *testing.T) {
	src := `-- name: ListProducts :many
SELECT * FROM products
WHERE account_id = $1;

-- name: LeakySales :many
SELECT * FROM sales;

-- name: GetProfile :one
SELECT * FROM profiles WHERE id = $1;

-- name: CreateProduct :one
INSERT INTO products (account_id, name) VALUES ($1, $2) RETURNING *;

-- name: DeleteProfile :execrows
DELETE FROM profiles
WHERE id = $1 AND account_id = sqlc.arg(account_id);
`
	bad, err := check(strings.NewReader(src))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !reflect.DeepEqual(bad, []string{"LeakySales"}) {
		t.Fatalf("flagged %v, want [LeakySales]", bad)
	}
}
