package migrations

import (
	"io/fs"
	"testing"
)

func TestDriverURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/app?sslmode=disable": "pgx5://u:p@db:5432/app?sslmode=disable",
		" postgresql://db/app ":                      "pgx5://db/app",
		"pgx5://db/app":                              "pgx5://db/app",
	}
	for in, want := range cases {
		if got := driverURL(in); got != want {
			t.Fatalf("driverURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(FS, "*.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	downs, err := fs.Glob(FS, "*.down.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(ups) == 0 || len(downs) != len(ups) {
		t.Fatalf("unpaired migrations: %d up, %d down", len(ups), len(downs))
	}
}
