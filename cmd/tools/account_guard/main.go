// Command account_guard scans sqlc query files and fails when a SELECT,
// UPDATE or DELETE statement is not filtered by account_id.
// Exit code 0 = ok, 1 = violation, 2 = other error.
package main

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Queries that legitimately run outside an account.
var globalQueries = map[string]bool{
	"GetAccount":        true, // keyed by the account id itself
	"UpdateAccountName": true,
	"GetProfile":        true, // resolves the caller's account
	"SalesColumnExists": true, // information_schema probe
}

var (
	reName      = regexp.MustCompile(`^--\s*name:\s*(\w+)`)
	reStatement = regexp.MustCompile(`(?i)^\s*(select|update|delete)\b`)
	reAccount   = regexp.MustCompile(`(?i)account_id\s*=\s*(\$\d+|sqlc\.arg\(\w+\)|@\w+)`)
)

func main() {
	root := "db/queries"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	violations, err := scan(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "account_guard error: %v\n", err)
		os.Exit(2)
	}
	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "VIOLATION: %s\n", v)
		}
		os.Exit(1)
	}
	fmt.Println("account_guard: OK")
}

func scan(dir string) ([]string, error) {
	var violations []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".sql" {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		bad, err := check(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, name := range bad {
			violations = append(violations, path+": "+name)
		}
		return nil
	})
	return violations, err
}

type query struct {
	name     string
	scoped   bool
	filtered bool
}

// check returns the names of unfiltered queries in r.
func check(r io.Reader) ([]string, error) {
	var (
		bad     []string
		current *query
	)
	flush := func() {
		if current != nil && current.scoped && !current.filtered && !globalQueries[current.name] {
			bad = append(bad, current.name)
		}
	}
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if m := reName.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			current = &query{name: m[1]}
			continue
		}
		if current == nil {
			continue
		}
		if reStatement.MatchString(line) {
			current.scoped = true
		}
		if reAccount.MatchString(line) {
			current.filtered = true
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	flush()
	return bad, nil
}
