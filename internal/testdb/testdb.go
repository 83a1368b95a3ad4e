// Package testdb opens a migrated Postgres pool for store tests.
// Tests using it are skipped unless FQ_TEST_DSN is set.
package testdb

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects to FQ_TEST_DSN, applies migrations/*.sql and truncates every
// table so each test starts empty.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("FQ_TEST_DSN")
	if dsn == "" {
		t.Skip("FQ_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigrations(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if _, err := db.Exec(ctx, `TRUNCATE TABLE tied_up_requests, tied_up_relationships,
        customers, rate_cards, carrier_service, carriers`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return db
}

func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, stmt := range splitSQL(stripSQLComments(string(content))) {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// ServiceEntry is one carrier_service row used by SeedCarrier.
type ServiceEntry struct {
	Pincode int
	Zone    string
	IsOda   bool
}

// SeedCarrier inserts a carrier and its service table in one transaction.
func SeedCarrier(t testing.TB, db *pgxpool.Pool, id, name string, entries ...ServiceEntry) {
	t.Helper()

	ctx := context.Background()
	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("seed carrier %s: %v", id, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO carriers (id, name) VALUES ($1, $2)`, id, name); err != nil {
		t.Fatalf("seed carrier %s: %v", id, err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
            INSERT INTO carrier_service (carrier_id, pincode, zone, is_oda)
            VALUES ($1, $2, $3, $4)`,
			id, int32(e.Pincode), e.Zone, e.IsOda,
		); err != nil {
			t.Fatalf("seed carrier %s service %d: %v", id, e.Pincode, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("seed carrier %s: %v", id, err)
	}
}
