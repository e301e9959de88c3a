// Package testdb runs tests against a real SurrealDB server so schema
// assertions, unique indexes and transaction guards are exercised for
// real instead of being mocked away.
//
// Every TestDB gets its own namespace with the migrations applied, so
// tests are isolated and parallel-safe:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    defer tdb.Close()
//	    // tdb.DB is a connected database.Database
//	}
//
// The server location comes from TEST_DB_HOST/PORT/USER/PASSWORD, with
// localhost:8000 root/root defaults matching a stock dev container.
package testdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poketrainer/api/internal/database"
)

// TestDB is one isolated namespace on the shared test server.
type TestDB struct {
	DB        database.Database
	Namespace string
	Database  string
	t         *testing.T
}

var nsCounter atomic.Int64

var (
	migrationOnce sync.Once
	migrations    []string
	migrationErr  error
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testConfig() database.Config {
	return database.Config{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
	}
}

// nextNamespace is unique per process and per wall-clock run, so
// leftover namespaces from a crashed run never collide with a new one.
func nextNamespace() string {
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), nsCounter.Add(1))
}

// findMigrationsDir walks up from the package directory; test binaries
// run from their package dir, not the repo root. POKETRAINER_ROOT wins
// when set.
func findMigrationsDir() string {
	if root := os.Getenv("POKETRAINER_ROOT"); root != "" {
		return filepath.Join(root, "migrations")
	}
	dir := "migrations"
	for i := 0; i < 5; i++ {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		dir = filepath.Join("..", dir)
	}
	return ""
}

// loadMigrations reads the .surql files once, in name order. seed.surql
// is dev data, not schema, and is skipped.
func loadMigrations() ([]string, error) {
	migrationOnce.Do(func() {
		dir := findMigrationsDir()
		if dir == "" {
			migrationErr = fmt.Errorf("could not find migrations directory")
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			migrationErr = fmt.Errorf("reading migrations dir: %w", err)
			return
		}

		var names []string
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".surql") && e.Name() != "seed.surql" {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			content, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				migrationErr = fmt.Errorf("reading %s: %w", name, err)
				return
			}
			migrations = append(migrations, string(content))
		}
	})
	return migrations, migrationErr
}

// New connects to the test server under a fresh namespace and applies
// the migrations. Call Close to drop the namespace.
func New(t *testing.T) *TestDB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.Namespace = nextNamespace()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	migs, err := loadMigrations()
	if err != nil {
		_ = db.Close()
		t.Fatalf("testdb: failed to load migrations: %v", err)
	}
	for i, mig := range migs {
		if err := db.Execute(ctx, mig, nil); err != nil {
			_ = db.Close()
			t.Fatalf("testdb: migration %d failed: %v", i+1, err)
		}
	}

	return &TestDB{
		DB:        db,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
		t:         t,
	}
}

// Close drops the namespace and hangs up. Cleanup errors are ignored;
// orphaned test namespaces are harmless.
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Namespace), nil)
	_ = tdb.DB.Close()
}

// Reset empties every domain table, keeping the schema. Cheaper than a
// fresh namespace when subtests just need clean data.
func (tdb *TestDB) Reset(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, table := range []string{"trainer", "pokemon", "team", "box", "item", "refresh_token"} {
		if err := tdb.DB.Execute(ctx, "DELETE FROM "+table, nil); err != nil {
			t.Logf("testdb: warning - failed to clear table %s: %v", table, err)
		}
	}
}

// Ctx returns a context bounded to a test-appropriate timeout.
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = cancel // operations finish well inside the timeout
	return ctx
}

// MustExec runs a mutation, failing the test on error.
func (tdb *TestDB) MustExec(query string, vars map[string]interface{}) {
	tdb.t.Helper()
	if err := tdb.DB.Execute(tdb.Ctx(), query, vars); err != nil {
		tdb.t.Fatalf("testdb: exec failed: %v\nQuery: %s", err, query)
	}
}

// MustQuery runs a query, failing the test on error.
func (tdb *TestDB) MustQuery(query string, vars map[string]interface{}) []interface{} {
	tdb.t.Helper()
	results, err := tdb.DB.Query(tdb.Ctx(), query, vars)
	if err != nil {
		tdb.t.Fatalf("testdb: query failed: %v\nQuery: %s", err, query)
	}
	return results
}

// Shared amortizes migration cost across subtests of one test function.
type Shared struct {
	*TestDB
}

// NewShared is New for a TestDB reused by subtests.
func NewShared(t *testing.T) *Shared {
	return &Shared{TestDB: New(t)}
}

// SetupSubtest wipes the data and rebinds failure reporting to the
// subtest. Call at the top of each t.Run block.
func (s *Shared) SetupSubtest(t *testing.T) *TestDB {
	t.Helper()
	s.TestDB.t = t
	s.TestDB.Reset(t)
	return s.TestDB
}
