package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/salon-scheduler/internal/persistence/sqlite"
)

// OpenSQLite opens a migrated SQLite database in a per-test temporary
// directory and closes it when the test finishes.
func OpenSQLite(t *testing.T) *sqlite.ConnectionPool {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "scheduler.db")
	pool, err := sqlite.Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("close sqlite: %v", err)
		}
	})

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return pool
}
