//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/task-tracker-api/internal/platform/postgres"
	"github.com/phrazzld/task-tracker-api/internal/redact"
)

const setupTimeout = 30 * time.Second

// Open connects to the test database and applies all migrations.
func Open(ctx context.Context) (*sql.DB, error) {
	dbURL := DatabaseURL()
	if dbURL == "" {
		return nil, fmt.Errorf("none of %v is set", URLEnvVars)
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", redact.String(dbURL), err)
	}

	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", redact.String(dbURL), err)
	}
	if err := postgres.Migrate(ctx, db, postgres.MigrateUp, nil); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunMain opens the test database into *db, runs the package's tests and
// closes it again. Without a configured database the tests are skipped,
// unless running under CI.
func RunMain(m *testing.M, db **sql.DB) int {
	if ShouldSkipDatabaseTest() {
		if isCIEnvironment() {
			fmt.Printf("no test database configured; set one of %v\n", URLEnvVars)
			return 1
		}
		fmt.Println("no test database configured, skipping integration tests")
		return 0
	}

	conn, err := Open(context.Background())
	if err != nil {
		fmt.Printf("failed to set up test database: %v\n", err)
		return 1
	}
	defer func() { _ = conn.Close() }()

	*db = conn
	return m.Run()
}
