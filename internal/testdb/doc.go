//go:build integration

// Package testdb provides PostgreSQL helpers for integration tests.
//
// Each test runs inside a transaction that is rolled back when it returns,
// so tests can share one migrated database and run in parallel:
//
//	func TestMain(m *testing.M) {
//	    os.Exit(testdb.RunMain(m, &db))
//	}
//
//	func TestSomething(t *testing.T) {
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The connection string comes from DATABASE_URL, falling back to
// TASKS_TEST_DATABASE_URL and TASKS_DATABASE_URL.
package testdb
