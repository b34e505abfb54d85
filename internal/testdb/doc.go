//go:build integration

// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Tests run inside a transaction that is rolled back when the test
// finishes, so they can run in parallel without interfering:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        products := postgres.NewPostgresProductStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The schema is migrated once per test binary using the migrations embedded
// in internal/platform/postgres. Set CATALOG_TEST_DB_URL (or DATABASE_URL)
// and run with -tags=integration.
package testdb
