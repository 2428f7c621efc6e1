// Package testdb provides database helpers for tests.
//
// NewSQLite gives every test its own migrated SQLite file under t.TempDir(),
// so store tests run without any external service. NewPostgres connects to
// the database named by FLASHNOTES_TEST_DATABASE_URL and skips the test when
// the variable is unset. WithTx runs a function in a transaction that is
// always rolled back, which keeps tests against a shared PostgreSQL database
// isolated from each other.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.NewSQLite(t)
//	    testdb.WithTx(t, db.DB, func(t *testing.T, tx *sql.Tx) {
//	        s := database.NewFlashcardStore(tx, db.Dialect(), nil)
//	        // ...
//	    })
//	}
package testdb
