package grouplet

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// NewSqlitePool creates a SQLite connection pool with the defaults the
// application needs: WAL mode (zombiezen's default open flags) and foreign
// keys enforced on every connection, since the schema relies on cascading
// deletes.
func NewSqlitePool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = ON;", nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite pool at %s: %w", dbPath, err)
	}
	return pool, nil
}
