package zombiezen

import (
	"fmt"

	"github.com/grouplet/grouplet/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type Db struct {
	pool *sqlitex.Pool
}

// Verify interface implementations
var _ db.DbAuth = (*Db)(nil)
var _ db.DbSocial = (*Db)(nil)
var _ db.DbQueue = (*Db)(nil)
var _ db.DbApp = (*Db)(nil)

// New creates a new Db instance using an existing pool provided by the user.
// The lifecycle of the pool is managed externally; this type never closes it.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}

// isUniqueConstraint reports whether err is a SQLite unique constraint
// violation. Callers map it to db.ErrConstraintUnique.
func isUniqueConstraint(err error) bool {
	return sqlite.ErrCode(err) == sqlite.ResultConstraintUnique
}
