package zombiezen

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite/sqlitex"
)

// PurgeExpired removes expired pending registrations, password resets and
// stories. Returns the number of rows deleted across all three tables.
func (d *Db) PurgeExpired() (int64, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return 0, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var total int64
	for _, table := range []string{"pending_registrations", "password_resets", "stories"} {
		err = sqlitex.Execute(conn,
			fmt.Sprintf(`DELETE FROM %s WHERE expires_at <= strftime('%%Y-%%m-%%dT%%H:%%M:%%SZ', 'now')`, table),
			nil)
		if err != nil {
			return total, fmt.Errorf("failed to purge %s: %w", table, err)
		}
		total += int64(conn.Changes())
	}

	return total, nil
}
