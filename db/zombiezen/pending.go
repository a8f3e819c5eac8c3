package zombiezen

import (
	"context"
	"fmt"

	"github.com/grouplet/grouplet/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newPendingFromStmt(stmt *sqlite.Stmt) (*db.PendingRegistration, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	expiresAt, err := db.TimeParse(stmt.GetText("expires_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing expires_at time: %w", err)
	}

	return &db.PendingRegistration{
		ID:        stmt.GetInt64("id"),
		Email:     stmt.GetText("email"),
		Name:      stmt.GetText("name"),
		Phone:     stmt.GetText("phone"),
		Password:  stmt.GetText("password"),
		Otp:       stmt.GetText("otp"),
		Created:   created,
		ExpiresAt: expiresAt,
	}, nil
}

// InsertPendingRegistration stores a signup awaiting OTP confirmation.
// Repeated signups for the same email stack; confirmation picks the newest.
func (d *Db) InsertPendingRegistration(p db.PendingRegistration) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO pending_registrations (email, name, phone, password, otp, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{
				p.Email,
				p.Name,
				p.Phone,
				p.Password,
				p.Otp,
				db.TimeFormatString(p.ExpiresAt),
			},
		})
	if err != nil {
		return fmt.Errorf("failed to insert pending registration: %w", err)
	}
	return nil
}

// GetPendingRegistration returns the newest non-expired row matching
// (email, otp). A nil result with nil error means no usable row exists.
func (d *Db) GetPendingRegistration(email, otp string) (*db.PendingRegistration, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var pending *db.PendingRegistration
	err = sqlitex.Execute(conn,
		`SELECT id, email, name, phone, password, otp, created, expires_at
		FROM pending_registrations
		WHERE email = ? AND otp = ?
			AND expires_at > strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		ORDER BY id DESC LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				pending, err = newPendingFromStmt(stmt)
				return err
			},
			Args: []interface{}{email, otp},
		})

	if err != nil {
		return nil, err
	}

	return pending, nil
}

// ConfirmRegistration creates the verified user and deletes the consumed
// pending row inside a savepoint. A concurrent confirmation that already
// claimed the email or phone surfaces as db.ErrConstraintUnique.
func (d *Db) ConfirmRegistration(pendingID int64, user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	var created *db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, name, email, phone, password, verified)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, 1)
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				user.ID,
				user.Name,
				user.Email,
				user.Phone,
				user.Password,
			},
		})
	if err != nil {
		if isUniqueConstraint(err) {
			err = db.ErrConstraintUnique
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = sqlitex.Execute(conn,
		`DELETE FROM pending_registrations WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{pendingID},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to delete pending registration: %w", err)
	}

	return created, nil
}
