package zombiezen

import (
	"context"
	"fmt"

	"github.com/grouplet/grouplet/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newPasswordResetFromStmt(stmt *sqlite.Stmt) (*db.PasswordReset, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	expiresAt, err := db.TimeParse(stmt.GetText("expires_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing expires_at time: %w", err)
	}

	return &db.PasswordReset{
		ID:         stmt.GetInt64("id"),
		Email:      stmt.GetText("email"),
		Otp:        stmt.GetText("otp"),
		ResetToken: stmt.GetText("reset_token"),
		Created:    created,
		ExpiresAt:  expiresAt,
	}, nil
}

func (d *Db) InsertPasswordReset(r db.PasswordReset) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO password_resets (email, otp, expires_at)
		VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{
				r.Email,
				r.Otp,
				db.TimeFormatString(r.ExpiresAt),
			},
		})
	if err != nil {
		return fmt.Errorf("failed to insert password reset: %w", err)
	}
	return nil
}

// GetPasswordResetByOtp returns the newest non-expired row matching
// (email, otp), or nil when none is usable.
func (d *Db) GetPasswordResetByOtp(email, otp string) (*db.PasswordReset, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var reset *db.PasswordReset
	err = sqlitex.Execute(conn,
		`SELECT id, email, otp, reset_token, created, expires_at
		FROM password_resets
		WHERE email = ? AND otp = ?
			AND expires_at > strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		ORDER BY id DESC LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				reset, err = newPasswordResetFromStmt(stmt)
				return err
			},
			Args: []interface{}{email, otp},
		})

	if err != nil {
		return nil, err
	}

	return reset, nil
}

// SetPasswordResetToken attaches the reset credential once the OTP has been
// verified.
func (d *Db) SetPasswordResetToken(id int64, token string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE password_resets SET reset_token = ? WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{token, id},
		})
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return nil
}

// GetPasswordResetByToken returns the newest non-expired row matching
// (email, resetToken), or nil when none is usable.
func (d *Db) GetPasswordResetByToken(email, resetToken string) (*db.PasswordReset, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var reset *db.PasswordReset
	err = sqlitex.Execute(conn,
		`SELECT id, email, otp, reset_token, created, expires_at
		FROM password_resets
		WHERE email = ? AND reset_token = ? AND reset_token != ''
			AND expires_at > strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		ORDER BY id DESC LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				reset, err = newPasswordResetFromStmt(stmt)
				return err
			},
			Args: []interface{}{email, resetToken},
		})

	if err != nil {
		return nil, err
	}

	return reset, nil
}

// ConsumePasswordReset deletes the reset row. The boolean reports whether
// this call removed it, so concurrent completions cannot both succeed.
func (d *Db) ConsumePasswordReset(id int64) (bool, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return false, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM password_resets WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{id},
		})
	if err != nil {
		return false, fmt.Errorf("failed to consume password reset: %w", err)
	}

	return conn.Changes() > 0, nil
}
