package zombiezen

import (
	"context"
	"fmt"

	"github.com/grouplet/grouplet/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const groupColumns = `id, name, description, created_by, is_shared, share_code, created, updated`

func newGroupFromStmt(stmt *sqlite.Stmt) (*db.Group, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	return &db.Group{
		ID:          stmt.GetInt64("id"),
		Name:        stmt.GetText("name"),
		Description: stmt.GetText("description"),
		CreatedBy:   stmt.GetText("created_by"),
		IsShared:    stmt.GetInt64("is_shared") != 0,
		ShareCode:   stmt.GetText("share_code"),
		Created:     created,
		Updated:     updated,
	}, nil
}

// CreateGroup inserts the group and the creator's membership row inside a
// savepoint. The creator joins with sharing enabled.
func (d *Db) CreateGroup(g db.Group) (*db.Group, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	var created *db.Group
	err = sqlitex.Execute(conn,
		`INSERT INTO groups (name, description, created_by, is_shared, share_code)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+groupColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newGroupFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				g.Name,
				g.Description,
				g.CreatedBy,
				g.IsShared,
				g.ShareCode,
			},
		})
	if err != nil {
		if isUniqueConstraint(err) {
			err = db.ErrConstraintUnique
			return nil, err
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO group_members (group_id, user_id, joined_via_code, is_shared)
		VALUES (?, ?, 0, 1)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{created.ID, g.CreatedBy},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	return created, nil
}

func (d *Db) GetGroupById(id int64) (*db.Group, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var group *db.Group
	err = sqlitex.Execute(conn,
		`SELECT `+groupColumns+` FROM groups WHERE id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				group, err = newGroupFromStmt(stmt)
				return err
			},
			Args: []interface{}{id},
		})

	if err != nil {
		return nil, err
	}

	return group, nil
}

// GetGroupByShareCode resolves a join code. Only groups with sharing
// enabled are joinable, but the row is returned either way so callers can
// distinguish "no such code" from "sharing disabled".
func (d *Db) GetGroupByShareCode(code string) (*db.Group, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var group *db.Group
	err = sqlitex.Execute(conn,
		`SELECT `+groupColumns+` FROM groups WHERE share_code = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				group, err = newGroupFromStmt(stmt)
				return err
			},
			Args: []interface{}{code},
		})

	if err != nil {
		return nil, err
	}

	return group, nil
}

// ListGroupsForUser returns the groups the user belongs to, newest first.
// Creators are members by construction, so membership alone covers both.
func (d *Db) ListGroupsForUser(userId string) ([]*db.Group, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var groups []*db.Group
	err = sqlitex.Execute(conn,
		`SELECT g.id, g.name, g.description, g.created_by, g.is_shared, g.share_code, g.created, g.updated
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.id DESC`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				group, err := newGroupFromStmt(stmt)
				if err != nil {
					return err
				}
				groups = append(groups, group)
				return nil
			},
			Args: []interface{}{userId},
		})

	if err != nil {
		return nil, err
	}

	return groups, nil
}

func (d *Db) UpdateGroup(id int64, name, description string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE groups
		SET name = ?,
			description = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{name, description, id},
		})
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	if conn.Changes() == 0 {
		return db.ErrGroupNotFound
	}
	return nil
}

func (d *Db) DeleteGroup(id int64) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM groups WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{id},
		})
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	if conn.Changes() == 0 {
		return db.ErrGroupNotFound
	}
	return nil
}

func (d *Db) SetGroupSharing(id int64, shared bool) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE groups
		SET is_shared = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{shared, id},
		})
	if err != nil {
		return fmt.Errorf("failed to set group sharing: %w", err)
	}

	if conn.Changes() == 0 {
		return db.ErrGroupNotFound
	}
	return nil
}
