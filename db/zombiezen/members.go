package zombiezen

import (
	"context"
	"fmt"
	"strings"

	"github.com/grouplet/grouplet/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newMemberFromStmt(stmt *sqlite.Stmt) (*db.GroupMember, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	return &db.GroupMember{
		ID:            stmt.GetInt64("id"),
		GroupID:       stmt.GetInt64("group_id"),
		UserID:        stmt.GetText("user_id"),
		JoinedViaCode: stmt.GetInt64("joined_via_code") != 0,
		IsShared:      stmt.GetInt64("is_shared") != 0,
		Created:       created,
	}, nil
}

func (d *Db) IsMember(groupId int64, userId string) (bool, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return false, err
	}
	defer d.pool.Put(conn)

	var found bool
	err = sqlitex.Execute(conn,
		`SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				return nil
			},
			Args: []interface{}{groupId, userId},
		})

	if err != nil {
		return false, err
	}

	return found, nil
}

func (d *Db) GetMember(groupId int64, userId string) (*db.GroupMember, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var member *db.GroupMember
	err = sqlitex.Execute(conn,
		`SELECT id, group_id, user_id, joined_via_code, is_shared, created
		FROM group_members WHERE group_id = ? AND user_id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				member, err = newMemberFromStmt(stmt)
				return err
			},
			Args: []interface{}{groupId, userId},
		})

	if err != nil {
		return nil, err
	}

	return member, nil
}

// AddMember inserts a membership row. A duplicate (group, user) pair
// surfaces as db.ErrConstraintUnique.
func (d *Db) AddMember(m db.GroupMember) (*db.GroupMember, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var created *db.GroupMember
	err = sqlitex.Execute(conn,
		`INSERT INTO group_members (group_id, user_id, joined_via_code, is_shared)
		VALUES (?, ?, ?, ?)
		RETURNING id, group_id, user_id, joined_via_code, is_shared, created`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newMemberFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				m.GroupID,
				m.UserID,
				m.JoinedViaCode,
				m.IsShared,
			},
		})
	if err != nil {
		if isUniqueConstraint(err) {
			return nil, db.ErrConstraintUnique
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return created, nil
}

// RemoveMember deletes a membership row. The boolean reports whether a row
// was actually removed.
func (d *Db) RemoveMember(groupId int64, userId string) (bool, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return false, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{groupId, userId},
		})
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}

	return conn.Changes() > 0, nil
}

// ListMembers returns the group's members joined with their user records,
// oldest membership first.
func (d *Db) ListMembers(groupId int64) ([]db.MemberInfo, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var members []db.MemberInfo
	err = sqlitex.Execute(conn,
		`SELECT m.user_id, u.name, u.email, m.is_shared
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = ?
		ORDER BY m.id ASC`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				members = append(members, db.MemberInfo{
					UserID:   stmt.GetText("user_id"),
					Name:     stmt.GetText("name"),
					Email:    stmt.GetText("email"),
					IsShared: stmt.GetInt64("is_shared") != 0,
				})
				return nil
			},
			Args: []interface{}{groupId},
		})

	if err != nil {
		return nil, err
	}

	return members, nil
}

func (d *Db) SetMemberSharing(groupId int64, userId string, shared bool) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE group_members SET is_shared = ? WHERE group_id = ? AND user_id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{shared, groupId, userId},
		})
	if err != nil {
		return fmt.Errorf("failed to set member sharing: %w", err)
	}

	if conn.Changes() == 0 {
		return db.ErrMemberNotFound
	}
	return nil
}

// CountMembers returns how many of userIds are members of the group. Used
// to validate story recipient lists in one query.
func (d *Db) CountMembers(groupId int64, userIds []string) (int, error) {
	if len(userIds) == 0 {
		return 0, nil
	}

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer d.pool.Put(conn)

	args := make([]interface{}, 0, len(userIds)+1)
	args = append(args, groupId)
	for _, id := range userIds {
		args = append(args, id)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(userIds)), ", ")

	var count int
	err = sqlitex.Execute(conn,
		`SELECT COUNT(*) AS n FROM group_members
		WHERE group_id = ? AND user_id IN (`+placeholders+`)`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = int(stmt.GetInt64("n"))
				return nil
			},
			Args: args,
		})

	if err != nil {
		return 0, err
	}

	return count, nil
}
