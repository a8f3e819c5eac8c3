package zombiezen

import (
	"context"
	"fmt"

	"github.com/grouplet/grouplet/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newPostFromStmt(stmt *sqlite.Stmt) (*db.Post, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	return &db.Post{
		ID:         stmt.GetInt64("id"),
		GroupID:    stmt.GetInt64("group_id"),
		UserID:     stmt.GetText("user_id"),
		AuthorName: stmt.GetText("author_name"),
		Content:    stmt.GetText("content"),
		Created:    created,
	}, nil
}

func (d *Db) CreatePost(p db.Post) (*db.Post, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	var created *db.Post
	err = sqlitex.Execute(conn,
		`INSERT INTO posts (group_id, user_id, content)
		VALUES (?, ?, ?)
		RETURNING id, group_id, user_id, '' AS author_name, content, created`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newPostFromStmt(stmt)
				return err
			},
			Args: []interface{}{p.GroupID, p.UserID, p.Content},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	created.AuthorName = p.AuthorName
	return created, nil
}

// ListGroupPosts returns the group's posts newest first, with author names
// resolved from the users table.
func (d *Db) ListGroupPosts(groupId int64) ([]*db.Post, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var posts []*db.Post
	err = sqlitex.Execute(conn,
		`SELECT p.id, p.group_id, p.user_id, u.name AS author_name, p.content, p.created
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.group_id = ?
		ORDER BY p.id DESC`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				post, err := newPostFromStmt(stmt)
				if err != nil {
					return err
				}
				posts = append(posts, post)
				return nil
			},
			Args: []interface{}{groupId},
		})

	if err != nil {
		return nil, err
	}

	return posts, nil
}
