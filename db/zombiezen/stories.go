package zombiezen

import (
	"context"
	"fmt"

	"github.com/grouplet/grouplet/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newStoryFromStmt(stmt *sqlite.Stmt) (*db.Story, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	expiresAt, err := db.TimeParse(stmt.GetText("expires_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing expires_at time: %w", err)
	}

	return &db.Story{
		ID:         stmt.GetInt64("id"),
		GroupID:    stmt.GetInt64("group_id"),
		UserID:     stmt.GetText("user_id"),
		AuthorName: stmt.GetText("author_name"),
		Content:    stmt.GetText("content"),
		Type:       stmt.GetText("type"),
		ExpiresAt:  expiresAt,
		Created:    created,
	}, nil
}

// CreateStory inserts the story and its share rows inside a savepoint.
// sharedWith lists the member user ids the story is visible to; the author
// always sees their own stories regardless of the share rows.
func (d *Db) CreateStory(s db.Story, sharedWith []string) (*db.Story, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	var created *db.Story
	err = sqlitex.Execute(conn,
		`INSERT INTO stories (group_id, user_id, content, type, expires_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, group_id, user_id, '' AS author_name, content, type, expires_at, created`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				created, err = newStoryFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				s.GroupID,
				s.UserID,
				s.Content,
				s.Type,
				db.TimeFormatString(s.ExpiresAt),
			},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	for _, userId := range sharedWith {
		err = sqlitex.Execute(conn,
			`INSERT OR IGNORE INTO story_shares (story_id, user_id, group_id)
			VALUES (?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []interface{}{created.ID, userId, s.GroupID},
			})
		if err != nil {
			return nil, fmt.Errorf("failed to share story: %w", err)
		}
	}

	created.AuthorName = s.AuthorName
	return created, nil
}

// ListGroupStories returns non-expired stories the viewer can see: their
// own plus the ones shared with them, newest first.
func (d *Db) ListGroupStories(groupId int64, viewerId string) ([]*db.Story, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var stories []*db.Story
	err = sqlitex.Execute(conn,
		`SELECT s.id, s.group_id, s.user_id, u.name AS author_name, s.content, s.type, s.expires_at, s.created
		FROM stories s
		JOIN users u ON u.id = s.user_id
		WHERE s.group_id = ?
			AND s.expires_at > strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
			AND (s.user_id = ? OR EXISTS (
				SELECT 1 FROM story_shares ss
				WHERE ss.story_id = s.id AND ss.user_id = ?
			))
		ORDER BY s.id DESC`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				story, err := newStoryFromStmt(stmt)
				if err != nil {
					return err
				}
				stories = append(stories, story)
				return nil
			},
			Args: []interface{}{groupId, viewerId, viewerId},
		})

	if err != nil {
		return nil, err
	}

	return stories, nil
}
