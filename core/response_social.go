package core

import (
	"github.com/grouplet/grouplet/db"
)

// GroupRecord is the client projection of a group.
type GroupRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
	IsShared    bool   `json:"is_shared"`
	ShareCode   string `json:"share_code"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

type MemberRecord struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	IsShared  bool   `json:"is_shared"`
}

type PostRecord struct {
	ID         int64  `json:"id"`
	GroupID    int64  `json:"group_id"`
	UserID     string `json:"user_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	Created    string `json:"created"`
}

type StoryRecord struct {
	ID         int64  `json:"id"`
	GroupID    int64  `json:"group_id"`
	UserID     string `json:"user_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	ExpiresAt  string `json:"expires_at"`
	Created    string `json:"created"`
}

func newGroupRecord(g *db.Group) GroupRecord {
	return GroupRecord{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		IsShared:    g.IsShared,
		ShareCode:   g.ShareCode,
		Created:     db.TimeFormatString(g.Created),
		Updated:     db.TimeFormatString(g.Updated),
	}
}

func newGroupRecords(groups []*db.Group) []GroupRecord {
	records := make([]GroupRecord, 0, len(groups))
	for _, g := range groups {
		records = append(records, newGroupRecord(g))
	}
	return records
}

func newMemberRecords(members []db.MemberInfo) []MemberRecord {
	records := make([]MemberRecord, 0, len(members))
	for _, m := range members {
		records = append(records, MemberRecord{
			UserID:    m.UserID,
			UserName:  m.Name,
			UserEmail: m.Email,
			IsShared:  m.IsShared,
		})
	}
	return records
}

func newPostRecord(p *db.Post) PostRecord {
	return PostRecord{
		ID:         p.ID,
		GroupID:    p.GroupID,
		UserID:     p.UserID,
		AuthorName: p.AuthorName,
		Content:    p.Content,
		Created:    db.TimeFormatString(p.Created),
	}
}

func newStoryRecord(s *db.Story) StoryRecord {
	return StoryRecord{
		ID:         s.ID,
		GroupID:    s.GroupID,
		UserID:     s.UserID,
		AuthorName: s.AuthorName,
		Content:    s.Content,
		Type:       s.Type,
		ExpiresAt:  db.TimeFormatString(s.ExpiresAt),
		Created:    db.TimeFormatString(s.Created),
	}
}
