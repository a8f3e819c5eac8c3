package zombiezen

import (
	"errors"
	"testing"
	"time"

	"github.com/grouplet/grouplet/db"
)

func createTestGroup(t *testing.T, testDB *Db, creator, name, code string) *db.Group {
	t.Helper()

	group, err := testDB.CreateGroup(db.Group{
		Name:        name,
		Description: "test group",
		CreatedBy:   creator,
		ShareCode:   code,
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestCreateGroupAddsCreatorMembership(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{ID: "u1", Email: "alice@example.com", Password: "h"})
	group := createTestGroup(t, testDB, "u1", "Family", "CODE1")

	isMember, err := testDB.IsMember(group.ID, "u1")
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !isMember {
		t.Error("expected creator to be a member of the new group")
	}

	member, err := testDB.GetMember(group.ID, "u1")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if member == nil || !member.IsShared {
		t.Error("expected creator membership with sharing enabled")
	}
}

func TestGetGroupByShareCode(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{ID: "u1", Email: "alice@example.com", Password: "h"})
	group := createTestGroup(t, testDB, "u1", "Family", "CODE1")

	found, err := testDB.GetGroupByShareCode("CODE1")
	if err != nil {
		t.Fatalf("GetGroupByShareCode failed: %v", err)
	}
	if found == nil || found.ID != group.ID {
		t.Fatal("expected to resolve group by share code")
	}

	missing, err := testDB.GetGroupByShareCode("NOPE")
	if err != nil {
		t.Fatalf("GetGroupByShareCode failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown share code")
	}
}

func TestListGroupsForUser(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{ID: "u1", Email: "alice@example.com", Password: "h"})
	insertTestUser(t, testDB, db.User{ID: "u2", Email: "bob@example.com", Password: "h"})

	g1 := createTestGroup(t, testDB, "u1", "Family", "CODE1")
	createTestGroup(t, testDB, "u2", "Friends", "CODE2")

	groups, err := testDB.ListGroupsForUser("u1")
	if err != nil {
		t.Fatalf("ListGroupsForUser failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != g1.ID {
		t.Fatalf("expected only the created group, got %d groups", len(groups))
	}

	// joining the other group makes it appear
	_, err = testDB.AddMember(db.GroupMember{GroupID: 2, UserID: "u1", JoinedViaCode: true})
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	groups, err = testDB.ListGroupsForUser("u1")
	if err != nil {
		t.Fatalf("ListGroupsForUser failed: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("expected 2 groups after joining, got %d", len(groups))
	}
}

func TestUpdateAndDeleteGroup(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{ID: "u1", Email: "alice@example.com", Password: "h"})
	group := createTestGroup(t, testDB, "u1", "Family", "CODE1")

	if err := testDB.UpdateGroup(group.ID, "Renamed", "new desc"); err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	updated, err := testDB.GetGroupById(group.ID)
	if err != nil {
		t.Fatalf("GetGroupById failed: %v", err)
	}
	if updated.Name != "Renamed" || updated.Description != "new desc" {
		t.Errorf("expected updated fields, got %q %q", updated.Name, updated.Description)
	}

	if err := testDB.UpdateGroup(9999, "x", "y"); !errors.Is(err, db.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}

	if err := testDB.DeleteGroup(group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	gone, err := testDB.GetGroupById(group.ID)
	if err != nil {
		t.Fatalf("GetGroupById failed: %v", err)
	}
	if gone != nil {
		t.Error("expected group to be deleted")
	}
}

func TestSetGroupSharing(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{ID: "u1", Email: "alice@example.com", Password: "h"})
	group := createTestGroup(t, testDB, "u1", "Family", "CODE1")

	if err := testDB.SetGroupSharing(group.ID, true); err != nil {
		t.Fatalf("SetGroupSharing failed: %v", err)
	}
	updated, err := testDB.GetGroupById(group.ID)
	if err != nil {
		t.Fatalf("GetGroupById failed: %v", err)
	}
	if !updated.IsShared {
		t.Error("expected sharing to be enabled")
	}
}

func TestMembers(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Password: "h"})
	insertTestUser(t, testDB, db.User{ID: "u2", Name: "Bob", Email: "bob@example.com", Password: "h"})
	group := createTestGroup(t, testDB, "u1", "Family", "CODE1")

	_, err := testDB.AddMember(db.GroupMember{GroupID: group.ID, UserID: "u2"})
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// duplicate membership
	_, err = testDB.AddMember(db.GroupMember{GroupID: group.ID, UserID: "u2"})
	if !errors.Is(err, db.ErrConstraintUnique) {
		t.Errorf("expected ErrConstraintUnique, got %v", err)
	}

	members, err := testDB.ListMembers(group.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Name != "Alice" || members[1].Name != "Bob" {
		t.Errorf("expected members ordered by join time, got %v", members)
	}

	count, err := testDB.CountMembers(group.ID, []string{"u1", "u2", "u3"})
	if err != nil {
		t.Fatalf("CountMembers failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 matching members, got %d", count)
	}

	if err := testDB.SetMemberSharing(group.ID, "u2", true); err != nil {
		t.Fatalf("SetMemberSharing failed: %v", err)
	}
	member, err := testDB.GetMember(group.ID, "u2")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if !member.IsShared {
		t.Error("expected member sharing to be enabled")
	}

	removed, err := testDB.RemoveMember(group.ID, "u2")
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if !removed {
		t.Error("expected member to be removed")
	}
	removed, err = testDB.RemoveMember(group.ID, "u2")
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if removed {
		t.Error("expected second removal to report no row")
	}
}

func TestPostsAndStories(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Password: "h"})
	insertTestUser(t, testDB, db.User{ID: "u2", Name: "Bob", Email: "bob@example.com", Password: "h"})
	group := createTestGroup(t, testDB, "u1", "Family", "CODE1")
	if _, err := testDB.AddMember(db.GroupMember{GroupID: group.ID, UserID: "u2"}); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	post, err := testDB.CreatePost(db.Post{GroupID: group.ID, UserID: "u1", Content: "hello"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.ID == 0 {
		t.Error("expected post id to be assigned")
	}

	posts, err := testDB.ListGroupPosts(group.ID)
	if err != nil {
		t.Fatalf("ListGroupPosts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].AuthorName != "Alice" {
		t.Fatalf("expected one post by Alice, got %v", posts)
	}

	story, err := testDB.CreateStory(db.Story{
		GroupID:   group.ID,
		UserID:    "u1",
		Content:   "my story",
		Type:      "text",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}, []string{"u2"})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}
	if story.ID == 0 {
		t.Error("expected story id to be assigned")
	}

	// shared recipient sees it
	stories, err := testDB.ListGroupStories(group.ID, "u2")
	if err != nil {
		t.Fatalf("ListGroupStories failed: %v", err)
	}
	if len(stories) != 1 || stories[0].AuthorName != "Alice" {
		t.Fatalf("expected one visible story for u2, got %d", len(stories))
	}

	// author sees their own story without a share row
	stories, err = testDB.ListGroupStories(group.ID, "u1")
	if err != nil {
		t.Fatalf("ListGroupStories failed: %v", err)
	}
	if len(stories) != 1 {
		t.Errorf("expected author to see own story, got %d", len(stories))
	}

	// expired stories are invisible
	_, err = testDB.CreateStory(db.Story{
		GroupID:   group.ID,
		UserID:    "u1",
		Content:   "old story",
		Type:      "text",
		ExpiresAt: time.Now().Add(-time.Hour),
	}, []string{"u2"})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}
	stories, err = testDB.ListGroupStories(group.ID, "u2")
	if err != nil {
		t.Fatalf("ListGroupStories failed: %v", err)
	}
	if len(stories) != 1 {
		t.Errorf("expected expired story to be hidden, got %d stories", len(stories))
	}
}
