package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/grouplet/grouplet/db"
)

// PostCreateHandler creates a post in a group.
// Endpoint: POST /api/posts
// Authenticated: Yes (members only)
// Allowed Mimetype: application/json
func (a *App) PostCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	user, _ := UserFromContext(r.Context())

	var req struct {
		GroupID int64  `json:"group_id" validate:"required"`
		Content string `json:"content" validate:"required,max=500"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	req.Content = strings.TrimSpace(req.Content)

	if errs := a.Validator().Struct(&req); len(errs) > 0 {
		writeJsonValidationErrors(w, errs)
		return
	}

	group, err := a.DbSocial().GetGroupById(req.GroupID)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if group == nil {
		WriteJsonError(w, errorGroupNotFound)
		return
	}
	if !a.requireMembership(w, group, user.ID) {
		return
	}

	post, err := a.DbSocial().CreatePost(db.Post{
		GroupID:    group.ID,
		UserID:     user.ID,
		AuthorName: user.Name,
		Content:    req.Content,
	})
	if err != nil {
		a.Logger().Error("failed to create post", "error", err, "group_id", group.ID, "user_id", user.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	writeJsonWithData(w, http.StatusCreated, "Post created successfully", map[string]any{
		"post": newPostRecord(post),
	})
}

// PostsListHandler returns the group's posts, newest first.
// Endpoint: GET /api/groups/:id/posts
// Authenticated: Yes (members only)
func (a *App) PostsListHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if !a.requireMembership(w, group, user.ID) {
		return
	}

	posts, err := a.DbSocial().ListGroupPosts(group.ID)
	if err != nil {
		a.Logger().Error("failed to list posts", "error", err, "group_id", group.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	records := make([]PostRecord, 0, len(posts))
	for _, p := range posts {
		records = append(records, newPostRecord(p))
	}

	writeJsonWithData(w, http.StatusOK, "Posts retrieved successfully", map[string]any{
		"posts": records,
	})
}
