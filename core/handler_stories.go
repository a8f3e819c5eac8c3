package core

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/grouplet/grouplet/db"
)

// StoryLifetime is how long a story stays visible after creation.
const StoryLifetime = 24 * time.Hour

// StoryCreateHandler creates an ephemeral story in a group.
// Endpoint: POST /api/stories
// Authenticated: Yes (members only)
// Allowed Mimetype: application/json
//
// shared_with selects which members see the story. An empty selection
// shares with the author only.
func (a *App) StoryCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	user, _ := UserFromContext(r.Context())

	var req struct {
		GroupID    int64    `json:"group_id" validate:"required"`
		Content    string   `json:"content" validate:"required,max=500"`
		SharedWith []string `json:"shared_with"`
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

	sharedWith := req.SharedWith
	if len(sharedWith) == 0 {
		sharedWith = []string{user.ID}
	} else {
		count, err := a.DbSocial().CountMembers(group.ID, sharedWith)
		if err != nil {
			WriteJsonError(w, errorInternal)
			return
		}
		if count != len(sharedWith) {
			WriteJsonError(w, errorRecipientsNotMember)
			return
		}
	}

	now := time.Now().UTC()
	story, err := a.DbSocial().CreateStory(db.Story{
		GroupID:    group.ID,
		UserID:     user.ID,
		AuthorName: user.Name,
		Content:    req.Content,
		Type:       "text",
		ExpiresAt:  now.Add(StoryLifetime),
	}, sharedWith)
	if err != nil {
		a.Logger().Error("failed to create story", "error", err, "group_id", group.ID, "user_id", user.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	a.Logger().Info("story created", "story_id", story.ID, "user_id", user.ID)
	writeJsonWithData(w, http.StatusCreated, "Story created successfully", newStoryRecord(story))
}

// StoriesListHandler returns the group's live stories the caller can see:
// their own plus those shared with them.
// Endpoint: GET /api/groups/:id/stories
// Authenticated: Yes (members only)
func (a *App) StoriesListHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if !a.requireMembership(w, group, user.ID) {
		return
	}

	stories, err := a.DbSocial().ListGroupStories(group.ID, user.ID)
	if err != nil {
		a.Logger().Error("failed to list stories", "error", err, "group_id", group.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	records := make([]StoryRecord, 0, len(stories))
	for _, s := range stories {
		records = append(records, newStoryRecord(s))
	}

	writeJsonWithData(w, http.StatusOK, "Stories retrieved successfully", map[string]any{
		"stories": records,
	})
}
