package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/grouplet/grouplet/crypto"
	"github.com/grouplet/grouplet/db"
)

// ShareCodeLength is the length of a group's public joining token.
const ShareCodeLength = 10

func shareCodeCacheKey(code string) string {
	return "sharecode:" + code
}

// groupFromPath resolves the :id path parameter to a group. The second
// return value is false when a response was already written.
func (a *App) groupFromPath(w http.ResponseWriter, r *http.Request) (*db.Group, bool) {
	id, err := strconv.ParseInt(a.Router().Param(r, "id"), 10, 64)
	if err != nil {
		WriteJsonError(w, errorGroupNotFound)
		return nil, false
	}

	group, err := a.DbSocial().GetGroupById(id)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return nil, false
	}
	if group == nil {
		WriteJsonError(w, errorGroupNotFound)
		return nil, false
	}
	return group, true
}

// requireMembership gates group-scoped reads: the caller must be the
// creator or a member.
func (a *App) requireMembership(w http.ResponseWriter, group *db.Group, userID string) bool {
	if group.CreatedBy == userID {
		return true
	}

	member, err := a.DbSocial().IsMember(group.ID, userID)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return false
	}
	if !member {
		WriteJsonError(w, errorNotGroupMember)
		return false
	}
	return true
}

// GroupsListHandler returns the caller's groups.
// Endpoint: GET /api/groups
// Authenticated: Yes
func (a *App) GroupsListHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	groups, err := a.DbSocial().ListGroupsForUser(user.ID)
	if err != nil {
		a.Logger().Error("failed to list groups", "error", err, "user_id", user.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	writeJsonWithData(w, http.StatusOK, "Groups retrieved successfully", newGroupRecords(groups))
}

// GroupCreateHandler creates a group with the caller as owner and first
// member.
// Endpoint: POST /api/groups
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) GroupCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	user, _ := UserFromContext(r.Context())

	var req struct {
		Name        string `json:"name" validate:"required,max=255"`
		Description string `json:"description" validate:"omitempty,max=500"`
		IsShared    bool   `json:"is_shared"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if errs := a.Validator().Struct(&req); len(errs) > 0 {
		writeJsonValidationErrors(w, errs)
		return
	}

	code, err := crypto.RandomString(ShareCodeLength, crypto.AlphanumericAlphabet)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}

	group, err := a.DbSocial().CreateGroup(db.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   user.ID,
		IsShared:    req.IsShared,
		ShareCode:   code,
	})
	if err != nil {
		a.Logger().Error("failed to create group", "error", err, "user_id", user.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	a.Logger().Info("group created", "group_id", group.ID, "user_id", user.ID)
	writeJsonWithData(w, http.StatusCreated, "Group created successfully", newGroupRecord(group))
}

// GroupShowHandler returns one group.
// Endpoint: GET /api/groups/:id
// Authenticated: Yes
func (a *App) GroupShowHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if !a.requireMembership(w, group, user.ID) {
		return
	}

	writeJsonWithData(w, http.StatusOK, "Group retrieved successfully", newGroupRecord(group))
}

// GroupUpdateHandler updates a group's name and description.
// Endpoint: PUT /api/groups/:id
// Authenticated: Yes (owner only)
// Allowed Mimetype: application/json
func (a *App) GroupUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	user, _ := UserFromContext(r.Context())

	var req struct {
		Name        string `json:"name" validate:"required,max=255"`
		Description string `json:"description" validate:"omitempty,max=500"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if errs := a.Validator().Struct(&req); len(errs) > 0 {
		writeJsonValidationErrors(w, errs)
		return
	}

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if group.CreatedBy != user.ID {
		WriteJsonError(w, errorNotGroupOwner)
		return
	}

	if err := a.DbSocial().UpdateGroup(group.ID, req.Name, req.Description); err != nil {
		a.Logger().Error("failed to update group", "error", err, "group_id", group.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	writeJSONResponse(w, okGroupUpdated)
}

// GroupDeleteHandler deletes a group and, via cascade, its memberships,
// posts and stories.
// Endpoint: DELETE /api/groups/:id
// Authenticated: Yes (owner only)
func (a *App) GroupDeleteHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if group.CreatedBy != user.ID {
		WriteJsonError(w, errorNotGroupOwner)
		return
	}

	if err := a.DbSocial().DeleteGroup(group.ID); err != nil {
		a.Logger().Error("failed to delete group", "error", err, "group_id", group.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	// The share code must stop resolving immediately.
	a.Cache().Del(shareCodeCacheKey(group.ShareCode))

	writeJSONResponse(w, okGroupDeleted)
}

// GroupToggleSharingHandler flips whether the group accepts joins by share
// code.
// Endpoint: POST /api/groups/:id/toggle-sharing
// Authenticated: Yes (owner only)
func (a *App) GroupToggleSharingHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if group.CreatedBy != user.ID {
		WriteJsonError(w, errorNotGroupOwner)
		return
	}

	shared := !group.IsShared
	if err := a.DbSocial().SetGroupSharing(group.ID, shared); err != nil {
		a.Logger().Error("failed to toggle group sharing", "error", err, "group_id", group.ID)
		WriteJsonError(w, errorInternal)
		return
	}
	group.IsShared = shared

	message := "Group sharing disabled"
	if shared {
		message = "Group sharing enabled"
	}
	writeJsonWithData(w, http.StatusOK, message, newGroupRecord(group))
}

// GroupJoinHandler adds the caller to a group by share code.
// Endpoint: POST /api/join-group
// Authenticated: Yes
// Allowed Mimetype: application/json
//
// The code-to-group mapping is cached; the sharing flag is always re-read
// from the database so a toggle takes effect immediately.
func (a *App) GroupJoinHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	user, _ := UserFromContext(r.Context())

	var req struct {
		ShareCode string `json:"share_code" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	req.ShareCode = strings.TrimSpace(req.ShareCode)

	if errs := a.Validator().Struct(&req); len(errs) > 0 {
		writeJsonValidationErrors(w, errs)
		return
	}

	group, err := a.groupByShareCode(req.ShareCode)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if group == nil {
		WriteJsonError(w, errorInvalidShareCode)
		return
	}
	if !group.IsShared {
		WriteJsonError(w, errorGroupSharingOff)
		return
	}

	member, err := a.DbSocial().AddMember(db.GroupMember{
		GroupID:       group.ID,
		UserID:        user.ID,
		JoinedViaCode: true,
	})
	if err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			WriteJsonError(w, errorAlreadyMember)
			return
		}
		a.Logger().Error("failed to join group", "error", err, "group_id", group.ID, "user_id", user.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	writeJsonWithData(w, http.StatusCreated, "Joined group successfully", map[string]any{
		"group_id":        member.GroupID,
		"user_id":         member.UserID,
		"joined_via_code": member.JoinedViaCode,
	})
}

// groupByShareCode resolves a share code to a fresh group record, going
// through the cache for the code-to-id step.
func (a *App) groupByShareCode(code string) (*db.Group, error) {
	if v, found := a.Cache().Get(shareCodeCacheKey(code)); found {
		if id, ok := v.(int64); ok {
			return a.DbSocial().GetGroupById(id)
		}
	}

	group, err := a.DbSocial().GetGroupByShareCode(code)
	if err != nil || group == nil {
		return nil, err
	}

	a.Cache().Set(shareCodeCacheKey(code), group.ID, 1)
	return group, nil
}
