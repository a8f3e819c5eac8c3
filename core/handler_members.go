package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/grouplet/grouplet/db"
)

// MembersListHandler returns the group's members with their sharing state.
// Endpoint: GET /api/groups/:id/members
// Authenticated: Yes (members only)
func (a *App) MembersListHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if !a.requireMembership(w, group, user.ID) {
		return
	}

	members, err := a.DbSocial().ListMembers(group.ID)
	if err != nil {
		a.Logger().Error("failed to list members", "error", err, "group_id", group.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	writeJsonWithData(w, http.StatusOK, "Members retrieved successfully", newMemberRecords(members))
}

// MemberAddHandler adds a user to the group by email.
// Endpoint: POST /api/groups/:id/members
// Authenticated: Yes (owner only)
// Allowed Mimetype: application/json
func (a *App) MemberAddHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	user, _ := UserFromContext(r.Context())

	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

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

	target, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if target == nil {
		WriteJsonError(w, errorUserNotFound)
		return
	}

	member, err := a.DbSocial().AddMember(db.GroupMember{
		GroupID: group.ID,
		UserID:  target.ID,
	})
	if err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			WriteJsonError(w, errorAlreadyMember)
			return
		}
		a.Logger().Error("failed to add member", "error", err, "group_id", group.ID, "user_id", target.ID)
		WriteJsonError(w, errorInternal)
		return
	}

	writeJsonWithData(w, http.StatusCreated, "Member added successfully", map[string]any{
		"group_id":  member.GroupID,
		"user_id":   member.UserID,
		"is_shared": member.IsShared,
	})
}

// MemberRemoveHandler removes a member from the group.
// Endpoint: DELETE /api/groups/:id/members/:user
// Authenticated: Yes (owner only)
func (a *App) MemberRemoveHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if group.CreatedBy != user.ID {
		WriteJsonError(w, errorNotGroupOwner)
		return
	}

	targetID := a.Router().Param(r, "user")
	removed, err := a.DbSocial().RemoveMember(group.ID, targetID)
	if err != nil {
		a.Logger().Error("failed to remove member", "error", err, "group_id", group.ID, "user_id", targetID)
		WriteJsonError(w, errorInternal)
		return
	}
	if !removed {
		WriteJsonError(w, errorMemberNotFound)
		return
	}

	writeJSONResponse(w, okMemberRemoved)
}

// MemberToggleSharingHandler flips a member's sharing flag.
// Endpoint: PUT /api/groups/:id/members/:user/toggle-sharing
// Authenticated: Yes (owner only)
func (a *App) MemberToggleSharingHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	group, ok := a.groupFromPath(w, r)
	if !ok {
		return
	}
	if group.CreatedBy != user.ID {
		WriteJsonError(w, errorNotGroupOwner)
		return
	}

	targetID := a.Router().Param(r, "user")
	member, err := a.DbSocial().GetMember(group.ID, targetID)
	if err != nil {
		WriteJsonError(w, errorInternal)
		return
	}
	if member == nil {
		WriteJsonError(w, errorMemberNotFound)
		return
	}

	shared := !member.IsShared
	if err := a.DbSocial().SetMemberSharing(group.ID, targetID, shared); err != nil {
		if errors.Is(err, db.ErrMemberNotFound) {
			WriteJsonError(w, errorMemberNotFound)
			return
		}
		a.Logger().Error("failed to toggle member sharing", "error", err, "group_id", group.ID, "user_id", targetID)
		WriteJsonError(w, errorInternal)
		return
	}

	message := "Member sharing disabled"
	if shared {
		message = "Member sharing enabled"
	}
	writeJsonWithData(w, http.StatusOK, message, map[string]any{
		"group_id":  group.ID,
		"user_id":   targetID,
		"is_shared": shared,
	})
}
