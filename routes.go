package grouplet

import (
	"net/http"

	"github.com/grouplet/grouplet/core"
)

func route(app *core.App) {
	rt := app.Router()

	// auth
	rt.Handle(http.MethodPost, "/api/register", http.HandlerFunc(app.RegisterHandler))
	rt.Handle(http.MethodPost, "/api/verify-otp", http.HandlerFunc(app.VerifyOtpHandler))
	rt.Handle(http.MethodPost, "/api/login", http.HandlerFunc(app.LoginHandler))
	rt.Handle(http.MethodPost, "/api/logout", app.RequireAuth(http.HandlerFunc(app.LogoutHandler)))
	rt.Handle(http.MethodGet, "/api/user", app.RequireAuth(http.HandlerFunc(app.UserHandler)))
	rt.Handle(http.MethodPost, "/api/forget-password", http.HandlerFunc(app.RequestPasswordResetHandler))
	rt.Handle(http.MethodPost, "/api/verify-forget-password", http.HandlerFunc(app.VerifyPasswordResetHandler))
	rt.Handle(http.MethodPost, "/api/reset-password", http.HandlerFunc(app.ConfirmPasswordResetHandler))

	// groups
	rt.Handle(http.MethodGet, "/api/groups", app.RequireAuth(http.HandlerFunc(app.GroupsListHandler)))
	rt.Handle(http.MethodPost, "/api/groups", app.RequireAuth(http.HandlerFunc(app.GroupCreateHandler)))
	rt.Handle(http.MethodGet, "/api/groups/:id", app.RequireAuth(http.HandlerFunc(app.GroupShowHandler)))
	rt.Handle(http.MethodPut, "/api/groups/:id", app.RequireAuth(http.HandlerFunc(app.GroupUpdateHandler)))
	rt.Handle(http.MethodDelete, "/api/groups/:id", app.RequireAuth(http.HandlerFunc(app.GroupDeleteHandler)))
	rt.Handle(http.MethodPost, "/api/groups/:id/toggle-sharing", app.RequireAuth(http.HandlerFunc(app.GroupToggleSharingHandler)))
	rt.Handle(http.MethodPost, "/api/join-group", app.RequireAuth(http.HandlerFunc(app.GroupJoinHandler)))

	// members
	rt.Handle(http.MethodGet, "/api/groups/:id/members", app.RequireAuth(http.HandlerFunc(app.MembersListHandler)))
	rt.Handle(http.MethodPost, "/api/groups/:id/members", app.RequireAuth(http.HandlerFunc(app.MemberAddHandler)))
	rt.Handle(http.MethodDelete, "/api/groups/:id/members/:user", app.RequireAuth(http.HandlerFunc(app.MemberRemoveHandler)))
	rt.Handle(http.MethodPut, "/api/groups/:id/members/:user/toggle-sharing", app.RequireAuth(http.HandlerFunc(app.MemberToggleSharingHandler)))

	// posts and stories
	rt.Handle(http.MethodPost, "/api/posts", app.RequireAuth(http.HandlerFunc(app.PostCreateHandler)))
	rt.Handle(http.MethodGet, "/api/groups/:id/posts", app.RequireAuth(http.HandlerFunc(app.PostsListHandler)))
	rt.Handle(http.MethodPost, "/api/stories", app.RequireAuth(http.HandlerFunc(app.StoryCreateHandler)))
	rt.Handle(http.MethodGet, "/api/groups/:id/stories", app.RequireAuth(http.HandlerFunc(app.StoriesListHandler)))
}
