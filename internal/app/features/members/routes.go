// internal/app/features/members/routes.go
package members

import (
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// The membership surface is split into one subrouter per section so the
// bootstrap can mount each under /api/groups/{groupID} without
// colliding with the group item routes. Everything requires a session;
// the policy decides the rest.

// RequestRoutes covers the join-request lifecycle, mounted at
// /api/groups/{groupID}/requests.
func RequestRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeRequestRoster)
	r.Post("/", h.ServeRequestJoin)
	r.Delete("/me", h.ServeCancelOwnRequest)
	r.Post("/{userID}/accept", h.ServeAcceptRequest)
	r.Post("/{userID}/deny", h.ServeDenyRequest)
	return r
}

// MemberRoutes covers the member roster, mounted at
// /api/groups/{groupID}/members.
func MemberRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeMemberRoster)
	r.Post("/", h.ServeAddMember)
	r.Delete("/me", h.ServeLeave)
	r.Delete("/{userID}", h.ServeRemoveMember)
	return r
}

// ModeratorRoutes covers promotion and demotion, mounted at
// /api/groups/{groupID}/moderators.
func ModeratorRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeModeratorRoster)
	r.Post("/{userID}", h.ServePromote)
	r.Delete("/{userID}", h.ServeDemote)
	return r
}

// BanRoutes covers the ban roster, mounted at
// /api/groups/{groupID}/bans.
func BanRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeBanRoster)
	r.Post("/{userID}", h.ServeBan)
	r.Delete("/{userID}", h.ServeUnban)
	return r
}
