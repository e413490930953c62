// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter for account endpoints, mounted under
// /api/users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeRegister)
	r.Get("/", h.ServeList)
	r.Get("/{userID}", h.ServeGet)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Get("/me", h.ServeMe)
		r.Put("/me", h.ServeUpdateMe)
		r.Delete("/me", h.ServeDeleteMe)
		r.Get("/me/groups", h.ServeMyGroups)
	})

	return r
}
