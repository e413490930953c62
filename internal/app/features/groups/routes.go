// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter for group CRUD, mounted under /api/groups.
// Reads are open to anonymous viewers; writes require a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{groupID}", h.ServeGet)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Post("/", h.ServeCreate)
		r.Put("/{groupID}", h.ServeUpdate)
		r.Delete("/{groupID}", h.ServeDelete)
	})
	return r
}
