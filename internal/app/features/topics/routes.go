// internal/app/features/topics/routes.go
package topics

import (
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the topics subrouter, mounted under
// /api/groups/{groupID}/topics. Reads allow anonymous viewers on
// public groups; writes require a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{topicID}", h.ServeGet)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Post("/", h.ServeCreate)
		r.Put("/{topicID}", h.ServeUpdate)
		r.Delete("/{topicID}", h.ServeDelete)
		r.Post("/{topicID}/close", h.ServeClose)
		r.Delete("/{topicID}/close", h.ServeReopen)
	})
	return r
}
