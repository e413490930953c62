// internal/app/features/comments/routes.go
package comments

import (
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the comments subrouter, mounted under
// /api/groups/{groupID}/topics/{topicID}/comments.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Post("/", h.ServeCreate)
		r.Put("/{commentID}", h.ServeUpdate)
		r.Delete("/{commentID}", h.ServeDelete)
	})
	return r
}
