// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/dalemusser/commonshub/internal/app/system/webapi"
	"go.uber.org/zap"
)

// Handler serves sign-out.
type Handler struct {
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs the logout Handler.
func NewHandler(audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Audit: audit, Log: logger}
}

// Serve handles POST /api/logout. Signing out an anonymous session is a
// no-op success.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}

	if err := auth.SignOut(w, r); err != nil {
		h.Log.Error("session clear failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if userID != "" {
		h.Audit.Logout(r.Context(), r, userID)
	}

	webapi.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
