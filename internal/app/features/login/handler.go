// internal/app/features/login/handler.go
package login

import (
	"net/http"

	userstore "github.com/dalemusser/commonshub/internal/app/store/users"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/dalemusser/commonshub/internal/app/system/inputval"
	"github.com/dalemusser/commonshub/internal/app/system/timeouts"
	"github.com/dalemusser/commonshub/internal/app/system/webapi"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves password sign-in for internal accounts.
type Handler struct {
	Users *userstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs the login Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users: userstore.New(db),
		Audit: audit,
		Log:   logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email address"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// Serve handles POST /api/login.
//
// Credential failures return the same 401 regardless of whether the
// email exists, so the endpoint cannot be used to enumerate accounts.
// The audit trail records which case actually occurred.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		h.Audit.LoginFailedUserNotFound(ctx, r, req.Email)
		webapi.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		h.Log.Error("user lookup failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Google-backed accounts have no password hash.
	if user.AuthMethod != "internal" || user.PasswordHash == "" {
		h.Audit.LoginFailedWrongPassword(ctx, r, user.ID)
		webapi.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.Audit.LoginFailedWrongPassword(ctx, r, user.ID)
		webapi.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
	}); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Audit.LoginSuccess(ctx, r, user.ID, "internal")
	h.Log.Info("user logged in", zap.String("user_id", user.ID.Hex()))

	webapi.JSON(w, http.StatusOK, user)
}
