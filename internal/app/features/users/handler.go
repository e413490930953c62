// internal/app/features/users/handler.go
package users

import (
	"errors"
	"net/http"

	groupstore "github.com/dalemusser/commonshub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/commonshub/internal/app/store/memberships"
	userstore "github.com/dalemusser/commonshub/internal/app/store/users"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/dalemusser/commonshub/internal/app/system/gates"
	"github.com/dalemusser/commonshub/internal/app/system/inputval"
	"github.com/dalemusser/commonshub/internal/app/system/paging"
	"github.com/dalemusser/commonshub/internal/app/system/timeouts"
	"github.com/dalemusser/commonshub/internal/app/system/webapi"
	"github.com/dalemusser/commonshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves account registration and profile endpoints.
type Handler struct {
	Users       *userstore.Store
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Audit       *auditlog.Logger
	Log         *zap.Logger
}

// NewHandler constructs the users Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		Groups:      groupstore.New(db),
		Memberships: membershipstore.New(db),
		Audit:       audit,
		Log:         logger,
	}
}

type registerRequest struct {
	FullName string `json:"full_name" validate:"required,max=100" label:"Full name"`
	Email    string `json:"email" validate:"required,email" label:"Email address"`
	Password string `json:"password" validate:"required,min=8,max=72" label:"Password"`
	Bio      string `json:"bio" validate:"max=2000" label:"Bio"`
}

// ServeRegister handles POST /api/users: create an internal account and
// sign the new user in.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		webapi.ValidationError(w, "A valid email address is required.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("bcrypt hash failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user register")
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		AuthMethod:   "internal",
		PasswordHash: string(hash),
		Bio:          req.Bio,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			webapi.Error(w, http.StatusConflict, "a user with this email already exists")
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
	}); err != nil {
		h.Log.Warn("session save after register failed", zap.Error(err))
	}

	h.Audit.UserRegistered(ctx, r, user.ID, "internal")

	webapi.JSON(w, http.StatusCreated, user)
}

// ServeMe handles GET /api/users/me: the signed-in user's own record.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireUser(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user me")
	defer cancel()

	user, err := h.Users.GetByID(ctx, g.UserID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}
	webapi.JSON(w, http.StatusOK, user)
}

type profileRequest struct {
	FullName               string `json:"full_name" validate:"max=100" label:"Full name"`
	Bio                    string `json:"bio" validate:"max=2000" label:"Bio"`
	PermittedToAddInGroups bool   `json:"permitted_to_add_in_groups"`
}

// ServeUpdateMe handles PUT /api/users/me: profile edits, including the
// opt-in flag that lets other users add this account to groups directly.
func (h *Handler) ServeUpdateMe(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireUser(w, r)
	if !g.OK {
		return
	}

	var req profileRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profile update")
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, g.UserID, userstore.ProfileUpdate{
		FullName:               req.FullName,
		Bio:                    req.Bio,
		PermittedToAddInGroups: req.PermittedToAddInGroups,
	}); err != nil {
		h.Log.Error("profile update failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := h.Users.GetByID(ctx, g.UserID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}
	webapi.JSON(w, http.StatusOK, user)
}

// publicProfile is the view of a user exposed to everyone else.
type publicProfile struct {
	ID       primitive.ObjectID `json:"id"`
	FullName string             `json:"full_name"`
	Bio      string             `json:"bio,omitempty"`
}

// ServeGet handles GET /api/users/{userID}: a public profile.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := webapi.URLObjectID(r, "userID")
	if err != nil {
		webapi.Error(w, http.StatusNotFound, "not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user get")
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}
	webapi.JSON(w, http.StatusOK, publicProfile{
		ID:       user.ID,
		FullName: user.FullName,
		Bio:      user.Bio,
	})
}

// ServeList handles GET /api/users: a paged directory of public
// profiles, optionally filtered by a case-insensitive name prefix.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user list")
	defer cancel()

	rows, err := h.Users.List(ctx, r.URL.Query().Get("name"), page.LimitPlusOne(), page.Offset)
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	hasMore := paging.HasMore(&rows, page.Limit)

	profiles := make([]publicProfile, 0, len(rows))
	for _, u := range rows {
		profiles = append(profiles, publicProfile{
			ID:       u.ID,
			FullName: u.FullName,
			Bio:      u.Bio,
		})
	}
	webapi.JSON(w, http.StatusOK, map[string]any{
		"users":    profiles,
		"has_more": hasMore,
	})
}

// ServeDeleteMe handles DELETE /api/users/me: close the caller's own
// account. Groups the caller owns must be deleted (or never created)
// first; a group cannot be left without its owner.
func (h *Handler) ServeDeleteMe(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireUser(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "user delete")
	defer cancel()

	owned, err := h.Groups.ListByOwner(ctx, g.UserID)
	if err != nil {
		h.Log.Error("list owned groups failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(owned) > 0 {
		webapi.Error(w, http.StatusConflict, "delete the groups you own before closing your account")
		return
	}

	if _, err := h.Memberships.DeleteByUser(ctx, g.UserID); err != nil {
		h.Log.Error("delete memberships failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	deleted, err := h.Users.Delete(ctx, g.UserID)
	if err != nil {
		h.Log.Error("delete user failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if deleted == 0 {
		webapi.Error(w, http.StatusNotFound, "not found")
		return
	}

	h.Audit.UserDeleted(ctx, r, g.UserID)

	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("session teardown after account deletion failed", zap.Error(err))
	}

	h.Log.Info("account deleted", zap.String("user_id", g.UserID.Hex()))
	webapi.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// membershipEntry pairs a group summary with the caller's status in it.
type membershipEntry struct {
	Group  models.Group `json:"group"`
	Status string       `json:"status"`
}

// ServeMyGroups handles GET /api/users/me/groups: every group the caller
// has a membership record in, with the status of each.
func (h *Handler) ServeMyGroups(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireUser(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "my groups")
	defer cancel()

	memberships, err := h.Memberships.ListByUser(ctx, g.UserID, "")
	if err != nil {
		h.Log.Error("list memberships failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.GroupID)
	}
	groups, err := h.Groups.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("load groups failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	byID := make(map[primitive.ObjectID]models.Group, len(groups))
	for _, grp := range groups {
		byID[grp.ID] = grp
	}

	entries := make([]membershipEntry, 0, len(memberships))
	for _, m := range memberships {
		grp, ok := byID[m.GroupID]
		if !ok {
			continue
		}
		entries = append(entries, membershipEntry{Group: grp, Status: m.Status})
	}

	// Owned groups have no membership record; include them as well.
	owned, err := h.Groups.ListByOwner(ctx, g.UserID)
	if err != nil {
		h.Log.Error("list owned groups failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	for _, grp := range owned {
		entries = append(entries, membershipEntry{Group: grp, Status: "owner"})
	}

	webapi.JSON(w, http.StatusOK, map[string]any{"memberships": entries})
}
