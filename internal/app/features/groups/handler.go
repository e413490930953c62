// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/mediator"
	"github.com/dalemusser/commonshub/internal/app/access/visibility"
	"github.com/dalemusser/commonshub/internal/app/features/shared/guard"
	commentstore "github.com/dalemusser/commonshub/internal/app/store/comments"
	groupstore "github.com/dalemusser/commonshub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/commonshub/internal/app/store/memberships"
	topicstore "github.com/dalemusser/commonshub/internal/app/store/topics"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/app/system/gates"
	"github.com/dalemusser/commonshub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/commonshub/internal/app/system/inputval"
	"github.com/dalemusser/commonshub/internal/app/system/paging"
	"github.com/dalemusser/commonshub/internal/app/system/timeouts"
	"github.com/dalemusser/commonshub/internal/app/system/webapi"
	"github.com/dalemusser/commonshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves group CRUD. Membership rosters and content live in
// their own features; this one covers the group record itself.
type Handler struct {
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Topics      *topicstore.Store
	Comments    *commentstore.Store
	Med         *mediator.Mediator
	Audit       *auditlog.Logger
	Log         *zap.Logger
}

// NewHandler constructs the groups Handler.
func NewHandler(db *mongo.Database, med *mediator.Mediator, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:      groupstore.New(db),
		Memberships: membershipstore.New(db),
		Topics:      topicstore.New(db),
		Comments:    commentstore.New(db),
		Med:         med,
		Audit:       audit,
		Log:         logger,
	}
}

type createGroupRequest struct {
	Name        string `json:"name" validate:"required,max=100" label:"Group name"`
	Description string `json:"description" validate:"max=2000" label:"Description"`
	IsPrivate   bool   `json:"is_private"`
}

// ServeCreate handles POST /api/groups. The creator becomes the owner;
// ownership never moves after this point.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user := gates.RequireUser(w, r)
	if !user.OK {
		return
	}

	var req createGroupRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group create")
	defer cancel()

	group, err := h.Groups.Create(ctx, models.Group{
		Name:        req.Name,
		Description: htmlsanitize.Sanitize(req.Description),
		OwnerID:     user.UserID,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		if err == groupstore.ErrDuplicateGroupName {
			webapi.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("group create failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Audit.GroupCreated(ctx, r, user.UserID, group.ID, group.Name)
	webapi.JSON(w, http.StatusCreated, map[string]any{"group": group})
}

// summary is the outsider's view of a group: identity and privacy only.
type summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

func summarize(g models.Group) summary {
	return summary{ID: g.ID.Hex(), Name: g.Name, IsPrivate: g.IsPrivate}
}

// ServeList handles GET /api/groups. The directory itself is public;
// private groups appear as summaries so they are discoverable without
// leaking content.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group list")
	defer cancel()

	rows, err := h.Groups.List(ctx, r.URL.Query().Get("name"), page.LimitPlusOne(), page.Offset)
	if err != nil {
		h.Log.Error("group list failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	hasMore := paging.HasMore(&rows, page.Limit)

	summaries := make([]summary, 0, len(rows))
	for _, g := range rows {
		summaries = append(summaries, summarize(g))
	}
	webapi.JSON(w, http.StatusOK, map[string]any{
		"groups":   summaries,
		"has_more": hasMore,
	})
}

// ServeGet handles GET /api/groups/{groupID}. Members of a private
// group (and anyone on a public one) get the full view with counts;
// everyone else gets the public summary rather than an error.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	user := gates.OptionalUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group get")
	defer cancel()

	res, err := h.Med.Execute(ctx, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionViewGroupContent,
	})
	if err != nil {
		if _, denied := access.DeniedReason(err); denied {
			h.serveSummary(ctx, w, r, groupID)
			return
		}
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}

	// Moderators count as members; the member count covers both.
	memberCount, err := h.Memberships.CountByGroup(ctx, groupID, membershipstore.MemberStatuses)
	if err != nil {
		h.Log.Error("member count failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	moderatorCount, err := h.Memberships.CountByGroup(ctx, groupID, []string{membershipstore.StatusModerator})
	if err != nil {
		h.Log.Error("moderator count failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	topicCount, err := h.Topics.CountByGroup(ctx, groupID)
	if err != nil {
		h.Log.Error("topic count failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	webapi.JSON(w, http.StatusOK, map[string]any{
		"group":           group,
		"scope":           res.Scope,
		"actor_role":      res.ActorRole,
		"member_count":    memberCount,
		"moderator_count": moderatorCount,
		"topic_count":     topicCount,
	})
}

// serveSummary answers a view that the policy refused with the group's
// public identity. The denial is not an error from the client's side;
// it just narrows what comes back.
func (h *Handler) serveSummary(ctx context.Context, w http.ResponseWriter, r *http.Request, groupID primitive.ObjectID) {
	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}
	webapi.JSON(w, http.StatusOK, map[string]any{
		"group": summarize(group),
		"scope": visibility.ScopePublicSummaryOnly,
	})
}

type updateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=100" label:"Group name"`
	Description string `json:"description" validate:"max=2000" label:"Description"`
	IsPrivate   bool   `json:"is_private"`
}

// ServeUpdate handles PUT /api/groups/{groupID}. Owner and moderators
// may change name, description, and privacy; the owner is immutable.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	user := gates.RequireUser(w, r)
	if !user.OK {
		return
	}
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var req updateGroupRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group update")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionUpdateGroupSettings,
	}); !ok {
		return
	}

	if err := h.Groups.UpdateInfo(ctx, groupID, req.Name, htmlsanitize.Sanitize(req.Description), req.IsPrivate); err != nil {
		if err == groupstore.ErrDuplicateGroupName {
			webapi.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("group update failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Audit.GroupUpdated(ctx, r, user.UserID, groupID, "name,description,is_private")

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}
	webapi.JSON(w, http.StatusOK, map[string]any{"group": group})
}

// ServeDelete handles DELETE /api/groups/{groupID}. Owner only. The
// group's memberships, topics, and comments go with it.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user := gates.RequireUser(w, r)
	if !user.OK {
		return
	}
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "group delete")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionDeleteGroup,
	}); !ok {
		return
	}

	group, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}

	// Children first so a failure partway leaves the group findable and
	// the delete retryable.
	if _, err := h.Comments.DeleteByGroup(ctx, groupID); err != nil {
		h.Log.Error("group delete: comments cleanup failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := h.Topics.DeleteByGroup(ctx, groupID); err != nil {
		h.Log.Error("group delete: topics cleanup failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := h.Memberships.DeleteByGroup(ctx, groupID); err != nil {
		h.Log.Error("group delete: memberships cleanup failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := h.Groups.Delete(ctx, groupID); err != nil {
		h.Log.Error("group delete failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Audit.GroupDeleted(ctx, r, user.UserID, groupID, group.Name)
	webapi.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
