// internal/app/features/members/handler.go
package members

import (
	"net/http"
	"time"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/mediator"
	"github.com/dalemusser/commonshub/internal/app/access/visibility"
	"github.com/dalemusser/commonshub/internal/app/features/shared/guard"
	membershipstore "github.com/dalemusser/commonshub/internal/app/store/memberships"
	userstore "github.com/dalemusser/commonshub/internal/app/store/users"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/app/system/gates"
	"github.com/dalemusser/commonshub/internal/app/system/inputval"
	"github.com/dalemusser/commonshub/internal/app/system/paging"
	"github.com/dalemusser/commonshub/internal/app/system/timeouts"
	"github.com/dalemusser/commonshub/internal/app/system/webapi"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves a group's membership surface: join requests, the
// member and moderator rosters, and bans. Every mutation goes through
// the mediator; nothing here compares roles.
type Handler struct {
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Med         *mediator.Mediator
	Audit       *auditlog.Logger
	Log         *zap.Logger
}

// NewHandler constructs the members Handler.
func NewHandler(db *mongo.Database, med *mediator.Mediator, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		Memberships: membershipstore.New(db),
		Med:         med,
		Audit:       audit,
		Log:         logger,
	}
}

// statusLabel maps the empty "no membership" status to a printable word
// for JSON responses.
func statusLabel(s access.Status) string {
	if s == access.StatusNone {
		return "none"
	}
	return string(s)
}

// mutate runs one membership mutation end to end: gate, guard, audit,
// respond. targetFromURL selects whether the subject comes from the
// {userID} URL param or is the actor themselves.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, action access.Action, targetFromURL bool) {
	user := gates.RequireUser(w, r)
	if !user.OK {
		return
	}
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	targetID := user.UserID
	if targetFromURL {
		targetID, err = webapi.URLObjectID(r, "userID")
		if err != nil {
			webapi.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, string(action))
	defer cancel()

	res, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID:  user.UserID,
		GroupID:  groupID,
		Action:   action,
		TargetID: targetID,
	})
	if !ok {
		return
	}

	h.Audit.MembershipChanged(ctx, r, action, user.UserID, targetID, groupID, res.Status)
	webapi.JSON(w, http.StatusOK, map[string]any{
		"user_id": targetID.Hex(),
		"status":  statusLabel(res.Status),
	})
}

// ServeRequestJoin handles POST /requests: the signed-in user asks to
// join. Public groups admit immediately; private groups park the user
// in the requested state.
func (h *Handler) ServeRequestJoin(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionRequestJoin, false)
}

// ServeCancelOwnRequest handles DELETE /requests/me: withdraw a pending
// join request.
func (h *Handler) ServeCancelOwnRequest(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionCancelJoinRequest, false)
}

// ServeAcceptRequest handles POST /requests/{userID}/accept.
func (h *Handler) ServeAcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionAcceptJoinRequest, true)
}

// ServeDenyRequest handles POST /requests/{userID}/deny.
func (h *Handler) ServeDenyRequest(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionDenyJoinRequest, true)
}

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required,objectid" label:"User ID"`
}

// ServeAddMember handles POST /members: owner or moderator adds a user
// directly, subject to that user's opt-in flag.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
	user := gates.RequireUser(w, r)
	if !user.OK {
		return
	}
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var req addMemberRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}
	targetID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		webapi.ValidationError(w, "A valid user ID is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add member")
	defer cancel()

	res, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID:  user.UserID,
		GroupID:  groupID,
		Action:   access.ActionAddMember,
		TargetID: targetID,
	})
	if !ok {
		return
	}

	h.Audit.MembershipChanged(ctx, r, access.ActionAddMember, user.UserID, targetID, groupID, res.Status)
	webapi.JSON(w, http.StatusOK, map[string]any{
		"user_id": targetID.Hex(),
		"status":  statusLabel(res.Status),
	})
}

// ServeLeave handles DELETE /members/me: the signed-in user leaves.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionLeaveGroup, false)
}

// ServeRemoveMember handles DELETE /members/{userID}.
func (h *Handler) ServeRemoveMember(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionRemoveMember, true)
}

// ServePromote handles POST /moderators/{userID}.
func (h *Handler) ServePromote(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionPromoteModerator, true)
}

// ServeDemote handles DELETE /moderators/{userID}.
func (h *Handler) ServeDemote(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionDemoteModerator, true)
}

// ServeBan handles POST /bans/{userID}.
func (h *Handler) ServeBan(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionBanMember, true)
}

// ServeUnban handles DELETE /bans/{userID}.
func (h *Handler) ServeUnban(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, access.ActionUnbanMember, true)
}

// rosterEntry is one row of a membership roster with the user's public
// identity joined in.
type rosterEntry struct {
	UserID   string    `json:"user_id"`
	FullName string    `json:"full_name"`
	Status   string    `json:"status"`
	Since    time.Time `json:"since"`
}

// roster lists memberships in one status set after the given guard
// action allows. The action decides who may look: member/moderator
// rosters need only full visibility, the ban and request rosters need
// privileged standing.
func (h *Handler) roster(w http.ResponseWriter, r *http.Request, action access.Action, statuses []string) {
	user := gates.RequireUser(w, r)
	if !user.OK {
		return
	}
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "membership roster")
	defer cancel()

	res, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  action,
	})
	if !ok {
		return
	}
	if action == access.ActionViewGroupContent && res.Scope != visibility.ScopeFull {
		webapi.WriteAccessError(w, r, access.Denied(action, access.ReasonNotAMember), h.Log)
		return
	}

	rows, err := h.Memberships.ListByGroup(ctx, groupID, statuses, page.LimitPlusOne(), page.Offset)
	if err != nil {
		h.Log.Error("roster list failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	hasMore := paging.HasMore(&rows, page.Limit)

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.UserID)
	}
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("roster user join failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}

	entries := make([]rosterEntry, 0, len(rows))
	for _, m := range rows {
		entries = append(entries, rosterEntry{
			UserID:   m.UserID.Hex(),
			FullName: names[m.UserID],
			Status:   m.Status,
			Since:    m.CreatedAt,
		})
	}
	webapi.JSON(w, http.StatusOK, map[string]any{
		"members":  entries,
		"has_more": hasMore,
	})
}

// ServeMemberRoster handles GET /members. Moderators stay on the
// member roster; promotion raises standing without leaving it.
func (h *Handler) ServeMemberRoster(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, access.ActionViewGroupContent, membershipstore.MemberStatuses)
}

// ServeModeratorRoster handles GET /moderators.
func (h *Handler) ServeModeratorRoster(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, access.ActionViewGroupContent, []string{membershipstore.StatusModerator})
}

// ServeBanRoster handles GET /bans.
func (h *Handler) ServeBanRoster(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, access.ActionViewBanRoster, []string{membershipstore.StatusBanned})
}

// ServeRequestRoster handles GET /requests.
func (h *Handler) ServeRequestRoster(w http.ResponseWriter, r *http.Request) {
	h.roster(w, r, access.ActionViewJoinRequests, []string{membershipstore.StatusRequested})
}
