// internal/app/features/topics/handler.go
package topics

import (
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/mediator"
	"github.com/dalemusser/commonshub/internal/app/access/visibility"
	"github.com/dalemusser/commonshub/internal/app/features/shared/guard"
	commentstore "github.com/dalemusser/commonshub/internal/app/store/comments"
	topicstore "github.com/dalemusser/commonshub/internal/app/store/topics"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/app/system/gates"
	"github.com/dalemusser/commonshub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/commonshub/internal/app/system/inputval"
	"github.com/dalemusser/commonshub/internal/app/system/paging"
	"github.com/dalemusser/commonshub/internal/app/system/timeouts"
	"github.com/dalemusser/commonshub/internal/app/system/webapi"
	"github.com/dalemusser/commonshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves a group's discussion topics.
type Handler struct {
	Topics   *topicstore.Store
	Comments *commentstore.Store
	Med      *mediator.Mediator
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs the topics Handler.
func NewHandler(db *mongo.Database, med *mediator.Mediator, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Topics:   topicstore.New(db),
		Comments: commentstore.New(db),
		Med:      med,
		Audit:    audit,
		Log:      logger,
	}
}

// ServeList handles GET /. Anonymous viewers may list topics on public
// groups; private groups require membership.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user := gates.OptionalUser(r)
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "topic list")
	defer cancel()

	res, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionViewGroupContent,
	})
	if !ok {
		return
	}
	if res.Scope != visibility.ScopeFull {
		webapi.WriteAccessError(w, r, access.Denied(access.ActionViewGroupContent, access.ReasonNotAMember), h.Log)
		return
	}

	rows, err := h.Topics.ListByGroup(ctx, groupID, page.LimitPlusOne(), page.Offset)
	if err != nil {
		h.Log.Error("topic list failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	hasMore := paging.HasMore(&rows, page.Limit)

	webapi.JSON(w, http.StatusOK, map[string]any{
		"topics":   rows,
		"has_more": hasMore,
	})
}

type topicRequest struct {
	Title string `json:"title" validate:"required,max=200" label:"Title"`
	Body  string `json:"body" validate:"max=50000" label:"Body"`
}

// ServeCreate handles POST /. Members only; the body is sanitized
// before storage.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user := gates.RequireUser(w, r)
	if !user.OK {
		return
	}
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var req topicRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "topic create")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionCreateTopic,
	}); !ok {
		return
	}

	topic, err := h.Topics.Create(ctx, models.Topic{
		GroupID:  groupID,
		AuthorID: user.UserID,
		Title:    req.Title,
		Body:     htmlsanitize.Sanitize(req.Body),
	})
	if err != nil {
		h.Log.Error("topic create failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	webapi.JSON(w, http.StatusCreated, map[string]any{"topic": topic})
}

// ServeGet handles GET /{topicID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	user := gates.OptionalUser(r)
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	topicID, err := webapi.URLObjectID(r, "topicID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "topic get")
	defer cancel()

	res, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionViewGroupContent,
		TopicID: topicID,
	})
	if !ok {
		return
	}
	if res.Scope != visibility.ScopeFull {
		webapi.WriteAccessError(w, r, access.Denied(access.ActionViewGroupContent, access.ReasonNotAMember), h.Log)
		return
	}

	topic, err := h.Topics.GetByID(ctx, topicID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}
	commentCount, err := h.Comments.CountByTopic(ctx, topicID)
	if err != nil {
		h.Log.Error("comment count failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	webapi.JSON(w, http.StatusOK, map[string]any{
		"topic":         topic,
		"comment_count": commentCount,
		"can_comment":   visibility.CanComment(res.Scope, res.ActorRole, topic.IsClosed),
	})
}

// ServeUpdate handles PUT /{topicID}. Author only, and only while the
// topic is open.
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
	topicID, err := webapi.URLObjectID(r, "topicID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	var req topicRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "topic update")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionEditTopic,
		TopicID: topicID,
	}); !ok {
		return
	}

	if err := h.Topics.UpdateBody(ctx, topicID, req.Title, htmlsanitize.Sanitize(req.Body)); err != nil {
		h.Log.Error("topic update failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	topic, err := h.Topics.GetByID(ctx, topicID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}
	webapi.JSON(w, http.StatusOK, map[string]any{"topic": topic})
}

// ServeDelete handles DELETE /{topicID}. Author, moderator, or owner.
// The topic's comments go with it.
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
	topicID, err := webapi.URLObjectID(r, "topicID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "topic delete")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionDeleteTopic,
		TopicID: topicID,
	}); !ok {
		return
	}

	if _, err := h.Comments.DeleteByTopic(ctx, topicID); err != nil {
		h.Log.Error("topic delete: comments cleanup failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := h.Topics.Delete(ctx, topicID); err != nil {
		h.Log.Error("topic delete failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Audit.TopicDeleted(ctx, r, user.UserID, groupID, topicID)
	webapi.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// setClosed flips the closed flag through the moderation action.
func (h *Handler) setClosed(w http.ResponseWriter, r *http.Request, closed bool) {
	user := gates.RequireUser(w, r)
	if !user.OK {
		return
	}
	groupID, err := webapi.URLObjectID(r, "groupID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}
	topicID, err := webapi.URLObjectID(r, "topicID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "topic close")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionCloseTopic,
		TopicID: topicID,
	}); !ok {
		return
	}

	if err := h.Topics.SetClosed(ctx, topicID, closed); err != nil {
		h.Log.Error("topic close failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Audit.TopicClosed(ctx, r, user.UserID, groupID, topicID, closed)
	webapi.JSON(w, http.StatusOK, map[string]any{"is_closed": closed})
}

// ServeClose handles POST /{topicID}/close.
func (h *Handler) ServeClose(w http.ResponseWriter, r *http.Request) {
	h.setClosed(w, r, true)
}

// ServeReopen handles DELETE /{topicID}/close.
func (h *Handler) ServeReopen(w http.ResponseWriter, r *http.Request) {
	h.setClosed(w, r, false)
}
