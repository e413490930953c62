// internal/app/features/comments/handler.go
package comments

import (
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/mediator"
	"github.com/dalemusser/commonshub/internal/app/access/visibility"
	"github.com/dalemusser/commonshub/internal/app/features/shared/guard"
	commentstore "github.com/dalemusser/commonshub/internal/app/store/comments"
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

// Handler serves comments on a topic.
type Handler struct {
	Comments *commentstore.Store
	Med      *mediator.Mediator
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs the comments Handler.
func NewHandler(db *mongo.Database, med *mediator.Mediator, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Comments: commentstore.New(db),
		Med:      med,
		Audit:    audit,
		Log:      logger,
	}
}

// ServeList handles GET /.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
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
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "comment list")
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

	rows, err := h.Comments.ListByTopic(ctx, topicID, page.LimitPlusOne(), page.Offset)
	if err != nil {
		h.Log.Error("comment list failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	hasMore := paging.HasMore(&rows, page.Limit)

	webapi.JSON(w, http.StatusOK, map[string]any{
		"comments":    rows,
		"has_more":    hasMore,
		"can_comment": visibility.CanComment(res.Scope, res.ActorRole, res.Topic.IsClosed),
	})
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=10000" label:"Comment"`
}

// ServeCreate handles POST /. Members only, and only on open topics.
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
	topicID, err := webapi.URLObjectID(r, "topicID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	var req commentRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "comment create")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID: user.UserID,
		GroupID: groupID,
		Action:  access.ActionCreateComment,
		TopicID: topicID,
	}); !ok {
		return
	}

	comment, err := h.Comments.Create(ctx, models.Comment{
		TopicID:  topicID,
		GroupID:  groupID,
		AuthorID: user.UserID,
		Body:     htmlsanitize.Sanitize(req.Body),
	})
	if err != nil {
		h.Log.Error("comment create failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	webapi.JSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

// ServeUpdate handles PUT /{commentID}. Author only, on open topics.
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
	commentID, err := webapi.URLObjectID(r, "commentID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req commentRequest
	if err := webapi.Decode(r, &req); err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		webapi.ValidationError(w, result.First())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "comment update")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID:   user.UserID,
		GroupID:   groupID,
		Action:    access.ActionEditComment,
		CommentID: commentID,
	}); !ok {
		return
	}

	if err := h.Comments.UpdateBody(ctx, commentID, htmlsanitize.Sanitize(req.Body)); err != nil {
		h.Log.Error("comment update failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	comment, err := h.Comments.GetByID(ctx, commentID)
	if err != nil {
		webapi.WriteAccessError(w, r, err, h.Log)
		return
	}
	webapi.JSON(w, http.StatusOK, map[string]any{"comment": comment})
}

// ServeDelete handles DELETE /{commentID}. Author, moderator, or owner.
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
	commentID, err := webapi.URLObjectID(r, "commentID")
	if err != nil {
		webapi.Error(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "comment delete")
	defer cancel()

	if _, ok := guard.Run(ctx, w, r, h.Med, h.Audit, h.Log, mediator.Request{
		ActorID:   user.UserID,
		GroupID:   groupID,
		Action:    access.ActionDeleteComment,
		CommentID: commentID,
	}); !ok {
		return
	}

	if _, err := h.Comments.Delete(ctx, commentID); err != nil {
		h.Log.Error("comment delete failed", zap.Error(err))
		webapi.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	webapi.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
