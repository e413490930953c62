// Package guard is the thin seam between HTTP handlers and the access
// mediator. Every group-scoped feature funnels its guarded actions
// through Run so denials are audited and translated to HTTP in exactly
// one place.
package guard

import (
	"context"
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/access/mediator"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/app/system/webapi"
	"go.uber.org/zap"
)

// Run executes one guarded action. On success it returns the mediator
// result and true. On any failure it writes the HTTP error response,
// records an audit event for policy denials, and returns false; the
// handler just returns.
func Run(ctx context.Context, w http.ResponseWriter, r *http.Request, med *mediator.Mediator, audit *auditlog.Logger, log *zap.Logger, req mediator.Request) (mediator.Result, bool) {
	res, err := med.Execute(ctx, req)
	if err != nil {
		if reason, denied := access.DeniedReason(err); denied {
			audit.AccessDenied(ctx, r, req.Action, req.ActorID, req.GroupID, reason)
		}
		webapi.WriteAccessError(w, r, err, log)
		return mediator.Result{}, false
	}
	return res, true
}
