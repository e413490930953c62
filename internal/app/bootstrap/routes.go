// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/access/mediator"
	authgooglefeature "github.com/dalemusser/commonshub/internal/app/features/authgoogle"
	commentsfeature "github.com/dalemusser/commonshub/internal/app/features/comments"
	groupsfeature "github.com/dalemusser/commonshub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/commonshub/internal/app/features/health"
	loginfeature "github.com/dalemusser/commonshub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/commonshub/internal/app/features/logout"
	membersfeature "github.com/dalemusser/commonshub/internal/app/features/members"
	topicsfeature "github.com/dalemusser/commonshub/internal/app/features/topics"
	usersfeature "github.com/dalemusser/commonshub/internal/app/features/users"
	"github.com/dalemusser/commonshub/internal/app/store/accessdata"
	"github.com/dalemusser/commonshub/internal/app/store/audit"
	commentstore "github.com/dalemusser/commonshub/internal/app/store/comments"
	groupstore "github.com/dalemusser/commonshub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/commonshub/internal/app/store/memberships"
	topicstore "github.com/dalemusser/commonshub/internal/app/store/topics"
	userstore "github.com/dalemusser/commonshub/internal/app/store/users"
	"github.com/dalemusser/commonshub/internal/app/system/auditlog"
	"github.com/dalemusser/commonshub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. The wiring order matters only in one
// place: the mediator is built over the access data adapter once and
// shared by every group-scoped feature, so all of them see the same
// role resolution and policy.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// One mediator for the whole app.
	med := mediator.New(accessdata.New(
		groupstore.New(db),
		userstore.New(db),
		topicstore.New(db),
		commentstore.New(db),
		membershipstore.New(db),
	))

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:       appCfg.AuditLogAuth,
		Membership: appCfg.AuditLogMembership,
		Content:    appCfg.AuditLogContent,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Authentication.
	r.Mount("/api/login", loginfeature.Routes(loginfeature.NewHandler(db, auditLogger, logger)))
	r.Mount("/api/logout", logoutfeature.Routes(logoutfeature.NewHandler(auditLogger, logger)))
	r.Mount("/auth/google", authgooglefeature.Routes(authgooglefeature.NewHandler(
		db, auditLogger, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)))

	// Accounts and profiles.
	r.Mount("/api/users", usersfeature.Routes(usersfeature.NewHandler(db, auditLogger, logger)))

	// Groups, with the membership and content surfaces composed under
	// /{groupID} so URL params flow through to every subfeature.
	groupsRouter := groupsfeature.Routes(groupsfeature.NewHandler(db, med, auditLogger, logger))

	membersHandler := membersfeature.NewHandler(db, med, auditLogger, logger)
	groupsRouter.Mount("/{groupID}/requests", membersfeature.RequestRoutes(membersHandler))
	groupsRouter.Mount("/{groupID}/members", membersfeature.MemberRoutes(membersHandler))
	groupsRouter.Mount("/{groupID}/moderators", membersfeature.ModeratorRoutes(membersHandler))
	groupsRouter.Mount("/{groupID}/bans", membersfeature.BanRoutes(membersHandler))

	topicsRouter := topicsfeature.Routes(topicsfeature.NewHandler(db, med, auditLogger, logger))
	topicsRouter.Mount("/{topicID}/comments", commentsfeature.Routes(commentsfeature.NewHandler(db, med, auditLogger, logger)))
	groupsRouter.Mount("/{groupID}/topics", topicsRouter)

	r.Mount("/api/groups", groupsRouter)

	return r, nil
}
