// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/commonshub/internal/app/access"
	"github.com/dalemusser/commonshub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout,
	// registration).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Membership controls logging for membership and moderation events
	// (requests, accepts, bans, denied actions).
	// Values: "all", "db", "log", "off"
	Membership string
	// Content controls logging for group/topic lifecycle events.
	// Values: "all", "db", "log", "off"
	Content string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.GroupID != nil {
		fields = append(fields, zap.String("group_id", event.GroupID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryMembership:
		setting = l.config.Membership
	case audit.CategoryContent:
		setting = l.config.Content
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"auth_method": authMethod},
	})
}

// LoginFailedUserNotFound logs a failed login due to user not found.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_email": attemptedEmail},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
	})
}

// Logout logs a user logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// UserRegistered logs a new account registration.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventUserRegistered,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"auth_method": authMethod},
	})
}

// UserDeleted logs an account deletion.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventUserDeleted,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Membership Events ---

// membershipEventType maps a committed membership action to its event type.
func membershipEventType(action access.Action) string {
	switch action {
	case access.ActionRequestJoin:
		return audit.EventJoinRequested
	case access.ActionCancelJoinRequest:
		return audit.EventJoinCancelled
	case access.ActionAcceptJoinRequest:
		return audit.EventJoinAccepted
	case access.ActionDenyJoinRequest:
		return audit.EventJoinDenied
	case access.ActionAddMember:
		return audit.EventMemberAdded
	case access.ActionRemoveMember:
		return audit.EventMemberRemoved
	case access.ActionLeaveGroup:
		return audit.EventMemberLeft
	case access.ActionPromoteModerator:
		return audit.EventMemberPromoted
	case access.ActionDemoteModerator:
		return audit.EventModeratorDemoted
	case access.ActionBanMember:
		return audit.EventMemberBanned
	case access.ActionUnbanMember:
		return audit.EventMemberUnbanned
	}
	return string(action)
}

// MembershipChanged logs a committed membership transition.
func (l *Logger) MembershipChanged(ctx context.Context, r *http.Request, action access.Action, actorID, subjectID, groupID primitive.ObjectID, status access.Status) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryMembership,
		EventType: membershipEventType(action),
		UserID:    &subjectID,
		ActorID:   &actorID,
		GroupID:   &groupID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"status": string(status)},
	})
}

// AccessDenied logs a policy denial. Denials are recorded with the
// structured reason so moderation disputes can be reconstructed.
func (l *Logger) AccessDenied(ctx context.Context, r *http.Request, action access.Action, actorID, groupID primitive.ObjectID, reason access.Reason) {
	event := audit.Event{
		Category:      audit.CategoryMembership,
		EventType:     audit.EventAccessDenied,
		GroupID:       &groupID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: string(reason),
		Details:       map[string]string{"action": string(action)},
	}
	if !actorID.IsZero() {
		event.ActorID = &actorID
	}
	l.Log(ctx, event)
}

// --- Content Events ---

// GroupCreated logs group creation.
func (l *Logger) GroupCreated(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, groupName string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: audit.EventGroupCreated,
		ActorID:   &actorID,
		GroupID:   &groupID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"group_name": groupName},
	})
}

// GroupUpdated logs a group settings change.
func (l *Logger) GroupUpdated(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: audit.EventGroupUpdated,
		ActorID:   &actorID,
		GroupID:   &groupID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"fields_changed": fieldsChanged},
	})
}

// GroupDeleted logs group deletion.
func (l *Logger) GroupDeleted(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, groupName string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: audit.EventGroupDeleted,
		ActorID:   &actorID,
		GroupID:   &groupID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"group_name": groupName},
	})
}

// TopicClosed logs a topic being closed or reopened.
func (l *Logger) TopicClosed(ctx context.Context, r *http.Request, actorID, groupID, topicID primitive.ObjectID, closed bool) {
	state := "closed"
	if !closed {
		state = "reopened"
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: audit.EventTopicClosed,
		ActorID:   &actorID,
		GroupID:   &groupID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"topic_id": topicID.Hex(),
			"state":    state,
		},
	})
}

// TopicDeleted logs topic deletion.
func (l *Logger) TopicDeleted(ctx context.Context, r *http.Request, actorID, groupID, topicID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: audit.EventTopicDeleted,
		ActorID:   &actorID,
		GroupID:   &groupID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"topic_id": topicID.Hex()},
	})
}
