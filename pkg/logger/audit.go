package logger

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// Relation event types
const (
	EventBlockCreated     = "block_created"
	EventBlockRemoved     = "block_removed"
	EventFavoriteCreated  = "favorite_created"
	EventFavoriteRemoved  = "favorite_removed"
	EventAccountCreated   = "account_created"
	EventAccountDeleted   = "account_deleted"
	EventPictureReplaced  = "profile_picture_replaced"
	EventPictureRemoved   = "profile_picture_removed"
)

// AuditEvent represents a state change worth keeping in the audit trail
type AuditEvent struct {
	EventType     string
	UserID        int64
	TargetUserID  int64
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes audit events as structured log records
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogRelationChange logs block and favorite mutations
func (al *AuditLogger) LogRelationChange(ctx context.Context, event AuditEvent) {
	al.log(ctx, "relation", event)
}

// LogAccountChange logs account and profile picture mutations
func (al *AuditLogger) LogAccountChange(ctx context.Context, event AuditEvent) {
	al.log(ctx, "account", event)
}

func (al *AuditLogger) log(ctx context.Context, auditType string, event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", auditType),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.UserID != 0 {
		attrs = append(attrs, slog.String("user_id", strconv.FormatInt(event.UserID, 10)))
	}
	if event.TargetUserID != 0 {
		attrs = append(attrs, slog.String("target_user_id", strconv.FormatInt(event.TargetUserID, 10)))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, slog.String(k, v))
	}

	if event.Success {
		al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
	} else {
		al.logger.LogAttrs(ctx, slog.LevelWarn, "audit", attrs...)
	}
}
