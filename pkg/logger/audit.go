package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent represents an admin audit event
type AuditEvent struct {
	EventType string
	CallerID  string
	Realm     string
	IPAddress string
	Success   bool
	Metadata  map[string]string
}

// AuditLogger records admin actions against a realm in a structured,
// queryable form.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogAdminQuery logs one admin read against a realm, successful or denied.
func (al *AuditLogger) LogAdminQuery(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "admin_query"),
		slog.String("event_type", event.EventType),
		slog.String("realm", event.Realm),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.CallerID != "" {
		attrs = append(attrs, slog.String("caller_id", event.CallerID))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, slog.String(k, v))
	}

	if event.Success {
		al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
	} else {
		al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit", attrs...)
	}
}
