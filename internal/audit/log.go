// Package audit emits structured audit events for security-relevant
// actions: sign-in, sign-out, record mutations, exports. Events ride the
// default slog logger with a fixed "audit" marker so they can be split
// from request logs downstream.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"finboard.org/internal/auth"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for
// audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Event writes an audit entry enriched with request and user context.
// attrs are appended as-is; the event name is required.
func Event(ctx context.Context, event string, attrs ...slog.Attr) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	all := make([]slog.Attr, 0, len(attrs)+3)
	all = append(all, slog.String("type", "audit"), slog.String("event", event))
	if rid := requestIDFromContext(ctx); rid != "" {
		all = append(all, slog.String("request_id", rid))
	}
	if userID, ok := auth.UserIDFromContext(ctx); ok {
		all = append(all, slog.String("user_id", userID))
	}
	all = append(all, attrs...)
	slog.LogAttrs(ctx, slog.LevelInfo, "audit", all...)
	return nil
}
