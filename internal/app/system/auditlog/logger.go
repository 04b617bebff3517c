// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/store/audit"
	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for console record changes and live-feed toggles.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Sink persists audit events. *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to the sink (MongoDB) and to structured logs (zap).
type Logger struct {
	store  Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

type reqInfoKey struct{}

type reqInfo struct {
	ip        string
	userAgent string
}

// CaptureRequest stores the caller's IP and user agent in the request
// context so record-change events raised deeper in the stack can carry them.
func CaptureRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := reqInfo{ip: getClientIP(r), userAgent: r.UserAgent()}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), reqInfoKey{}, info)))
	})
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
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.ActorEmail != "" {
		fields = append(fields, zap.String("actor_email", event.ActorEmail))
	}
	if event.Table != "" {
		fields = append(fields, zap.String("table", event.Table))
	}
	if event.RecordID != nil {
		fields = append(fields, zap.String("record_id", event.RecordID.Hex()))
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
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "off" || setting == "" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful operator sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, operatorID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAuth,
		EventType:  audit.EventLoginSuccess,
		ActorID:    &operatorID,
		ActorEmail: email,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
	})
}

// LoginFailed logs a rejected sign-in. eventType is one of the
// audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, email, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		ActorEmail:    email,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
	})
}

// Logout logs an operator sign-out. Accepts the string ID from SessionUser.
func (l *Logger) Logout(ctx context.Context, r *http.Request, operatorIDStr, email string) {
	var operatorID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(operatorIDStr); err == nil {
		operatorID = &oid
	}
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAuth,
		EventType:  audit.EventLogout,
		ActorID:    operatorID,
		ActorEmail: email,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
	})
}

// --- Admin Events ---

var opEvents = map[records.Op]string{
	records.OpInsert: audit.EventRecordCreated,
	records.OpUpdate: audit.EventRecordUpdated,
	records.OpDelete: audit.EventRecordDeleted,
}

// RecordChanged logs a console record mutation. The acting operator and
// request details come from ctx. Logger satisfies records.Observer.
func (l *Logger) RecordChanged(ctx context.Context, table string, op records.Op, id primitive.ObjectID, err error) {
	if l == nil {
		return
	}
	event := l.adminEvent(ctx, opEvents[op])
	event.Table = table
	if !id.IsZero() {
		event.RecordID = &id
	}
	event.Success = err == nil
	if err != nil {
		event.FailureReason = err.Error()
	}
	l.Log(ctx, event)
}

// LiveFeedToggled logs an operator starting or stopping a campaign live feed.
func (l *Logger) LiveFeedToggled(ctx context.Context, platform string, running bool) {
	if l == nil {
		return
	}
	eventType := audit.EventLiveFeedStop
	if running {
		eventType = audit.EventLiveFeedStart
	}
	event := l.adminEvent(ctx, eventType)
	event.Success = true
	event.Details = map[string]string{"platform": platform}
	l.Log(ctx, event)
}

func (l *Logger) adminEvent(ctx context.Context, eventType string) audit.Event {
	event := audit.Event{Category: audit.CategoryAdmin, EventType: eventType}
	if u, ok := auth.UserFromContext(ctx); ok {
		if oid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			event.ActorID = &oid
		}
		event.ActorEmail = u.Email
	}
	if info, ok := ctx.Value(reqInfoKey{}).(reqInfo); ok {
		event.IP = info.ip
		event.UserAgent = info.userAgent
	}
	return event
}
