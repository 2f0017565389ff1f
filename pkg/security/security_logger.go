package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"job-portal-backend/pkg/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names a security-relevant occurrence.
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventRegistered         EventType = "user_registered"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventForbiddenAccess    EventType = "forbidden_access"
	EventUploadRejected     EventType = "upload_rejected"
	EventBlockCreated       EventType = "block_created"
)

// SecurityEvent is one structured audit record.
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string // masked or hashed before it reaches the log
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]any
}

// SecurityLogger writes security events through the application logger under
// a dedicated "security" name so they can be routed separately.
type SecurityLogger struct {
	base func() *zap.Logger
}

var defaultLogger = &SecurityLogger{base: logger.L}

// DefaultLogger returns the process-wide security logger.
func DefaultLogger() *SecurityLogger {
	return defaultLogger
}

// NewSecurityLogger is used by tests to capture events.
func NewSecurityLogger(l *zap.Logger) *SecurityLogger {
	return &SecurityLogger{base: func() *zap.Logger { return l }}
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventLoginSuccess, EventRegistered:
		return zapcore.InfoLevel
	case EventLoginBlocked, EventBlockCreated:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	fields := []zap.Field{zap.String("event", string(event.Event))}
	if event.SubjectType != "" {
		fields = append(fields,
			zap.String("subject_type", event.SubjectType),
			zap.String("subject_value", maskValue(event.SubjectType, event.SubjectValue)),
		)
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.base().Named("security").Log(levelFor(event.Event), string(event.Event), fields...)
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]any{"reason": reason},
	})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, userID, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUploadRejected,
		SubjectType:  "user_id",
		SubjectValue: userID,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]any{"reason": reason},
	})
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns a short SHA-256 fingerprint of value.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip", "user_id":
		return value
	default:
		return HashValue(value)
	}
}
