package util

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/model"
)

// AuditEventType represents different types of audit events
type AuditEventType string

const (
	EventLoginSuccess       AuditEventType = "LOGIN_SUCCESS"
	EventLoginFailure       AuditEventType = "LOGIN_FAILURE"
	EventSignupSuccess      AuditEventType = "SIGNUP_SUCCESS"
	EventLogout             AuditEventType = "LOGOUT"
	EventAccountLocked      AuditEventType = "ACCOUNT_LOCKED"
	EventUnauthorizedAccess AuditEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventReportCreated      AuditEventType = "REPORT_CREATED"
	EventReportDeleted      AuditEventType = "REPORT_DELETED"
	EventExportDownloaded   AuditEventType = "EXPORT_DOWNLOADED"
	EventEndpointCall       AuditEventType = "ENDPOINT_CALL"
)

// AuditEvent represents an audit event to be logged
type AuditEvent struct {
	EventType AuditEventType
	UserID    string
	Email     string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var auditLogger = logrus.StandardLogger()
var auditDB *gorm.DB

// SetAuditLoggerDB sets a gorm DB instance used by the audit logger.
// Call this during application startup (e.g. in main) after DB initialization.
func SetAuditLoggerDB(db *gorm.DB) {
	auditDB = db
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogAuditEvent emits the event as a structured log line and persists it
// best-effort to the audit_logs table when a DB has been configured.
func LogAuditEvent(event AuditEvent) {
	entry := auditLogger.WithFields(logrus.Fields{
		"event":      sanitizeLogValue(string(event.EventType)),
		"user_id":    sanitizeLogValue(event.UserID),
		"email":      sanitizeLogValue(event.Email),
		"ip":         sanitizeLogValue(event.IP),
		"user_agent": sanitizeLogValue(event.UserAgent),
	})
	entry.Info(sanitizeLogValue(event.Message))

	if auditDB == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	row := model.AuditLog{
		EventType: string(event.EventType),
		UserID:    event.UserID,
		Email:     sanitizeLogValue(event.Email),
		IP:        sanitizeLogValue(event.IP),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}

	// best-effort write; never fail the request over an audit row
	if err := auditDB.Create(&row).Error; err != nil {
		entry.WithError(err).Warn("failed to persist audit event")
	}
}

// LogLoginSuccess logs a successful login event
func LogLoginSuccess(userID uint, email, ip, userAgent string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLoginSuccess,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged in successfully",
	})
}

// LogLoginFailure logs a failed login attempt
func LogLoginFailure(email, ip, userAgent, reason string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLoginFailure,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Login failed: %s", reason),
	})
}

// LogLogout logs a logout event
func LogLogout(userID uint, email, ip, userAgent string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLogout,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged out",
	})
}

// LogAccountLocked logs when an account is locked
func LogAccountLocked(userID uint, email, ip string, reason string) {
	LogAuditEvent(AuditEvent{
		EventType: EventAccountLocked,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     email,
		IP:        ip,
		Message:   fmt.Sprintf("Account locked: %s", reason),
	})
}

// LogUnauthorizedAccess logs unauthorized access attempts
func LogUnauthorizedAccess(userID string, email, ip, resource, reason string) {
	LogAuditEvent(AuditEvent{
		EventType: EventUnauthorizedAccess,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		Message:   fmt.Sprintf("Unauthorized access to %s: %s", resource, reason),
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(email, ip, endpoint string) {
	LogAuditEvent(AuditEvent{
		EventType: EventRateLimitExceeded,
		Email:     email,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}

// LogReportCreated logs a completed screening run
func LogReportCreated(userID uint, ip string, reportID uint, riskLevel string) {
	LogAuditEvent(AuditEvent{
		EventType: EventReportCreated,
		UserID:    fmt.Sprintf("%d", userID),
		IP:        ip,
		Message:   "Screening report created",
		Details:   map[string]interface{}{"report_id": reportID, "risk_level": riskLevel},
	})
}

// LogReportDeleted logs a report deletion
func LogReportDeleted(userID uint, ip string, reportID uint) {
	LogAuditEvent(AuditEvent{
		EventType: EventReportDeleted,
		UserID:    fmt.Sprintf("%d", userID),
		IP:        ip,
		Message:   "Screening report deleted",
		Details:   map[string]interface{}{"report_id": reportID},
	})
}

// LogExportDownloaded logs a PDF or Excel export
func LogExportDownloaded(userID uint, ip, format string, reportID uint) {
	LogAuditEvent(AuditEvent{
		EventType: EventExportDownloaded,
		UserID:    fmt.Sprintf("%d", userID),
		IP:        ip,
		Message:   fmt.Sprintf("Report exported as %s", format),
		Details:   map[string]interface{}{"report_id": reportID, "format": format},
	})
}

// SetAuditLoggerForTest sets a custom logrus logger for testing purposes
func SetAuditLoggerForTest(logger *logrus.Logger) {
	auditLogger = logger
}
