package domain

import "time"

// Severity classifies a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DefaultNotificationTTL is how long an event stays in the active set
// unless dismissed first.
const DefaultNotificationTTL = 3 * time.Second

// NotificationEvent is a transient status message. It leaves the active
// set on explicit dismissal or TTL expiry, whichever comes first.
type NotificationEvent struct {
	ID        string
	Message   string
	Severity  Severity
	TTL       time.Duration
	CreatedAt time.Time
}
