package domain

const (
	RoleAdmin  = "ADMIN"
	RoleViewer = "VIEWER"
)

// StatusClass is the presentation category of a payment status.
type StatusClass string

const (
	StatusSuccess StatusClass = "success"
	StatusPending StatusClass = "pending"
	StatusFailed  StatusClass = "failed"
	StatusUnknown StatusClass = "unknown"
)

const (
	AuditActionLogin         = "login"
	AuditActionLogout        = "logout"
	AuditActionPaymentEdit   = "payment.edit"
	AuditActionPaymentDelete = "payment.delete"
)

const (
	EventPaymentUpdated = "payment.updated"
	EventPaymentDeleted = "payment.deleted"
)
