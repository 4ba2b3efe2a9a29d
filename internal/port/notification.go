package port

import "context"

// ApprovalNotice describes an approved measurement or group for notification.
type ApprovalNotice struct {
	Subject     string
	CompanyName string
	Reference   string
	TotalValue  float64
}

// NotificationSender delivers approval notices to the billing inbox.
// Sending is best-effort: a failed notice never rolls back an approval.
type NotificationSender interface {
	SendApprovalNotice(ctx context.Context, notice ApprovalNotice) error
}
