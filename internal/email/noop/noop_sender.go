package noop

import (
	"context"
	"log"

	"medibill/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op NotificationSender that logs approval notices
// to stdout. Used in development and when no email provider is configured.
func NewNoopSender() port.NotificationSender {
	return &noopSender{}
}

func (s *noopSender) SendApprovalNotice(_ context.Context, notice port.ApprovalNotice) error {
	log.Printf("[NOOP EMAIL] %s: %s (%s) total %.2f",
		notice.Subject, notice.Reference, notice.CompanyName, notice.TotalValue)
	return nil
}
