package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"medibill/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	billingTo   string
}

// NewSESSender creates a new SES-backed NotificationSender. Approval notices
// go to a single configured billing inbox.
func NewSESSender(region, fromAddress, fromName, billingTo string) (port.NotificationSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		billingTo:   billingTo,
	}, nil
}

func (s *sesSender) SendApprovalNotice(ctx context.Context, notice port.ApprovalNotice) error {
	subject := notice.Subject
	htmlBody := buildNoticeHTML(notice)
	textBody := fmt.Sprintf(
		"%s\n\nReference: %s\nClient: %s\nTotal: %.2f\n\nThe entry is now available on the billing ledger.",
		notice.Subject, notice.Reference, notice.CompanyName, notice.TotalValue)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.billingTo},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildNoticeHTML(notice port.ApprovalNotice) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <table style="width: 100%%; border-collapse: collapse;">
    <tr><td style="padding: 6px 0; color: #666;">Reference</td><td style="padding: 6px 0;">%s</td></tr>
    <tr><td style="padding: 6px 0; color: #666;">Client</td><td style="padding: 6px 0;">%s</td></tr>
    <tr><td style="padding: 6px 0; color: #666;">Total</td><td style="padding: 6px 0;">%.2f</td></tr>
  </table>
  <p>The entry is now available on the billing ledger.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">MediBill - Measurement &amp; Billing</p>
</body>
</html>`, notice.Subject, notice.Reference, notice.CompanyName, notice.TotalValue)
}
