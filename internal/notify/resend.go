package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

const emailSubject = "Student feedback"

// ResendNotifier emails each notification to the configured recipients.
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     []string
	log    *zap.Logger
}

// NewResendNotifier returns a notifier that only logs when apiKey is empty.
func NewResendNotifier(apiKey, from string, to []string, log *zap.Logger) *ResendNotifier {
	n := &ResendNotifier{
		from: from,
		to:   to,
		log:  log.Named("notify"),
	}
	if apiKey != "" {
		n.client = resend.NewClient(apiKey)
	}
	return n
}

func (n *ResendNotifier) Publish(ctx context.Context, message string) error {
	if n.client == nil {
		n.log.Warn("RESEND_API_KEY not set, skipping email", zap.String("message", message))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: emailSubject + ": " + message,
		Text:    message,
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.log.Info("notification emailed", zap.String("email_id", sent.Id), zap.String("message", message))
	return nil
}
