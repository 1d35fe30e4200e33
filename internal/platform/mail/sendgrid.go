package mail

import (
	"context"
	"fmt"

	cfgpkg "github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/fx"
)

// Sender delivers a single email. Delivery is best-effort; callers log
// failures instead of propagating them.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, htmlBody string) error
}

type SendGridSender struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func NewSendGridSender(cfg *cfgpkg.Config) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(cfg.Mail.SendGridAPIKey),
		fromName: cfg.Mail.FromName,
		fromAddr: cfg.Mail.FromAddress,
	}
}

func (s *SendGridSender) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	from := sgmail.NewEmail(s.fromName, s.fromAddr)
	to := sgmail.NewEmail("", toEmail)
	msg := sgmail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(NewSendGridSender),
	fx.Provide(func(s *SendGridSender) Sender { return s }),
)
