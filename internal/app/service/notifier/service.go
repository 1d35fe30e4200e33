package notifier

import (
	"context"
	"fmt"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/platform/mail"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/settings"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/logctx"

	"go.uber.org/zap"
)

// Service translates lifecycle events into mail sends. It is stateless and
// strictly best-effort: the business operation has already committed, so
// every failure here is logged and swallowed.
type Service struct {
	sender   mail.Sender
	settings *settings.Service
	log      *zap.SugaredLogger
}

func NewService(sender mail.Sender, st *settings.Service, log *zap.SugaredLogger) *Service {
	return &Service{sender: sender, settings: st, log: log}
}

// TicketCreated confirms ticket receipt to the owner.
func (s *Service) TicketCreated(ctx context.Context, ticket *models.SupportTicket, ownerEmail string) {
	subject := fmt.Sprintf("We received your support request: %s", ticket.Subject)
	body := renderTicketCreated(ticket)
	s.dispatch(ctx, ownerEmail, subject, body)
}

// AdminReplied tells the owner an admin responded to their ticket.
func (s *Service) AdminReplied(ctx context.Context, ticket *models.SupportTicket, ownerEmail string) {
	subject := fmt.Sprintf("New reply on your support request: %s", ticket.Subject)
	body := renderAdminReplied(ticket)
	s.dispatch(ctx, ownerEmail, subject, body)
}

// TicketResolved tells the owner their ticket was resolved.
func (s *Service) TicketResolved(ctx context.Context, ticket *models.SupportTicket, ownerEmail string) {
	subject := fmt.Sprintf("Your support request was resolved: %s", ticket.Subject)
	body := renderTicketResolved(ticket)
	s.dispatch(ctx, ownerEmail, subject, body)
}

func (s *Service) dispatch(ctx context.Context, toEmail, subject, body string) {
	if toEmail == "" {
		logctx.FromCtx(ctx, s.log).Warnw("notification skipped: empty recipient", "subject", subject)
		return
	}

	// Detach from the request context; the send outlives the HTTP call.
	bg := context.WithoutCancel(ctx)
	go func() {
		if cfg, err := s.settings.Get(bg); err == nil && !cfg.EmailNotificationsEnabled {
			logctx.FromCtx(bg, s.log).Infow("notification suppressed by settings", "to", toEmail, "subject", subject)
			return
		}
		if err := s.sender.Send(bg, toEmail, subject, body); err != nil {
			logctx.FromCtx(bg, s.log).Errorw("notification send failed", "to", toEmail, "subject", subject, "error", err.Error())
			return
		}
		logctx.FromCtx(bg, s.log).Infow("notification sent", "to", toEmail, "subject", subject)
	}()
}
