package support

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/notifier"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/apperr"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/logctx"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/tool"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns the support ticket lifecycle: open -> in_progress ->
// resolved -> closed, with closed terminal. All notification side effects
// are dispatched after the row is committed and never fail the operation.
type Service struct {
	db    *gorm.DB
	log   *zap.SugaredLogger
	notif *notifier.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, notif *notifier.Service) *Service {
	return &Service{db: db, log: log, notif: notif}
}

type UpdateTicketRequest struct {
	Subject *string `json:"subject"`
	Message *string `json:"message"`
}

// CreateTicket persists a new open ticket for the calling clinic or
// therapist and sends a best-effort confirmation email.
func (s *Service) CreateTicket(ctx context.Context, p *types.Principal, subject, message string) (*models.SupportTicket, error) {
	ownerType, ok := p.Owner()
	if !ok {
		return nil, apperr.Validation("ticket owner must be a clinic or therapist account")
	}
	if subject == "" || message == "" {
		return nil, apperr.Validation("subject and message are required")
	}

	ticket := &models.SupportTicket{
		ID:        tool.GenerateUUIDV7(),
		OwnerType: ownerType,
		OwnerID:   p.ID,
		Subject:   subject,
		Message:   message,
		Status:    types.TicketStatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.notif.TicketCreated(ctx, ticket, s.ownerEmail(ctx, ticket))
	return ticket, nil
}

// GetTicket loads a ticket, enforcing the ownership rule: admins see every
// ticket, owners only their own.
func (s *Service) GetTicket(ctx context.Context, p *types.Principal, ticketID string) (*models.SupportTicket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !ticket.OwnedBy(p) {
		return nil, apperr.Forbidden("you do not have access to this ticket")
	}
	return ticket, nil
}

// ListTickets returns all tickets for admins, owned tickets otherwise.
func (s *Service) ListTickets(ctx context.Context, p *types.Principal) ([]*models.SupportTicket, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if !p.IsAdmin() {
		ownerType, ok := p.Owner()
		if !ok {
			return nil, apperr.Forbidden("unsupported account type")
		}
		q = q.Where("owner_type = ? AND owner_id = ?", ownerType, p.ID)
	}
	var tickets []*models.SupportTicket
	if err := q.Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// UpdateTicket lets the owner amend subject/message while the ticket has
// not been resolved or closed.
func (s *Service) UpdateTicket(ctx context.Context, p *types.Principal, ticketID string, req *UpdateTicketRequest) (*models.SupportTicket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.OwnedBy(p) {
		return nil, apperr.Forbidden("only the ticket owner may update it")
	}
	if ticket.Status == types.TicketStatusResolved || ticket.Status == types.TicketStatusClosed {
		return nil, apperr.InvalidState("cannot update a closed or resolved ticket")
	}

	if req.Subject != nil {
		ticket.Subject = *req.Subject
	}
	if req.Message != nil {
		ticket.Message = *req.Message
	}
	if ticket.Subject == "" || ticket.Message == "" {
		return nil, apperr.Validation("subject and message must not be empty")
	}
	if err := s.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return ticket, nil
}

// DeleteTicket removes an owner's still-open ticket and its messages.
func (s *Service) DeleteTicket(ctx context.Context, p *types.Principal, ticketID string) error {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return err
	}
	if !ticket.OwnedBy(p) {
		return apperr.Forbidden("only the ticket owner may delete it")
	}
	if ticket.Status != types.TicketStatusOpen {
		return apperr.InvalidState("only open tickets can be deleted")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("support_id = ?", ticket.ID).Delete(&models.SupportMessage{}).Error; err != nil {
			return fmt.Errorf("failed to delete ticket messages: %w", err)
		}
		if err := tx.Delete(ticket).Error; err != nil {
			return fmt.Errorf("failed to delete ticket: %w", err)
		}
		return nil
	})
}

// ReplyAsAdmin records an admin reply. An open ticket moves to
// in_progress; a resolved ticket keeps its status (regressions require an
// explicit status update); a closed ticket rejects the reply.
func (s *Service) ReplyAsAdmin(ctx context.Context, ticketID, adminEmail, replyText string) (*models.SupportTicket, error) {
	if replyText == "" {
		return nil, apperr.Validation("reply text is required")
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsClosed() {
		return nil, apperr.InvalidState("cannot reply to a closed ticket")
	}

	now := time.Now()
	ticket.AdminReply = &replyText
	ticket.AdminRepliedAt = &now
	ticket.AdminEmail = &adminEmail
	if ticket.Status == types.TicketStatusOpen {
		ticket.Status = types.TicketStatusInProgress
	}
	if err := s.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to save admin reply: %w", err)
	}

	s.notif.AdminReplied(ctx, ticket, s.ownerEmail(ctx, ticket))
	return ticket, nil
}

// ResolveTicket marks the ticket resolved with a note and notifies the
// owner.
func (s *Service) ResolveTicket(ctx context.Context, ticketID, resolutionNote string) (*models.SupportTicket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsClosed() {
		return nil, apperr.InvalidState("cannot resolve a closed ticket")
	}

	now := time.Now()
	ticket.Status = types.TicketStatusResolved
	ticket.ResolvedAt = &now
	ticket.ResolutionNote = &resolutionNote
	if err := s.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve ticket: %w", err)
	}

	s.notif.TicketResolved(ctx, ticket, s.ownerEmail(ctx, ticket))
	return ticket, nil
}

// UpdateStatus sets an arbitrary valid status. Transitions into resolved
// or closed stamp ResolvedAt; closed remains terminal.
func (s *Service) UpdateStatus(ctx context.Context, ticketID string, newStatus types.TicketStatus, resolutionNote *string) (*models.SupportTicket, error) {
	if !newStatus.Valid() {
		return nil, apperr.Validation("unknown ticket status: %s", newStatus)
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsClosed() {
		return nil, apperr.InvalidState("ticket is closed; its status can no longer change")
	}

	ticket.Status = newStatus
	if newStatus == types.TicketStatusResolved || newStatus == types.TicketStatusClosed {
		now := time.Now()
		ticket.ResolvedAt = &now
	}
	if resolutionNote != nil {
		ticket.ResolutionNote = resolutionNote
	}
	if err := s.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}
	return ticket, nil
}

// PromoteOpenTicket moves an open ticket to in_progress. Used when an
// admin engages a thread; any other status is left untouched.
func (s *Service) PromoteOpenTicket(ctx context.Context, ticketID string) error {
	res := s.db.WithContext(ctx).Model(&models.SupportTicket{}).
		Where("id = ? AND status = ?", ticketID, types.TicketStatusOpen).
		Update("status", types.TicketStatusInProgress)
	if res.Error != nil {
		return fmt.Errorf("failed to promote ticket: %w", res.Error)
	}
	return nil
}

type TicketStats struct {
	Total       int64                        `json:"total"`
	ByStatus    map[types.TicketStatus]int64 `json:"by_status"`
	ByOwnerType map[types.OwnerType]int64    `json:"by_owner_type"`
}

// Stats returns ticket counts by status and owner type. Pure read.
func (s *Service) Stats(ctx context.Context) (*TicketStats, error) {
	stats := &TicketStats{
		ByStatus:    map[types.TicketStatus]int64{},
		ByOwnerType: map[types.OwnerType]int64{},
	}

	type statusRow struct {
		Status types.TicketStatus
		Count  int64
	}
	var byStatus []statusRow
	if err := s.db.WithContext(ctx).Model(&models.SupportTicket{}).
		Select("status, count(*) as count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets by status: %w", err)
	}
	for _, r := range byStatus {
		stats.ByStatus[r.Status] = r.Count
		stats.Total += r.Count
	}

	type ownerRow struct {
		OwnerType types.OwnerType
		Count     int64
	}
	var byOwner []ownerRow
	if err := s.db.WithContext(ctx).Model(&models.SupportTicket{}).
		Select("owner_type, count(*) as count").Group("owner_type").Scan(&byOwner).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets by owner type: %w", err)
	}
	for _, r := range byOwner {
		stats.ByOwnerType[r.OwnerType] = r.Count
	}
	return stats, nil
}

func (s *Service) load(ctx context.Context, ticketID string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := s.db.WithContext(ctx).Where("id = ?", ticketID).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("ticket not found: %s", ticketID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	return &ticket, nil
}

// ownerEmail resolves the notification recipient from the account
// directory. A missing account only suppresses the notification.
func (s *Service) ownerEmail(ctx context.Context, ticket *models.SupportTicket) string {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("id = ?", ticket.OwnerID).First(&account).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("ticket owner account not found", "ticket_id", ticket.ID, "owner_id", ticket.OwnerID)
		return ""
	}
	return account.Email
}
