package thread

import (
	"context"
	"errors"
	"fmt"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/support"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/apperr"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/tool"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service manages the append-only message thread under a support ticket
// and the per-counterparty read tracking.
type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	tickets *support.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, tickets *support.Service) *Service {
	return &Service{db: db, log: log, tickets: tickets}
}

// senderTypeOf maps a principal onto the thread's two sides.
func senderTypeOf(p *types.Principal) types.SenderType {
	if p.IsAdmin() {
		return types.SenderTypeAdmin
	}
	return types.SenderTypeUser
}

// SendMessage appends a message to a ticket thread. Closed tickets reject
// new messages; an admin message on an open ticket promotes it to
// in_progress.
func (s *Service) SendMessage(ctx context.Context, p *types.Principal, ticketID, text string) (*models.SupportMessage, error) {
	if text == "" {
		return nil, apperr.Validation("message text is required")
	}
	ticket, err := s.tickets.GetTicket(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsClosed() {
		return nil, apperr.InvalidState("cannot message a closed ticket")
	}

	name, email := s.resolveSender(ctx, p)
	msg := &models.SupportMessage{
		ID:          tool.GenerateUUIDV7(),
		SupportID:   ticket.ID,
		SenderType:  senderTypeOf(p),
		SenderID:    p.ID,
		SenderName:  name,
		SenderEmail: email,
		Message:     text,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if msg.SenderType == types.SenderTypeAdmin {
		if err := s.tickets.PromoteOpenTicket(ctx, ticket.ID); err != nil {
			// The message is already committed; the promotion retries on
			// the next admin interaction.
			s.log.Errorw("failed to promote ticket after admin message", "ticket_id", ticket.ID, "error", err.Error())
		}
	}
	return msg, nil
}

// ListAndAcknowledge returns the full thread in creation order and, as
// part of the same contract, marks every message from the opposite party
// as read. Reading a thread is never side-effect-free.
func (s *Service) ListAndAcknowledge(ctx context.Context, p *types.Principal, ticketID string) ([]*models.SupportMessage, error) {
	ticket, err := s.tickets.GetTicket(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}

	var messages []*models.SupportMessage
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("support_id = ?", ticket.ID).Order("created_at asc").Find(&messages).Error; err != nil {
			return fmt.Errorf("failed to list messages: %w", err)
		}
		opposite := senderTypeOf(p).Opposite()
		if err := tx.Model(&models.SupportMessage{}).
			Where("support_id = ? AND sender_type = ? AND is_read = ?", ticket.ID, opposite, false).
			Update("is_read", true).Error; err != nil {
			return fmt.Errorf("failed to acknowledge messages: %w", err)
		}
		for _, m := range messages {
			if m.SenderType == opposite {
				m.IsRead = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// UnreadCount counts messages from the opposite party not yet read on one
// ticket.
func (s *Service) UnreadCount(ctx context.Context, p *types.Principal, ticketID string) (int64, error) {
	ticket, err := s.tickets.GetTicket(ctx, p, ticketID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.db.WithContext(ctx).Model(&models.SupportMessage{}).
		Where("support_id = ? AND sender_type = ? AND is_read = ?", ticket.ID, senderTypeOf(p).Opposite(), false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// TotalUnreadCount counts unread counterparty messages across every ticket
// visible to the actor: all tickets for admins, owned tickets otherwise.
func (s *Service) TotalUnreadCount(ctx context.Context, p *types.Principal) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.SupportMessage{}).
		Where("support_messages.sender_type = ? AND support_messages.is_read = ?", senderTypeOf(p).Opposite(), false)

	if !p.IsAdmin() {
		ownerType, ok := p.Owner()
		if !ok {
			return 0, apperr.Forbidden("unsupported account type")
		}
		q = q.Joins("JOIN support_tickets ON support_tickets.id = support_messages.support_id").
			Where("support_tickets.owner_type = ? AND support_tickets.owner_id = ?", ownerType, p.ID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count total unread messages: %w", err)
	}
	return count, nil
}

// DeleteMessage removes a message; only the original sender or an admin
// may do so.
func (s *Service) DeleteMessage(ctx context.Context, p *types.Principal, messageID string) error {
	var msg models.SupportMessage
	err := s.db.WithContext(ctx).Where("id = ?", messageID).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("message not found: %s", messageID)
	}
	if err != nil {
		return fmt.Errorf("failed to load message: %w", err)
	}

	if !p.IsAdmin() && msg.SenderID != p.ID {
		return apperr.Forbidden("only the sender or an admin may delete a message")
	}
	if err := s.db.WithContext(ctx).Delete(&msg).Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// resolveSender pulls the display name/email from the account directory,
// falling back to the token claims for unknown accounts.
func (s *Service) resolveSender(ctx context.Context, p *types.Principal) (name, email string) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("id = ?", p.ID).First(&account).Error; err == nil {
		return account.Name, account.Email
	}
	return string(p.Type), p.Email
}
