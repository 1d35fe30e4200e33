package models

import (
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"
)

// SupportTicket is a support request raised by a clinic or therapist
// account. The owner is a tagged {OwnerType, OwnerID} pair rather than two
// nullable foreign keys, so "exactly one owner" holds by construction.
type SupportTicket struct {
	ID        string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerType types.OwnerType `gorm:"column:owner_type;type:varchar(16);not null;index:idx_support_owner,priority:1" json:"owner_type"`
	OwnerID   string          `gorm:"column:owner_id;type:uuid;not null;index:idx_support_owner,priority:2" json:"owner_id"`

	Subject string             `gorm:"column:subject;type:varchar(255);not null" json:"subject"`
	Message string             `gorm:"column:message;type:text;not null" json:"message"`
	Status  types.TicketStatus `gorm:"column:status;type:varchar(16);not null;default:open;index" json:"status"`

	AdminReply     *string    `gorm:"column:admin_reply;type:text" json:"admin_reply,omitempty"`
	AdminRepliedAt *time.Time `gorm:"column:admin_replied_at;default:null" json:"admin_replied_at,omitempty"`
	AdminEmail     *string    `gorm:"column:admin_email;type:varchar(255)" json:"admin_email,omitempty"`

	ResolvedAt     *time.Time `gorm:"column:resolved_at;default:null" json:"resolved_at,omitempty"`
	ResolutionNote *string    `gorm:"column:resolution_note;type:text" json:"resolution_note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

// IsClosed reports whether the ticket reached its terminal state.
func (t *SupportTicket) IsClosed() bool {
	return t != nil && t.Status == types.TicketStatusClosed
}

// OwnedBy reports whether the given principal owns this ticket.
func (t *SupportTicket) OwnedBy(p *types.Principal) bool {
	if t == nil || p == nil {
		return false
	}
	ownerType, ok := p.Owner()
	if !ok {
		return false
	}
	return t.OwnerType == ownerType && t.OwnerID == p.ID
}
