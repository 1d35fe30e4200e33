package models

import (
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"
)

// SupportMessage is one entry in a ticket's append-only thread. Rows are
// immutable once created except for the IsRead flag, which flips when the
// counterparty acknowledges the thread.
type SupportMessage struct {
	ID        string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SupportID string `gorm:"column:support_id;type:uuid;not null;index" json:"support_id"`

	SenderType  types.SenderType `gorm:"column:sender_type;type:varchar(16);not null;index" json:"sender_type"`
	SenderID    string           `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	SenderName  string           `gorm:"column:sender_name;type:varchar(255);not null" json:"sender_name"`
	SenderEmail string           `gorm:"column:sender_email;type:varchar(255);not null" json:"sender_email"`

	Message string `gorm:"column:message;type:text;not null" json:"message"`
	IsRead  bool   `gorm:"column:is_read;not null;default:false;index" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SupportMessage) TableName() string {
	return "support_messages"
}
