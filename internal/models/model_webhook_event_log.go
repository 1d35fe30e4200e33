package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
)

// WebhookEventLog is the audit trail of processor webhook deliveries. One
// "received" row is written on arrival and one terminal row after dispatch;
// both carry the raw event payload.
type WebhookEventLog struct {
	ID            string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	StripeEventID string                `gorm:"column:stripe_event_id;type:varchar(255);not null;index" json:"stripe_event_id"`
	EventType     string                `gorm:"column:event_type;type:varchar(128);not null;index" json:"event_type"`
	TraceID       string                `gorm:"column:trace_id;type:varchar(64)" json:"trace_id"`
	Data          datatypes.JSON        `gorm:"column:data;type:jsonb;default:'{}'" json:"data"`
	Result        *datatypes.JSON       `gorm:"column:result;type:jsonb" json:"result,omitempty"`
	Status        WebhookEventLogStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WebhookEventLog) TableName() string {
	return "webhook_event_logs"
}
