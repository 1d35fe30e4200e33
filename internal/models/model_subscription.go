package models

import (
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"gorm.io/datatypes"
)

// Subscription mirrors a Stripe subscription for a clinic or therapist
// account. StripeSubscriptionID is the idempotency key correlating
// processor events to this row.
type Subscription struct {
	ID        string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerType types.OwnerType `gorm:"column:owner_type;type:varchar(16);not null;index:idx_subscription_owner,priority:1" json:"owner_type"`
	OwnerID   string          `gorm:"column:owner_id;type:uuid;not null;index:idx_subscription_owner,priority:2" json:"owner_id"`

	StripeSubscriptionID string `gorm:"column:stripe_subscription_id;type:varchar(255);not null;uniqueIndex" json:"stripe_subscription_id"`
	StripeCustomerID     string `gorm:"column:stripe_customer_id;type:varchar(255);not null;index" json:"stripe_customer_id"`
	PlanID               string `gorm:"column:plan_id;type:varchar(64);not null" json:"plan_id"`

	Status             types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CurrentPeriodStart *time.Time               `gorm:"column:current_period_start;default:null" json:"current_period_start"`
	CurrentPeriodEnd   *time.Time               `gorm:"column:current_period_end;default:null" json:"current_period_end"`
	CancelAtPeriodEnd  bool                     `gorm:"column:cancel_at_period_end;not null;default:false" json:"cancel_at_period_end"`
	CanceledAt         *time.Time               `gorm:"column:canceled_at;default:null" json:"canceled_at"`

	// Extra stores additional JSON data (for example promotion details).
	Extra datatypes.JSON `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) Active() bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusActive &&
		s.CurrentPeriodEnd != nil &&
		s.CurrentPeriodEnd.After(time.Now())
}
