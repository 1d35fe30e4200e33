package models

import (
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"
)

// Payment records one processor charge attempt. StripePaymentIntentID is
// unique: redelivered events update the existing row, never insert a
// second one.
type Payment struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;not null;index" json:"subscription_id"`

	StripeSubscriptionID  string  `gorm:"column:stripe_subscription_id;type:varchar(255);not null;index" json:"stripe_subscription_id"`
	StripePaymentIntentID string  `gorm:"column:stripe_payment_intent_id;type:varchar(255);not null;uniqueIndex" json:"stripe_payment_intent_id"`
	StripeChargeID        *string `gorm:"column:stripe_charge_id;type:varchar(255)" json:"stripe_charge_id,omitempty"`

	AmountCents int64               `gorm:"column:amount_cents;type:bigint;not null" json:"amount_cents"`
	Currency    string              `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Status      types.PaymentStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	Description string              `gorm:"column:description;type:text" json:"description"`

	PaymentMethodBrand string `gorm:"column:payment_method_brand;type:varchar(32);not null;default:'N/A'" json:"payment_method_brand"`
	PaymentMethodLast4 string `gorm:"column:payment_method_last4;type:varchar(8);not null;default:'N/A'" json:"payment_method_last4"`
	PaymentType        string `gorm:"column:payment_type;type:varchar(32)" json:"payment_type"`

	PaidAt *time.Time `gorm:"column:paid_at;default:null" json:"paid_at"`

	OwnerType types.OwnerType `gorm:"column:owner_type;type:varchar(16);index:idx_payment_owner,priority:1" json:"owner_type"`
	OwnerID   string          `gorm:"column:owner_id;type:uuid;index:idx_payment_owner,priority:2" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
