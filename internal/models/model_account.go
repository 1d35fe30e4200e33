package models

import (
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"
)

// Account is the local directory record for a principal (admin, clinic or
// therapist). Authentication lives in the identity provider; this row only
// backs display-name/email resolution and owner lookups.
type Account struct {
	ID    string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Type  types.ActorType `gorm:"column:type;type:varchar(16);not null;index" json:"type"`
	Name  string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email string          `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`

	StripeCustomerID *string `gorm:"column:stripe_customer_id;type:varchar(255);index" json:"stripe_customer_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
