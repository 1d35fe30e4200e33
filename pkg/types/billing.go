package types

// SubscriptionStatus mirrors the Stripe subscription status verbatim; the
// reconciler copies whatever the processor reports.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusUnpaid   SubscriptionStatus = "unpaid"
)

type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusPending   PaymentStatus = "pending"
)

// SubscriptionPlan is a catalog entry loaded from configuration. The
// Stripe price id correlates processor subscriptions to a local plan.
type SubscriptionPlan struct {
	ID            string `json:"id" mapstructure:"id"`
	Name          string `json:"name" mapstructure:"name"`
	StripePriceID string `json:"stripe_price_id" mapstructure:"stripe_price_id"`
	AmountCents   int64  `json:"amount_cents" mapstructure:"amount_cents"`
	Currency      string `json:"currency" mapstructure:"currency"`
	IntervalDays  int64  `json:"interval_days" mapstructure:"interval_days"`
}
