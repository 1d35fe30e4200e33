package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/webhooklog"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	stripeplatform "github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/platform/stripe"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/apperr"
	cfgpkg "github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/config"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/logctx"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/tool"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"github.com/samber/lo"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service consumes signed Stripe events and applies them to local
// Subscription and Payment rows. Delivery is at-least-once: every handler
// tolerates duplicates, keyed on the processor ids.
type Service struct {
	db      *gorm.DB
	cfg     *cfgpkg.Config
	log     *zap.SugaredLogger
	charges stripeplatform.ChargeDetailFetcher
	audit   *webhooklog.Service
}

func NewService(db *gorm.DB, cfg *cfgpkg.Config, log *zap.SugaredLogger, charges stripeplatform.ChargeDetailFetcher, audit *webhooklog.Service) *Service {
	return &Service{db: db, cfg: cfg, log: log, charges: charges, audit: audit}
}

// HandleEvent verifies the signature over the raw payload bytes, then
// dispatches by event type. Signature verification runs before any payload
// parsing. Unrecognized event types are acknowledged, handler failures
// propagate so the processor retries.
func (s *Service) HandleEvent(ctx context.Context, payload []byte, sigHeader string) (resErr error) {
	if sigHeader == "" {
		return apperr.Validation("missing stripe-signature header")
	}
	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.Stripe.WebhookSecret)
	if err != nil {
		return apperr.Validation("webhook signature verification failed")
	}

	lg := logctx.FromCtx(ctx, s.log)
	traceID := logctx.TraceID(ctx)

	s.audit.Save(ctx, &models.WebhookEventLog{
		StripeEventID: event.ID,
		EventType:     string(event.Type),
		TraceID:       traceID,
		Data:          datatypes.JSON(payload),
		Status:        models.WebhookEventLogStatusReceived,
	})

	defer func() {
		status := models.WebhookEventLogStatusHandled
		result := map[string]any{}
		if resErr != nil {
			status = models.WebhookEventLogStatusHandleFailed
			result["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(result)
		res := datatypes.JSON(resBytes)
		s.audit.Save(ctx, &models.WebhookEventLog{
			StripeEventID: event.ID,
			EventType:     string(event.Type),
			TraceID:       traceID,
			Data:          datatypes.JSON(payload),
			Result:        &res,
			Status:        status,
		})
	}()

	switch event.Type {
	case "invoice.payment_succeeded":
		resErr = s.handleInvoicePaymentSucceeded(ctx, &event)
	case "invoice.payment_failed":
		resErr = s.handleInvoicePaymentFailed(ctx, &event)
	case "customer.subscription.updated":
		resErr = s.handleSubscriptionUpdated(ctx, &event)
	case "customer.subscription.deleted":
		resErr = s.handleSubscriptionDeleted(ctx, &event)
	case "customer.subscription.created":
		// Creation belongs to the purchase flow; reacting here would race
		// it into duplicate rows.
		lg.Infow("webhook_subscription_created_ignored", "event_id", event.ID)
	default:
		lg.Infow("webhook_event_ignored", "event_id", event.ID, "type", event.Type)
	}

	if resErr != nil {
		lg.Errorw("webhook_handle_error", "event_id", event.ID, "type", event.Type, "error", resErr.Error())
	}
	return resErr
}

// handleInvoicePaymentSucceeded applies a successful invoice payment
// exactly once, keyed on the payment-intent id.
func (s *Service) handleInvoicePaymentSucceeded(ctx context.Context, event *stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}
	lg := logctx.FromCtx(ctx, s.log)

	if inv.Subscription == nil || inv.Subscription.ID == "" {
		lg.Infow("invoice without subscription, skipping", "event_id", event.ID)
		return nil
	}
	sub, err := s.loadSubscription(ctx, inv.Subscription.ID)
	if err != nil {
		return err
	}
	if sub == nil {
		lg.Infow("subscription not known locally yet, skipping", "stripe_subscription_id", inv.Subscription.ID)
		return nil
	}

	if inv.PaymentIntent == nil || inv.PaymentIntent.ID == "" {
		lg.Infow("invoice without payment intent, skipping", "event_id", event.ID)
		return nil
	}
	intentID := inv.PaymentIntent.ID

	var existing models.Payment
	err = s.db.WithContext(ctx).Where("stripe_payment_intent_id = ?", intentID).First(&existing).Error
	switch {
	case err == nil:
		if existing.Status == types.PaymentStatusSucceeded {
			lg.Infow("payment already succeeded, skipping", "stripe_payment_intent_id", intentID)
			return nil
		}
		paidAt := paidAtFromInvoice(&inv)
		res := s.db.WithContext(ctx).Model(&models.Payment{}).
			Where("stripe_payment_intent_id = ? AND status <> ?", intentID, types.PaymentStatusSucceeded).
			Updates(map[string]any{"status": types.PaymentStatusSucceeded, "paid_at": paidAt})
		if res.Error != nil {
			return fmt.Errorf("failed to mark payment succeeded: %w", res.Error)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.insertSucceededPayment(ctx, sub, &inv, intentID)
	default:
		return fmt.Errorf("failed to look up payment: %w", err)
	}
}

func (s *Service) insertSucceededPayment(ctx context.Context, sub *models.Subscription, inv *stripe.Invoice, intentID string) error {
	detail, err := s.charges.FetchChargeDetail(ctx, intentID)
	if err != nil {
		return apperr.Upstream("failed to fetch charge detail", err)
	}

	paidAt := paidAtFromInvoice(inv)
	payment := &models.Payment{
		ID:                    tool.GenerateUUIDV7(),
		SubscriptionID:        sub.ID,
		StripeSubscriptionID:  sub.StripeSubscriptionID,
		StripePaymentIntentID: intentID,
		AmountCents:           inv.AmountPaid,
		Currency:              string(inv.Currency),
		Status:                types.PaymentStatusSucceeded,
		Description:           inv.Description,
		PaymentMethodBrand:    detail.CardBrand,
		PaymentMethodLast4:    detail.CardLast4,
		PaymentType:           "subscription",
		PaidAt:                &paidAt,
		OwnerType:             sub.OwnerType,
		OwnerID:               sub.OwnerID,
	}
	if detail.ChargeID != "" {
		payment.StripeChargeID = &detail.ChargeID
	}

	// The unique index on stripe_payment_intent_id absorbs concurrent
	// redeliveries; a conflicting insert is a no-op.
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_payment_intent_id"}},
		DoNothing: true,
	}).Create(payment)
	if res.Error != nil {
		return fmt.Errorf("failed to insert payment: %w", res.Error)
	}
	return nil
}

// handleInvoicePaymentFailed marks the subscription past_due and the
// matching pending payment failed. A succeeded payment never regresses.
func (s *Service) handleInvoicePaymentFailed(ctx context.Context, event *stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}
	lg := logctx.FromCtx(ctx, s.log)

	if inv.Subscription != nil && inv.Subscription.ID != "" {
		res := s.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("stripe_subscription_id = ?", inv.Subscription.ID).
			Update("status", types.SubscriptionStatusPastDue)
		if res.Error != nil {
			return fmt.Errorf("failed to mark subscription past_due: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			lg.Infow("payment_failed for unknown subscription", "stripe_subscription_id", inv.Subscription.ID)
		}
	}

	if inv.PaymentIntent != nil && inv.PaymentIntent.ID != "" {
		res := s.db.WithContext(ctx).Model(&models.Payment{}).
			Where("stripe_payment_intent_id = ? AND status <> ?", inv.PaymentIntent.ID, types.PaymentStatusSucceeded).
			Update("status", types.PaymentStatusFailed)
		if res.Error != nil {
			return fmt.Errorf("failed to mark payment failed: %w", res.Error)
		}
	}
	return nil
}

// handleSubscriptionUpdated copies the processor's view of the
// subscription onto the local row.
func (s *Service) handleSubscriptionUpdated(ctx context.Context, event *stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}
	sub, err := s.loadSubscription(ctx, stripeSub.ID)
	if err != nil {
		return err
	}
	if sub == nil {
		logctx.FromCtx(ctx, s.log).Infow("subscription.updated for unknown subscription", "stripe_subscription_id", stripeSub.ID)
		return nil
	}

	sub.Status = types.SubscriptionStatus(stripeSub.Status)
	sub.CancelAtPeriodEnd = stripeSub.CancelAtPeriodEnd
	if stripeSub.CurrentPeriodStart > 0 {
		sub.CurrentPeriodStart = lo.ToPtr(time.Unix(stripeSub.CurrentPeriodStart, 0))
	}
	if stripeSub.CurrentPeriodEnd > 0 {
		sub.CurrentPeriodEnd = lo.ToPtr(time.Unix(stripeSub.CurrentPeriodEnd, 0))
	}
	if stripeSub.CanceledAt > 0 {
		sub.CanceledAt = lo.ToPtr(time.Unix(stripeSub.CanceledAt, 0))
	}
	if stripeSub.Items != nil && len(stripeSub.Items.Data) > 0 && stripeSub.Items.Data[0].Price != nil {
		if plan := s.cfg.GetPlanByStripePriceID(stripeSub.Items.Data[0].Price.ID); plan != nil {
			sub.PlanID = plan.ID
		}
	}

	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, event *stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSub.ID).
		Updates(map[string]any{"status": types.SubscriptionStatusCanceled, "canceled_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to cancel subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		logctx.FromCtx(ctx, s.log).Infow("subscription.deleted for unknown subscription", "stripe_subscription_id", stripeSub.ID)
	}
	return nil
}

func (s *Service) loadSubscription(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("stripe_subscription_id = ?", stripeSubscriptionID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// paidAtFromInvoice prefers the invoice's own paid transition timestamp,
// falling back to now for events that omit it.
func paidAtFromInvoice(inv *stripe.Invoice) time.Time {
	if inv.StatusTransitions != nil && inv.StatusTransitions.PaidAt > 0 {
		return time.Unix(inv.StatusTransitions.PaidAt, 0)
	}
	return time.Now()
}
