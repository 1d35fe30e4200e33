package billing

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/apperr"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/tool"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}, &models.Payment{}))
	return NewService(db, zap.NewNop().Sugar()), db
}

func seedPayment(t *testing.T, db *gorm.DB, ownerID string, status types.PaymentStatus, amount int64, paidAt time.Time) *models.Payment {
	t.Helper()
	p := &models.Payment{
		ID:                    tool.GenerateUUIDV7(),
		SubscriptionID:        tool.GenerateUUIDV7(),
		StripeSubscriptionID:  "sub_" + ownerID,
		StripePaymentIntentID: "pi_" + tool.GenerateUUIDV7(),
		AmountCents:           amount,
		Currency:              "usd",
		Status:                status,
		OwnerType:             types.OwnerTypeClinic,
		OwnerID:               ownerID,
	}
	if status == types.PaymentStatusSucceeded {
		p.PaidAt = &paidAt
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGetMySubscription(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	owner := &types.Principal{ID: tool.GenerateUUIDV7(), Type: types.ActorTypeClinic}

	_, err := svc.GetMySubscription(ctx, owner)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.GetMySubscription(ctx, &types.Principal{ID: "x", Type: types.ActorTypeAdmin})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, db.Create(&models.Subscription{
		ID:                   tool.GenerateUUIDV7(),
		OwnerType:            types.OwnerTypeClinic,
		OwnerID:              owner.ID,
		StripeSubscriptionID: "sub_abc",
		StripeCustomerID:     "cus_abc",
		PlanID:               "basic",
		Status:               types.SubscriptionStatusActive,
	}).Error)

	sub, err := svc.GetMySubscription(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "sub_abc", sub.StripeSubscriptionID)

	// A different owner never sees it.
	_, err = svc.GetMySubscription(ctx, &types.Principal{ID: tool.GenerateUUIDV7(), Type: types.ActorTypeClinic})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListMyPayments(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	ownerA := tool.GenerateUUIDV7()
	ownerB := tool.GenerateUUIDV7()
	now := time.Now()

	seedPayment(t, db, ownerA, types.PaymentStatusSucceeded, 4900, now)
	seedPayment(t, db, ownerA, types.PaymentStatusFailed, 4900, now)
	seedPayment(t, db, ownerB, types.PaymentStatusSucceeded, 9900, now)

	rows, err := svc.ListMyPayments(ctx, &types.Principal{ID: ownerA, Type: types.ActorTypeClinic})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, ownerA, r.OwnerID)
	}
}

func TestScanPayments(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	owner := tool.GenerateUUIDV7()
	now := time.Now()

	for i := 0; i < 5; i++ {
		seedPayment(t, db, owner, types.PaymentStatusSucceeded, int64(1000*(i+1)), now)
	}
	seedPayment(t, db, owner, types.PaymentStatusFailed, 500, now)

	res, err := svc.ScanPayments(ctx, &ScanPaymentsRequest{Size: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Total)
	assert.Len(t, res.Items, 3)

	res, err = svc.ScanPayments(ctx, &ScanPaymentsRequest{Size: 10, From: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Total)
	assert.Len(t, res.Items, 2)

	res, err = svc.ScanPayments(ctx, &ScanPaymentsRequest{
		Size:    10,
		Filters: []*types.CommonFilter{{Field: "status", Operator: types.CommonFilterOperatorEq, Values: []any{string(types.PaymentStatusFailed)}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, types.PaymentStatusFailed, res.Items[0].Status)

	res, err = svc.ScanPayments(ctx, &ScanPaymentsRequest{Size: 10, SortBy: "amount_cents", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, res.Items, 6)
	assert.Equal(t, int64(500), res.Items[0].AmountCents)

	_, err = svc.ScanPayments(ctx, nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRevenueStats(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	owner := tool.GenerateUUIDV7()

	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)
	seedPayment(t, db, owner, types.PaymentStatusSucceeded, 1000, day1)
	seedPayment(t, db, owner, types.PaymentStatusSucceeded, 2000, day1)
	seedPayment(t, db, owner, types.PaymentStatusSucceeded, 4000, day2)
	// Failed payments never count toward revenue.
	seedPayment(t, db, owner, types.PaymentStatusFailed, 9999, day1)

	stats, err := svc.RevenueStats(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(7000), stats.TotalCents)
	require.Len(t, stats.Daily, 2)
	assert.Equal(t, int64(2), stats.Daily[0].Count)
	assert.Equal(t, int64(3000), stats.Daily[0].GrossCents)
	assert.Equal(t, int64(4000), stats.Daily[1].GrossCents)

	stats, err = svc.RevenueStats(ctx, "2026-08-02", "")
	require.NoError(t, err)
	assert.Equal(t, int64(4000), stats.TotalCents)

	stats, err = svc.RevenueStats(ctx, "", "2026-08-02")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), stats.TotalCents)
}
