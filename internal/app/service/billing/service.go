package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/apperr"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service serves owner-facing subscription/payment reads and the admin
// payment listing.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// GetMySubscription returns the caller's subscription row.
func (s *Service) GetMySubscription(ctx context.Context, p *types.Principal) (*models.Subscription, error) {
	ownerType, ok := p.Owner()
	if !ok {
		return nil, apperr.Forbidden("only clinic and therapist accounts hold subscriptions")
	}
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, p.ID).
		Order("created_at desc").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("no subscription found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// ListMyPayments returns the caller's payments, newest first.
func (s *Service) ListMyPayments(ctx context.Context, p *types.Principal) ([]*models.Payment, error) {
	ownerType, ok := p.Owner()
	if !ok {
		return nil, apperr.Forbidden("only clinic and therapist accounts hold payments")
	}
	var rows []*models.Payment
	err := s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, p.ID).
		Order("created_at desc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return rows, nil
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.Payment `json:"items"`
	Total int64             `json:"total"`
}

// ScanPayments implements paginated/admin listing with filters.
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, apperr.Validation("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Payment{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	var rows []*models.Payment
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}

type RevenueBucket struct {
	Day        string `json:"day"`
	Count      int64  `json:"count"`
	GrossCents int64  `json:"gross_cents"`
}

type RevenueStatistics struct {
	Daily      []*RevenueBucket `json:"daily"`
	TotalCents int64            `json:"total_cents"`
}

// RevenueStats aggregates succeeded payments per day over [from, to).
func (s *Service) RevenueStats(ctx context.Context, from, to string) (*RevenueStatistics, error) {
	q := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("date(paid_at) as day, count(*) as count, sum(amount_cents) as gross_cents").
		Where("status = ?", types.PaymentStatusSucceeded).
		Group("date(paid_at)").Order("day asc")
	if from != "" {
		q = q.Where("paid_at >= ?", from)
	}
	if to != "" {
		q = q.Where("paid_at < ?", to)
	}

	var buckets []*RevenueBucket
	if err := q.Scan(&buckets).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	return &RevenueStatistics{
		Daily:      buckets,
		TotalCents: lo.SumBy(buckets, func(b *RevenueBucket) int64 { return b.GrossCents }),
	}, nil
}
