package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/apperr"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns the durable platform settings record. There is no process
// state: Get reads the row on every call and Update rewrites it under a
// row lock, so multiple instances stay consistent.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// UpdateRequest is the closed settings schema. Nil fields are left
// untouched; unknown JSON keys are rejected at the API boundary.
type UpdateRequest struct {
	EmailNotificationsEnabled *bool   `json:"email_notifications_enabled"`
	SupportInboxEmail         *string `json:"support_inbox_email"`
	SessionTimeoutMinutes     *int    `json:"session_timeout_minutes"`
	MaintenanceMode           *bool   `json:"maintenance_mode"`
}

func defaultSettings() *models.PlatformSettings {
	return &models.PlatformSettings{
		ID:                        models.PlatformSettingsID,
		EmailNotificationsEnabled: true,
		SessionTimeoutMinutes:     60,
	}
}

// Get loads the settings row, creating the default record on first use.
func (s *Service) Get(ctx context.Context) (*models.PlatformSettings, error) {
	var row models.PlatformSettings
	err := s.db.WithContext(ctx).Where("id = ?", models.PlatformSettingsID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = *defaultSettings()
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to seed platform settings: %w", err)
		}
		return &row, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load platform settings: %w", err)
	}
	return &row, nil
}

// Update applies the non-nil fields under a single-writer transaction and
// returns the stored record.
func (s *Service) Update(ctx context.Context, req *UpdateRequest) (*models.PlatformSettings, error) {
	if req == nil {
		return nil, apperr.Validation("empty settings payload")
	}
	if req.SessionTimeoutMinutes != nil && *req.SessionTimeoutMinutes <= 0 {
		return nil, apperr.Validation("session_timeout_minutes must be positive")
	}

	var row models.PlatformSettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Seed before locking so a first-ever Update has a row to write to.
		// A column map goes through the update path, which writes false/zero
		// values that a create would lose to the column defaults.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(defaultSettings()).Error; err != nil {
			return fmt.Errorf("failed to seed platform settings: %w", err)
		}

		q := tx.Where("id = ?", models.PlatformSettingsID)
		// sqlite (tests) has no SELECT ... FOR UPDATE; its writes serialize anyway.
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&row).Error; err != nil {
			return fmt.Errorf("failed to load platform settings: %w", err)
		}

		cols := map[string]any{}
		if req.EmailNotificationsEnabled != nil {
			cols["email_notifications_enabled"] = *req.EmailNotificationsEnabled
		}
		if req.SupportInboxEmail != nil {
			cols["support_inbox_email"] = *req.SupportInboxEmail
		}
		if req.SessionTimeoutMinutes != nil {
			cols["session_timeout_minutes"] = *req.SessionTimeoutMinutes
		}
		if req.MaintenanceMode != nil {
			cols["maintenance_mode"] = *req.MaintenanceMode
		}
		if len(cols) == 0 {
			return nil
		}

		if err := tx.Model(&row).Updates(cols).Error; err != nil {
			return fmt.Errorf("failed to save platform settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}
