package models

import "time"

// PlatformSettings is the single durable configuration record shared by
// all process instances. It replaces in-memory settings state: every read
// loads this row, every update writes it back under a row lock. The schema
// is closed; the API layer rejects unknown keys.
type PlatformSettings struct {
	ID string `gorm:"column:id;type:varchar(32);primary_key" json:"id"`

	// Notification settings.
	EmailNotificationsEnabled bool   `gorm:"column:email_notifications_enabled;not null;default:true" json:"email_notifications_enabled"`
	SupportInboxEmail         string `gorm:"column:support_inbox_email;type:varchar(255);not null;default:''" json:"support_inbox_email"`

	// Security settings.
	SessionTimeoutMinutes int  `gorm:"column:session_timeout_minutes;not null;default:60" json:"session_timeout_minutes"`
	MaintenanceMode       bool `gorm:"column:maintenance_mode;not null;default:false" json:"maintenance_mode"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PlatformSettings) TableName() string {
	return "platform_settings"
}

// PlatformSettingsID is the fixed key of the singleton row.
const PlatformSettingsID = "default"
