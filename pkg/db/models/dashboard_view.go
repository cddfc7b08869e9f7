package models

import (
	"time"

	"github.com/google/uuid"
)

// DashboardView is a saved growth-map preset for an admin user.
type DashboardView struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"column:name;not null"`
	Division         string    `gorm:"column:division"`
	TimeframeMonths  int       `gorm:"column:timeframe_months;not null;default:6"`
	PlaybackSpeedMS  int       `gorm:"column:playback_speed_ms;not null;default:500"`
	CreatedByEmail   string    `gorm:"column:created_by_email;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by GORM.
func (DashboardView) TableName() string {
	return "dashboard_views"
}
