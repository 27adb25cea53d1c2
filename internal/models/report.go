package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is an obstacle report submitted by a pilot and reviewed by a
// registrar. GeoLocation holds the raw location payload text.
type Report struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string          `gorm:"size:100" json:"title"`
	Description      string          `gorm:"size:1000" json:"description,omitempty"`
	HeightInFeet     *float64        `json:"height_in_feet"`
	GeoLocation      *string         `gorm:"type:text" json:"geo_location"`
	StatusID         Status          `gorm:"not null;index" json:"status_id"`
	CategoryID       *int            `json:"category_id"`
	Feedback         string          `gorm:"size:1000" json:"feedback,omitempty"`
	AssignedToUserID *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to_user_id"`
	AssignedAt       *time.Time      `json:"assigned_at"`
	DecisionByUserID *uuid.UUID      `gorm:"type:uuid" json:"decision_by_user_id"`
	DecisionAt       *time.Time      `json:"decision_at"`
	DateID           *uint           `json:"date_id"`
	TimestampEntry   *TimestampEntry `gorm:"foreignKey:DateID" json:"-"`
	Category         *Category       `gorm:"foreignKey:CategoryID" json:"-"`
	User             User            `gorm:"foreignKey:UserID" json:"-"`
}

// OwnedBy reports whether userID submitted the report.
func (r *Report) OwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}
