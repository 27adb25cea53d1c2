package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog stores ERROR+ log records so failed report operations can be
// inspected after the fact. Well-known slog keys get their own columns;
// everything else lands in Extra.
type SystemLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	RequestID string         `gorm:"size:36;index" json:"request_id,omitempty"`
	UserID    *string        `gorm:"size:36" json:"user_id,omitempty"`
	ReportID  *uint          `gorm:"index" json:"report_id,omitempty"`
	Action    string         `gorm:"size:32" json:"action,omitempty"`
	Method    string         `gorm:"size:8" json:"method,omitempty"`
	Path      string         `gorm:"size:255" json:"path,omitempty"`
	Error     string         `gorm:"type:text" json:"error,omitempty"`
	Extra     datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra"`
}
