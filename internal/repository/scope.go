package repository

import (
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForOwner returns a GORM scope that filters by submitter; nil matches all.
func ForOwner(ownerID *uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == nil {
			return db
		}
		return db.Where("user_id = ?", *ownerID)
	}
}

// WithStatuses returns a GORM scope that filters by status codes; empty
// matches all.
func WithStatuses(statuses []models.Status) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(statuses) == 0 {
			return db
		}
		return db.Where("status_id IN ?", statuses)
	}
}
