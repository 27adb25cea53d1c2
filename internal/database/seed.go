package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/geo"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedLookups inserts the status and category rows. Existing rows are left
// alone so the job can run on every start.
func SeedLookups(db *gorm.DB) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(models.StatusSeeds()).Error; err != nil {
		return fmt.Errorf("seed statuses: %w", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(models.CategorySeeds()).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}

type demoUser struct {
	username string
	email    string
	role     models.Role
}

var demoUsers = []demoUser{
	{username: "admin", email: "admin@example.com", role: models.RoleAdmin},
	{username: "registrar", email: "registrar@example.com", role: models.RoleRegistrar},
	{username: "pilot", email: "pilot@example.com", role: models.RolePilot},
}

// SeedDemo creates one user per role, all with password, and a pending
// report owned by the pilot. It does nothing once the pilot exists.
func SeedDemo(db *gorm.DB, password string) error {
	var existing models.User
	err := db.Where("username = ?", "pilot").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check demo users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var pilotID uuid.UUID
		for _, u := range demoUsers {
			user := models.User{
				ID:       uuid.New(),
				Username: u.username,
				Email:    u.email,
				Password: string(hash),
				Role:     u.role,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("create demo user %s: %w", u.username, err)
			}
			if u.role == models.RolePilot {
				pilotID = user.ID
			}
		}

		now := time.Now()
		ts := models.TimestampEntry{DateCreated: &now, DateOfLastChange: &now}
		if err := tx.Create(&ts).Error; err != nil {
			return fmt.Errorf("create demo timestamp: %w", err)
		}

		location, err := geo.Encode(58.164048, 8.004177)
		if err != nil {
			return err
		}
		height := 150.0
		category := models.DefaultCategoryID
		report := models.Report{
			UserID:       pilotID,
			Title:        "Crane near harbour",
			Description:  "Mobile crane, lit at night.",
			HeightInFeet: &height,
			GeoLocation:  &location,
			StatusID:     models.StatusPending,
			CategoryID:   &category,
			DateID:       &ts.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&report).Error; err != nil {
			return fmt.Errorf("create demo report: %w", err)
		}

		slog.Info("demo data seeded", "users", len(demoUsers), "report_id", report.ID)
		return nil
	})
}
