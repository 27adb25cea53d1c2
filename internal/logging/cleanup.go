package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"gorm.io/gorm"
)

const (
	defaultRetentionDays = 30
	cleanupInterval      = 24 * time.Hour
)

// StartCleanup purges system_logs older than retentionDays once at startup
// and then daily until ctx is cancelled.
func StartCleanup(ctx context.Context, db *gorm.DB, retentionDays int) {
	if retentionDays < 1 {
		retentionDays = defaultRetentionDays
	}

	purge := func() {
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		deleted, err := purgeBefore(db, cutoff)
		if err != nil {
			slog.Warn("log cleanup failed", "error", err.Error())
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted, "retention_days", retentionDays)
		}
	}

	go func() {
		purge()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				purge()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func purgeBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
