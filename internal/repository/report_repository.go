package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepository implements ReportStore and ReportFinder on GORM.
//
// Writes carry no version check: two saves of the same report, or an
// approval racing a save, resolve last-write-wins.
type ReportRepository struct {
	db *gorm.DB
}

var (
	_ ReportStore  = (*ReportRepository)(nil)
	_ ReportFinder = (*ReportRepository)(nil)
)

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) LoadReport(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load report %d: %w", id, err)
	}
	return &report, nil
}

func (r *ReportRepository) LoadTimestamp(ctx context.Context, id uint) (*models.TimestampEntry, error) {
	var ts models.TimestampEntry
	if err := r.db.WithContext(ctx).First(&ts, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load timestamp %d: %w", id, err)
	}
	return &ts, nil
}

func (r *ReportRepository) SaveAll(ctx context.Context, report *models.Report, ts *models.TimestampEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ts != nil {
			if err := tx.Save(ts).Error; err != nil {
				return fmt.Errorf("save timestamp: %w", err)
			}
			id := ts.ID
			report.DateID = &id
		}
		if err := tx.Omit(clause.Associations).Save(report).Error; err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		return nil
	})
}

func (r *ReportRepository) DeleteAll(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Report{}, report.ID).Error; err != nil {
			return fmt.Errorf("delete report: %w", err)
		}
		if report.DateID != nil {
			if err := tx.Delete(&models.TimestampEntry{}, *report.DateID).Error; err != nil {
				return fmt.Errorf("delete timestamp: %w", err)
			}
		}
		return nil
	})
}

func (r *ReportRepository) FindReport(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.withRelations(r.db.WithContext(ctx)).First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find report %d: %w", id, err)
	}
	return &report, nil
}

func (r *ReportRepository) FindReports(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Report{}).
		Scopes(WithStatuses(filter.Statuses), ForOwner(filter.OwnerID)).
		Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	query = r.withRelations(query).Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("find reports: %w", err)
	}
	return reports, total, nil
}

func (r *ReportRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("TimestampEntry").Preload("Category")
}
