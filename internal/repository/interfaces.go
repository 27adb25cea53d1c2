// Package repository persists reports and their timestamps.
package repository

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a report or timestamp does not exist.
var ErrNotFound = errors.New("record not found")

// ReportStore is the write side used by the report workflow.
type ReportStore interface {
	LoadReport(ctx context.Context, id uint) (*models.Report, error)
	LoadTimestamp(ctx context.Context, id uint) (*models.TimestampEntry, error)
	// SaveAll writes the report and its timestamp in one transaction. A new
	// timestamp is inserted first so the report can reference it.
	SaveAll(ctx context.Context, report *models.Report, ts *models.TimestampEntry) error
	// DeleteAll removes the report together with its timestamp.
	DeleteAll(ctx context.Context, report *models.Report) error
}

// ReportFilter narrows report listings. Zero values mean "no filter".
type ReportFilter struct {
	Statuses []models.Status
	OwnerID  *uuid.UUID
	Limit    int
	Offset   int
}

// ReportFinder is the read side used by listings; results carry their
// submitter, timestamp and category.
type ReportFinder interface {
	FindReport(ctx context.Context, id uint) (*models.Report, error)
	FindReports(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error)
}
