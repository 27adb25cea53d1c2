package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
)

// SaveReportRequest is the report form. Action is "draft" or "submit".
// GeometryGeoJSON, when set, is stored verbatim instead of Latitude/Longitude.
type SaveReportRequest struct {
	Action          string   `json:"action"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	HeightInFeet    *float64 `json:"height_in_feet"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	GeometryGeoJSON string   `json:"geometry_geojson"`
}

func (r *SaveReportRequest) Fields() lifecycle.Fields {
	return lifecycle.Fields{
		Title:           r.Title,
		Description:     r.Description,
		HeightInFeet:    r.HeightInFeet,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		GeometryGeoJSON: r.GeometryGeoJSON,
	}
}

type SaveReportResponse struct {
	ReportID uint          `json:"report_id"`
	StatusID models.Status `json:"status_id"`
	Status   string        `json:"status"`
	Created  bool          `json:"created"`
}

// ValidationErrorResponse echoes the submitted fields so the form can be
// shown again unchanged.
type ValidationErrorResponse struct {
	Error   bool                  `json:"error"`
	Message string                `json:"message"`
	Errors  lifecycle.FieldErrors `json:"errors"`
	Fields  lifecycle.Fields      `json:"fields"`
}

type DecisionRequest struct {
	Feedback string `json:"feedback"`
}

type DecisionResponse struct {
	ReportID       uint          `json:"report_id"`
	StatusID       models.Status `json:"status_id"`
	Status         string        `json:"status"`
	PreviousStatus string        `json:"previous_status"`
}

type AssignResponse struct {
	ReportID   uint      `json:"report_id"`
	AssignedTo string    `json:"assigned_to"`
	AssignedAt time.Time `json:"assigned_at"`
}

// ActiveReportRow is one line of the registrar's pending queue.
type ActiveReportRow struct {
	ReportID  uint       `json:"report_id"`
	Title     string     `json:"title"`
	Position  string     `json:"position"`
	Height    string     `json:"height"`
	CreatedBy string     `json:"created_by"`
	CreatedAt *time.Time `json:"created_at"`
	Status    string     `json:"status"`
}

type ActiveReportList struct {
	Reports    []ActiveReportRow `json:"reports"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ArchiveRow is the detailed view of a report.
type ArchiveRow struct {
	ReportID     uint       `json:"report_id"`
	Title        string     `json:"title"`
	Pilot        string     `json:"pilot"`
	StatusID     int        `json:"status_id"`
	Status       string     `json:"status"`
	Category     string     `json:"category,omitempty"`
	HeightInFeet *float64   `json:"height_in_feet"`
	Description  string     `json:"description,omitempty"`
	Position     string     `json:"position"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Feedback     string     `json:"feedback,omitempty"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	AssignedAt   *time.Time `json:"assigned_at"`
	DecisionAt   *time.Time `json:"decision_at"`
}

type ArchiveList struct {
	Reports    []ArchiveRow `json:"reports"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}
