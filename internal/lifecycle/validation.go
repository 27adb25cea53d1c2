package lifecycle

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxHeightInFeet      = 50000
)

// Fields are the values submitted with a report form.
type Fields struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	HeightInFeet    *float64 `json:"height_in_feet"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	GeometryGeoJSON string   `json:"geometry_geojson"`
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

// ValidationError carries the rejected fields back so the form can be shown
// again with the user's input.
type ValidationError struct {
	Action Action
	Errors FieldErrors
	Fields Fields
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Errors[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks fields for action. Bounds apply to any value that is
// present; submit additionally requires a height.
func Validate(action Action, f Fields) FieldErrors {
	errs := FieldErrors{}

	title := strings.TrimSpace(f.Title)
	switch {
	case title == "":
		errs["title"] = "Title is required."
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs["title"] = "Obstacle name cannot be longer than 100 characters."
	}

	if utf8.RuneCountInString(f.Description) > MaxDescriptionLength {
		errs["description"] = "Description cannot be longer than 1000 characters."
	}

	if f.HeightInFeet == nil {
		if action == ActionSubmit {
			errs["height_in_feet"] = "Height is required to submit a report."
		}
	} else if h := *f.HeightInFeet; math.IsNaN(h) || h < 0 || h > MaxHeightInFeet {
		errs["height_in_feet"] = "Height must be between 0 and 50,000 feet."
	}

	if math.IsNaN(f.Latitude) || f.Latitude < -90 || f.Latitude > 90 {
		errs["latitude"] = "Latitude must be between -90 and 90."
	}
	if math.IsNaN(f.Longitude) || f.Longitude < -180 || f.Longitude > 180 {
		errs["longitude"] = "Longitude must be between -180 and 180."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
