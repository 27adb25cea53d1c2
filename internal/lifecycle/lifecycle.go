// Package lifecycle holds the report state machine: which actions are allowed
// from which status, what each action validates, and what it changes.
//
//	none/Draft --draft--> Draft
//	none/Draft --submit--> Pending
//	Pending --approve--> Approved
//	Pending --reject--> Rejected
//	Draft --delete--> (removed)
//
// Approve and reject overwrite the status of any submitted report, not only a
// Pending one. Callers rely on re-approval succeeding. Drafts belong to their
// pilot until submitted and cannot be decided.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
)

type Action string

const (
	ActionDraft   Action = "draft"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
)

// ParseSaveAction accepts the two actions a report form can carry.
func ParseSaveAction(s string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionDraft:
		return ActionDraft, true
	case ActionSubmit:
		return ActionSubmit, true
	default:
		return "", false
	}
}

var (
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrReportMissing        = errors.New("report does not exist")
	ErrUnknownAction        = errors.New("unknown action")
)

// Decision is the outcome of Decide. Zero-valued flags mean "leave as is".
type Decision struct {
	Next               models.Status
	ApplyFields        bool
	SetDefaultCategory bool
	TouchTimestamp     bool
	RecordDecision     bool
	Delete             bool
}

// Decide returns what action does to a report currently in status current.
// models.StatusNone stands for a report that does not exist yet. A
// *ValidationError means the submitted fields were rejected and nothing may
// be written.
func Decide(current models.Status, action Action, fields Fields) (Decision, error) {
	switch action {
	case ActionDraft, ActionSubmit:
		if current != models.StatusNone && current != models.StatusDraft {
			return Decision{}, fmt.Errorf("%w: cannot %s a %s report", ErrTransitionNotAllowed, action, current)
		}
		if errs := Validate(action, fields); len(errs) > 0 {
			return Decision{}, &ValidationError{Action: action, Errors: errs, Fields: fields}
		}
		next := models.StatusDraft
		if action == ActionSubmit {
			next = models.StatusPending
		}
		return Decision{
			Next:               next,
			ApplyFields:        true,
			SetDefaultCategory: action == ActionSubmit,
			TouchTimestamp:     true,
		}, nil

	case ActionApprove, ActionReject:
		if current == models.StatusNone {
			return Decision{}, ErrReportMissing
		}
		if current == models.StatusDraft {
			return Decision{}, fmt.Errorf("%w: cannot %s a %s report", ErrTransitionNotAllowed, action, current)
		}
		next := models.StatusApproved
		if action == ActionReject {
			next = models.StatusRejected
		}
		return Decision{Next: next, RecordDecision: true}, nil

	case ActionDelete:
		if current == models.StatusNone {
			return Decision{}, ErrReportMissing
		}
		if current != models.StatusDraft {
			return Decision{}, fmt.Errorf("%w: cannot delete a %s report", ErrTransitionNotAllowed, current)
		}
		return Decision{Next: models.StatusNone, Delete: true}, nil
	}

	return Decision{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// Apply writes the form fields, the new status and the timestamps chosen by d.
// Location and category are left to the caller.
func Apply(d Decision, report *models.Report, ts *models.TimestampEntry, fields Fields, now time.Time) {
	if d.ApplyFields {
		report.Title = strings.TrimSpace(fields.Title)
		report.Description = fields.Description
		report.HeightInFeet = fields.HeightInFeet
	}
	if d.Next != models.StatusNone {
		report.StatusID = d.Next
	}
	if d.TouchTimestamp && ts != nil {
		if ts.DateCreated == nil {
			created := now
			ts.DateCreated = &created
		}
		changed := now
		ts.DateOfLastChange = &changed
	}
}
