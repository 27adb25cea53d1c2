package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/actor"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type storeMock struct{ mock.Mock }

var _ repository.ReportStore = (*storeMock)(nil)

func (m *storeMock) LoadReport(ctx context.Context, id uint) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *storeMock) LoadTimestamp(ctx context.Context, id uint) (*models.TimestampEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimestampEntry), args.Error(1)
}

func (m *storeMock) SaveAll(ctx context.Context, report *models.Report, ts *models.TimestampEntry) error {
	return m.Called(ctx, report, ts).Error(0)
}

func (m *storeMock) DeleteAll(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newWorkflow(store *storeMock) *ReportWorkflowService {
	svc := NewReportWorkflowService(store, models.DefaultCategoryID)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func pilot() actor.Actor     { return actor.Actor{UserID: uuid.New(), Role: models.RolePilot} }
func registrar() actor.Actor { return actor.Actor{UserID: uuid.New(), Role: models.RoleRegistrar} }

func ft(v float64) *float64 { return &v }

// assignID imitates the database assigning primary keys on insert.
func assignID(id uint) func(mock.Arguments) {
	return func(args mock.Arguments) {
		report := args.Get(1).(*models.Report)
		if report.ID == 0 {
			report.ID = id
		}
		if ts, ok := args.Get(2).(*models.TimestampEntry); ok && ts != nil {
			if ts.ID == 0 {
				ts.ID = id + 1000
			}
			tsID := ts.ID
			report.DateID = &tsID
		}
	}
}

func TestSubmitNewReport(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)
	a := pilot()

	var saved *models.Report
	var savedTS *models.TimestampEntry
	store.On("SaveAll", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			assignID(42)(args)
			saved = args.Get(1).(*models.Report)
			savedTS = args.Get(2).(*models.TimestampEntry)
		}).Return(nil).Once()

	res, err := svc.SubmitReport(context.Background(), a, nil, lifecycle.Fields{
		Title:        "Crane",
		HeightInFeet: ft(164),
		Latitude:     58.164048,
		Longitude:    8.004177,
	})
	require.NoError(t, err)
	require.Equal(t, &SaveResult{ReportID: 42, Status: models.StatusPending, Created: true}, res)

	require.Equal(t, a.UserID, saved.UserID)
	require.Equal(t, "Crane", saved.Title)
	require.Equal(t, `{"lat":58.164048,"lng":8.004177}`, *saved.GeoLocation)
	require.NotNil(t, saved.CategoryID)
	require.Equal(t, models.DefaultCategoryID, *saved.CategoryID)
	require.Equal(t, fixedNow, *savedTS.DateCreated)
	require.Equal(t, fixedNow, *savedTS.DateOfLastChange)
	store.AssertNumberOfCalls(t, "SaveAll", 1)
}

func TestSubmitWithoutTitleAndHeightWritesNothing(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	fields := lifecycle.Fields{Description: "somewhere", Latitude: 59, Longitude: 10}
	_, err := svc.SubmitReport(context.Background(), pilot(), nil, fields)

	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Errors, "title")
	require.Contains(t, verr.Errors, "height_in_feet")
	require.Equal(t, fields, verr.Fields)
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveDraftWithoutHeight(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)
	a := pilot()

	created := fixedNow.Add(-24 * time.Hour)
	dateID := uint(7)
	existing := &models.Report{ID: 5, UserID: a.UserID, StatusID: models.StatusDraft, DateID: &dateID}
	ts := &models.TimestampEntry{ID: dateID, DateCreated: &created}

	store.On("LoadReport", mock.Anything, uint(5)).Return(existing, nil)
	store.On("LoadTimestamp", mock.Anything, uint(7)).Return(ts, nil)
	store.On("SaveAll", mock.Anything, existing, ts).Return(nil).Once()

	id := uint(5)
	res, err := svc.CreateOrUpdateDraft(context.Background(), a, &id, lifecycle.Fields{Title: "Wind turbine"})
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, res.Status)
	require.False(t, res.Created)
	require.Nil(t, existing.HeightInFeet)
	require.Nil(t, existing.CategoryID)
	require.Equal(t, created, *ts.DateCreated)
	require.Equal(t, fixedNow, *ts.DateOfLastChange)
	store.AssertExpectations(t)
}

func TestSaveKeepsGeometryVerbatim(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	geometry := `{"type":"LineString","coordinates":[[8.0,59.0],[8.1,59.1]]}`
	var saved *models.Report
	store.On("SaveAll", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*models.Report) }).
		Return(nil).Once()

	_, err := svc.CreateOrUpdateDraft(context.Background(), pilot(), nil, lifecycle.Fields{
		Title:           "Power line",
		GeometryGeoJSON: geometry,
	})
	require.NoError(t, err)
	require.Equal(t, geometry, *saved.GeoLocation)
}

func TestSaveOtherPilotsReportIsNotFound(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	store.On("LoadReport", mock.Anything, uint(5)).
		Return(&models.Report{ID: 5, UserID: uuid.New(), StatusID: models.StatusDraft}, nil)

	id := uint(5)
	_, err := svc.CreateOrUpdateDraft(context.Background(), pilot(), &id, lifecycle.Fields{Title: "x"})
	require.ErrorIs(t, err, ErrReportNotFound)
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestSavePendingReportIsRefused(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)
	a := pilot()

	store.On("LoadReport", mock.Anything, uint(5)).
		Return(&models.Report{ID: 5, UserID: a.UserID, StatusID: models.StatusPending}, nil)

	id := uint(5)
	_, err := svc.SubmitReport(context.Background(), a, &id, lifecycle.Fields{Title: "x", HeightInFeet: ft(1)})
	require.ErrorIs(t, err, lifecycle.ErrTransitionNotAllowed)
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveReplacesMissingTimestamp(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)
	a := pilot()

	dateID := uint(9)
	existing := &models.Report{ID: 5, UserID: a.UserID, StatusID: models.StatusDraft, DateID: &dateID}
	store.On("LoadReport", mock.Anything, uint(5)).Return(existing, nil)
	store.On("LoadTimestamp", mock.Anything, uint(9)).Return(nil, repository.ErrNotFound)

	var savedTS *models.TimestampEntry
	store.On("SaveAll", mock.Anything, existing, mock.Anything).
		Run(func(args mock.Arguments) { savedTS = args.Get(2).(*models.TimestampEntry) }).
		Return(nil).Once()

	id := uint(5)
	_, err := svc.CreateOrUpdateDraft(context.Background(), a, &id, lifecycle.Fields{Title: "x"})
	require.NoError(t, err)
	require.NotNil(t, savedTS)
	require.Equal(t, fixedNow, *savedTS.DateCreated)
}

func TestSavePersistenceFailure(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	store.On("SaveAll", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset")).Once()

	_, err := svc.SubmitReport(context.Background(), pilot(), nil, lifecycle.Fields{Title: "x", HeightInFeet: ft(1)})
	require.ErrorIs(t, err, ErrPersistence)
}

func TestSaveRejectsNonSaveAction(t *testing.T) {
	svc := newWorkflow(&storeMock{})
	_, err := svc.SaveReport(context.Background(), pilot(), nil, lifecycle.ActionApprove, lifecycle.Fields{})
	require.ErrorIs(t, err, lifecycle.ErrUnknownAction)
}

func TestApprovePendingReport(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)
	reviewer := registrar()

	report := &models.Report{ID: 3, UserID: uuid.New(), Title: "Mast", StatusID: models.StatusPending}
	store.On("LoadReport", mock.Anything, uint(3)).Return(report, nil)
	store.On("SaveAll", mock.Anything, report, (*models.TimestampEntry)(nil)).Return(nil).Once()

	res, err := svc.Approve(context.Background(), reviewer, 3, "  Looks right ")
	require.NoError(t, err)
	require.Equal(t, &DecisionResult{ReportID: 3, Status: models.StatusApproved, Previous: models.StatusPending}, res)
	require.Equal(t, reviewer.UserID, *report.DecisionByUserID)
	require.Equal(t, fixedNow, *report.DecisionAt)
	require.Equal(t, "Looks right", report.Feedback)
	require.Equal(t, "Mast", report.Title)
	store.AssertNumberOfCalls(t, "SaveAll", 1)
}

func TestReapprovingApprovedReportSucceeds(t *testing.T) {
	for _, from := range []models.Status{models.StatusApproved, models.StatusRejected} {
		store := &storeMock{}
		svc := newWorkflow(store)

		report := &models.Report{ID: 3, StatusID: from}
		store.On("LoadReport", mock.Anything, uint(3)).Return(report, nil)
		store.On("SaveAll", mock.Anything, report, (*models.TimestampEntry)(nil)).Return(nil).Once()

		res, err := svc.Approve(context.Background(), registrar(), 3, "")
		require.NoError(t, err, "from %s", from)
		require.Equal(t, models.StatusApproved, res.Status)
		require.Equal(t, from, res.Previous)
		store.AssertNumberOfCalls(t, "SaveAll", 1)
	}
}

func TestRejectPendingReport(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	report := &models.Report{ID: 3, StatusID: models.StatusPending, Feedback: "old"}
	store.On("LoadReport", mock.Anything, uint(3)).Return(report, nil)
	store.On("SaveAll", mock.Anything, report, (*models.TimestampEntry)(nil)).Return(nil).Once()

	res, err := svc.Reject(context.Background(), registrar(), 3, "")
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, res.Status)
	require.Equal(t, "old", report.Feedback)
}

func TestApproveMissingReportWritesNothing(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	store.On("LoadReport", mock.Anything, uint(99)).Return(nil, repository.ErrNotFound)

	for _, decide := range []func(context.Context, actor.Actor, uint, string) (*DecisionResult, error){svc.Approve, svc.Reject} {
		res, err := decide(context.Background(), registrar(), 99, "")
		require.NoError(t, err)
		require.Nil(t, res)
	}
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveDraftIsRefused(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	report := &models.Report{ID: 9, UserID: uuid.New(), StatusID: models.StatusDraft}
	store.On("LoadReport", mock.Anything, uint(9)).Return(report, nil)

	_, err := svc.Approve(context.Background(), registrar(), 9, "")
	require.ErrorIs(t, err, lifecycle.ErrTransitionNotAllowed)
	_, err = svc.Reject(context.Background(), registrar(), 9, "")
	require.ErrorIs(t, err, lifecycle.ErrTransitionNotAllowed)

	require.Equal(t, models.StatusDraft, report.StatusID)
	require.Nil(t, report.DecisionByUserID)
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveRequiresRegistrar(t *testing.T) {
	for _, role := range []models.Role{models.RolePilot, models.RoleAdmin} {
		store := &storeMock{}
		svc := newWorkflow(store)

		_, err := svc.Approve(context.Background(), actor.Actor{UserID: uuid.New(), Role: role}, 3, "")
		require.ErrorIs(t, err, ErrForbidden)
		store.AssertNotCalled(t, "LoadReport", mock.Anything, mock.Anything)
	}
}

func TestDecisionPersistenceFailure(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	store.On("LoadReport", mock.Anything, uint(3)).Return(&models.Report{ID: 3, StatusID: models.StatusPending}, nil)
	store.On("SaveAll", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("deadlock")).Once()

	_, err := svc.Reject(context.Background(), registrar(), 3, "")
	require.ErrorIs(t, err, ErrPersistence)
}

func TestDeleteDraft(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)
	a := pilot()

	report := &models.Report{ID: 4, UserID: a.UserID, StatusID: models.StatusDraft}
	store.On("LoadReport", mock.Anything, uint(4)).Return(report, nil)
	store.On("DeleteAll", mock.Anything, report).Return(nil).Once()

	require.NoError(t, svc.DeleteDraft(context.Background(), a, 4))
	store.AssertExpectations(t)
}

func TestDeletePendingReportIsNotFound(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)
	a := pilot()

	store.On("LoadReport", mock.Anything, uint(4)).
		Return(&models.Report{ID: 4, UserID: a.UserID, StatusID: models.StatusPending}, nil)

	err := svc.DeleteDraft(context.Background(), a, 4)
	require.ErrorIs(t, err, ErrReportNotFound)
	store.AssertNotCalled(t, "DeleteAll", mock.Anything, mock.Anything)
}

func TestDeleteOtherPilotsDraftIsNotFound(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	store.On("LoadReport", mock.Anything, uint(4)).
		Return(&models.Report{ID: 4, UserID: uuid.New(), StatusID: models.StatusDraft}, nil)

	err := svc.DeleteDraft(context.Background(), pilot(), 4)
	require.ErrorIs(t, err, ErrReportNotFound)
	store.AssertNotCalled(t, "DeleteAll", mock.Anything, mock.Anything)
}

func TestAssignPendingReport(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)
	reviewer := registrar()

	report := &models.Report{ID: 8, StatusID: models.StatusPending}
	store.On("LoadReport", mock.Anything, uint(8)).Return(report, nil)
	store.On("SaveAll", mock.Anything, report, (*models.TimestampEntry)(nil)).Return(nil).Once()

	got, err := svc.Assign(context.Background(), reviewer, 8)
	require.NoError(t, err)
	require.Equal(t, reviewer.UserID, *got.AssignedToUserID)
	require.Equal(t, fixedNow, *got.AssignedAt)
	require.Equal(t, models.StatusPending, got.StatusID)
}

func TestAssignDecidedReportIsRefused(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	store.On("LoadReport", mock.Anything, uint(8)).Return(&models.Report{ID: 8, StatusID: models.StatusApproved}, nil)

	_, err := svc.Assign(context.Background(), registrar(), 8)
	require.ErrorIs(t, err, lifecycle.ErrTransitionNotAllowed)
	store.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadFailureIsPersistenceError(t *testing.T) {
	store := &storeMock{}
	svc := newWorkflow(store)

	store.On("LoadReport", mock.Anything, uint(1)).Return(nil, errors.New("timeout"))

	_, err := svc.Approve(context.Background(), registrar(), 1, "")
	require.ErrorIs(t, err, ErrPersistence)
}
