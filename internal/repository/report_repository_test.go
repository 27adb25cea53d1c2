package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("needs a postgres container")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=obstacle_registry_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	require.NoError(t, resource.Expire(120))

	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=postgres dbname=obstacle_registry_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}))

	require.NoError(t, db.AutoMigrate(
		&models.StatusRecord{},
		&models.Category{},
		&models.User{},
		&models.TimestampEntry{},
		&models.Report{},
	))
	require.NoError(t, db.Create(models.StatusSeeds()).Error)
	require.NoError(t, db.Create(models.CategorySeeds()).Error)
	return db
}

func seedPilot(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := models.User{ID: uuid.New(), Username: "pilot-" + uuid.NewString()[:8], Password: "x", Role: models.RolePilot}
	user.Email = user.Username + "@example.test"
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestReportRepositoryIntegration(t *testing.T) {
	db := setupPostgres(t)
	repo := NewReportRepository(db)
	ctx := context.Background()
	owner := seedPilot(t, db)

	t.Run("insert writes timestamp first and links it", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		height := 120.0
		report := &models.Report{UserID: owner, Title: "Crane", HeightInFeet: &height, StatusID: models.StatusDraft}
		ts := &models.TimestampEntry{DateCreated: &now, DateOfLastChange: &now}

		require.NoError(t, repo.SaveAll(ctx, report, ts))
		require.NotZero(t, report.ID)
		require.NotZero(t, ts.ID)
		require.NotNil(t, report.DateID)
		require.Equal(t, ts.ID, *report.DateID)

		loaded, err := repo.LoadReport(ctx, report.ID)
		require.NoError(t, err)
		require.Equal(t, "Crane", loaded.Title)
		require.Equal(t, ts.ID, *loaded.DateID)

		loadedTS, err := repo.LoadTimestamp(ctx, ts.ID)
		require.NoError(t, err)
		require.True(t, now.Equal(loadedTS.DateCreated.UTC()))
	})

	t.Run("update keeps ids and rewrites both rows", func(t *testing.T) {
		created := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
		report := &models.Report{UserID: owner, Title: "Mast", StatusID: models.StatusDraft}
		ts := &models.TimestampEntry{DateCreated: &created, DateOfLastChange: &created}
		require.NoError(t, repo.SaveAll(ctx, report, ts))
		reportID, tsID := report.ID, ts.ID

		changed := time.Now().UTC().Truncate(time.Second)
		report.Title = "Mast (lit)"
		report.StatusID = models.StatusPending
		ts.DateOfLastChange = &changed
		require.NoError(t, repo.SaveAll(ctx, report, ts))
		require.Equal(t, reportID, report.ID)
		require.Equal(t, tsID, ts.ID)

		loaded, err := repo.LoadReport(ctx, reportID)
		require.NoError(t, err)
		require.Equal(t, "Mast (lit)", loaded.Title)
		require.Equal(t, models.StatusPending, loaded.StatusID)

		loadedTS, err := repo.LoadTimestamp(ctx, tsID)
		require.NoError(t, err)
		require.True(t, changed.Equal(loadedTS.DateOfLastChange.UTC()))
		require.True(t, created.Equal(loadedTS.DateCreated.UTC()))
	})

	t.Run("failed report write rolls back the timestamp", func(t *testing.T) {
		before := countRows(t, db, &models.TimestampEntry{})
		now := time.Now().UTC()
		report := &models.Report{UserID: owner, Title: strings.Repeat("x", 101), StatusID: models.StatusDraft}
		ts := &models.TimestampEntry{DateCreated: &now, DateOfLastChange: &now}

		err := repo.SaveAll(ctx, report, ts)
		require.ErrorContains(t, err, "save report")
		require.Equal(t, before, countRows(t, db, &models.TimestampEntry{}))
	})

	t.Run("delete removes report and timestamp", func(t *testing.T) {
		now := time.Now().UTC()
		report := &models.Report{UserID: owner, Title: "Antenna", StatusID: models.StatusDraft}
		ts := &models.TimestampEntry{DateCreated: &now, DateOfLastChange: &now}
		require.NoError(t, repo.SaveAll(ctx, report, ts))

		require.NoError(t, repo.DeleteAll(ctx, report))

		_, err := repo.LoadReport(ctx, report.ID)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = repo.LoadTimestamp(ctx, ts.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find filters by status and owner", func(t *testing.T) {
		other := seedPilot(t, db)
		require.NoError(t, repo.SaveAll(ctx, &models.Report{UserID: other, Title: "Tower", StatusID: models.StatusApproved}, nil))

		reports, total, err := repo.FindReports(ctx, ReportFilter{Statuses: []models.Status{models.StatusApproved}})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		require.Len(t, reports, 1)
		require.Equal(t, "Tower", reports[0].Title)
		require.Equal(t, other, reports[0].User.ID)

		mine, total, err := repo.FindReports(ctx, ReportFilter{OwnerID: &owner, Limit: 10})
		require.NoError(t, err)
		require.Equal(t, int64(len(mine)), total)
		for _, r := range mine {
			require.Equal(t, owner, r.UserID)
		}
	})
}
