package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/database/dbtest"
	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/internal/schedule/model"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

const (
	idFebruary = "1b4e28ba-2fa1-41d2-883f-0016d3cca427"
	idMarch    = "6fa459ea-ee8a-4ca4-894e-db77e160355e"
	projectID  = "cardio-2024"
)

// assignmentRow mirrors the columns of the assignments table read here.
type assignmentRow struct {
	ID         string `gorm:"primaryKey"`
	ScheduleID string
	Status     string
}

func (assignmentRow) TableName() string { return "assignments" }

func setupRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t, &model.Schedule{}, &assignmentRow{})
	repo := New(db, zap.NewNop().Sugar())

	ctx := context.Background()
	for _, s := range []model.Schedule{
		{
			ID: idMarch, ProjectID: projectID, Title: "March rota",
			StartDate: daterange.MustParseDate("2024-03-01"), EndDate: daterange.MustParseDate("2024-03-31"),
			Status: lifecycle.ScheduleDraft,
		},
		{
			ID: idFebruary, ProjectID: projectID, Title: "February rota",
			StartDate: daterange.MustParseDate("2024-02-01"), EndDate: daterange.MustParseDate("2024-02-29"),
			Status: lifecycle.ScheduleActive,
		},
	} {
		s := s
		require.NoError(t, repo.Create(ctx, &s))
	}
	return repo, db
}

func TestRepository_GetByID(t *testing.T) {
	repo, _ := setupRepo(t)

	got, err := repo.GetByID(context.Background(), idFebruary)
	require.NoError(t, err)
	assert.Equal(t, "February rota", got.Title)
	assert.Equal(t, daterange.MustParseDate("2024-02-29"), got.EndDate)
	assert.Equal(t, lifecycle.ScheduleActive, got.Status)

	_, err = repo.GetByID(context.Background(), "00000000-0000-4000-8000-000000000000")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRepository_ListByProject(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	all, err := repo.ListByProject(ctx, projectID, model.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, idFebruary, all[0].ID)

	drafts, err := repo.ListByProject(ctx, projectID, model.ListFilter{Status: lifecycle.ScheduleDraft})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, idMarch, drafts[0].ID)

	none, err := repo.ListByProject(ctx, "other", model.ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	got, err := repo.UpdateStatus(ctx, idMarch, 0, lifecycle.ScheduleActive)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ScheduleActive, got.Status)
	assert.Equal(t, int64(1), got.Version)

	_, err = repo.UpdateStatus(ctx, idMarch, 0, lifecycle.ScheduleCompleted)
	var conflict *apperror.VersionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(1), conflict.CurrentVersion)
}

func TestRepository_CountAndDelete(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&[]assignmentRow{
		{ID: "a1", ScheduleID: idFebruary, Status: "confirmed"},
		{ID: "a2", ScheduleID: idFebruary, Status: "cancelled"},
		{ID: "a3", ScheduleID: idFebruary, Status: "completed"},
		{ID: "a4", ScheduleID: idMarch, Status: "pending"},
	}).Error)

	count, err := repo.CountOpenAssignments(ctx, idFebruary)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, db.Model(&assignmentRow{}).Where("id = ?", "a1").Update("status", "cancelled").Error)

	require.NoError(t, repo.Delete(ctx, idFebruary, 0))
	_, err = repo.GetByID(ctx, idFebruary)
	assert.True(t, apperror.IsNotFound(err))

	var remaining int64
	require.NoError(t, db.Model(&assignmentRow{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestRepository_Delete_StaleVersion(t *testing.T) {
	repo, _ := setupRepo(t)

	err := repo.Delete(context.Background(), idMarch, 3)

	var conflict *apperror.VersionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(0), conflict.CurrentVersion)
}

func TestRepository_GetForUpdate(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := New(tx, zap.NewNop().Sugar()).GetForUpdate(ctx, idMarch)
		require.NoError(t, err)
		assert.Equal(t, "March rota", locked.Title)
		return nil
	})
	require.NoError(t, err)

	_, err = repo.GetForUpdate(ctx, "00000000-0000-4000-8000-000000000000")
	assert.True(t, apperror.IsNotFound(err))
}

func TestDependentRejection(t *testing.T) {
	fkErr := apperror.Infra("delete schedule", &pgconn.PgError{Code: foreignKeyViolation})

	var dependents *apperror.DependencyExistsError
	require.ErrorAs(t, dependentRejection(fkErr), &dependents)
	assert.Equal(t, "assignment", dependents.Kind)

	assert.Nil(t, dependentRejection(nil))
	assert.Nil(t, dependentRejection(apperror.Infra("delete schedule", &pgconn.PgError{Code: "23505"})))
	assert.Nil(t, dependentRejection(errors.New("connection reset")))
}
