package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/consultant/model"
	"github.com/festy23/consultant_staffing/internal/database/dbtest"
)

const (
	idOkafor    = "8f14e45f-ceea-4e7a-9f3b-1d2c3b4a5e61"
	idLindqvist = "c9f0f895-fb98-4b9c-8a1e-2f3d4c5b6a72"
	idMensah    = "45c48cce-2e2d-4fbd-9a7c-3e4f5a6b7c83"
)

func setupRepo(t *testing.T) Repository {
	t.Helper()
	db := dbtest.Open(t, &model.Consultant{})
	repo := New(db, zap.NewNop().Sugar())

	ctx := context.Background()
	for _, c := range []model.Consultant{
		{ID: idOkafor, Name: "Dr. Ada Okafor", Email: "okafor@example.org", Specialty: "Cardiology", IsActive: true},
		{ID: idLindqvist, Name: "Dr. Erik Lindqvist", Email: "lindqvist@example.org", Specialty: "Oncology", IsActive: true},
		{ID: idMensah, Name: "Dr. Kofi Mensah", Email: "mensah@example.org", Specialty: "Radiology", IsActive: false},
	} {
		c := c
		_, err := repo.Upsert(ctx, &c)
		require.NoError(t, err)
	}
	return repo
}

func TestRepository_GetByID(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.GetByID(context.Background(), idOkafor)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ada Okafor", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.GetByID(context.Background(), "00000000-0000-4000-8000-000000000000")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRepository_GetByIDs(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.GetByIDs(context.Background(), []string{idOkafor, idMensah, "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Dr. Kofi Mensah", got[idMensah].Name)

	empty, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_List(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter model.ListFilter
		want   []string
	}{
		{name: "all ordered by name", filter: model.ListFilter{}, want: []string{idOkafor, idLindqvist, idMensah}},
		{name: "active only", filter: model.ListFilter{ActiveOnly: true}, want: []string{idOkafor, idLindqvist}},
		{name: "search is case insensitive", filter: model.ListFilter{Search: "LINDQ"}, want: []string{idLindqvist}},
		{name: "search email", filter: model.ListFilter{Search: "mensah@"}, want: []string{idMensah}},
		{name: "paged", filter: model.ListFilter{Limit: 1, Offset: 1}, want: []string{idLindqvist}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRepository_Upsert_Refreshes(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	before, err := repo.GetByID(ctx, idMensah)
	require.NoError(t, err)

	updated, err := repo.Upsert(ctx, &model.Consultant{
		ID:        idMensah,
		Name:      "Dr. Kofi Mensah",
		Email:     "k.mensah@example.org",
		Specialty: "Interventional Radiology",
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "k.mensah@example.org", updated.Email)
	assert.True(t, updated.IsActive)
	assert.True(t, updated.CreatedAt.Equal(before.CreatedAt), "created_at is preserved")
}
