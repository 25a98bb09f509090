package concurrency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/database/dbtest"
)

type slot struct {
	ID        string `gorm:"primaryKey"`
	Label     string
	Version   int64
	UpdatedAt time.Time
}

func (s *slot) GetID() string     { return s.ID }
func (s *slot) GetVersion() int64 { return s.Version }

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	db := dbtest.Open(t, &slot{})
	require.NoError(t, db.Create(&slot{ID: "s-1", Label: "initial"}).Error)
	return db
}

func TestApplyIfCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("matching version applies and increments", func(t *testing.T) {
		db := setup(t)

		updated, err := ApplyIfCurrent[slot](ctx, db, "slot", "s-1", 0, map[string]any{"label": "first"})
		require.NoError(t, err)
		assert.Equal(t, "first", updated.Label)
		assert.Equal(t, int64(1), updated.Version)

		updated, err = ApplyIfCurrent[slot](ctx, db, "slot", "s-1", 1, map[string]any{"label": "second"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.Version)
	})

	t.Run("stale version is rejected and leaves row unchanged", func(t *testing.T) {
		db := setup(t)
		_, err := ApplyIfCurrent[slot](ctx, db, "slot", "s-1", 0, map[string]any{"label": "first"})
		require.NoError(t, err)

		_, err = ApplyIfCurrent[slot](ctx, db, "slot", "s-1", 0, map[string]any{"label": "stale"})

		var conflict *apperror.VersionConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, int64(0), conflict.ExpectedVersion)
		assert.Equal(t, int64(1), conflict.CurrentVersion)
		snapshot, ok := conflict.CurrentSnapshot.(*slot)
		require.True(t, ok)
		assert.Equal(t, "first", snapshot.Label)

		var stored slot
		require.NoError(t, db.First(&stored, "id = ?", "s-1").Error)
		assert.Equal(t, "first", stored.Label)
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		db := setup(t)

		_, err := ApplyIfCurrent[slot](ctx, db, "slot", "nope", 0, map[string]any{"label": "x"})
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("caller map is not mutated", func(t *testing.T) {
		db := setup(t)
		updates := map[string]any{"label": "x"}

		_, err := ApplyIfCurrent[slot](ctx, db, "slot", "s-1", 0, updates)
		require.NoError(t, err)
		assert.Len(t, updates, 1)
	})
}

func TestApplyIfCurrent_ConcurrentWriters(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	const writers = 5
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ApplyIfCurrent[slot](ctx, db, "slot", "s-1", 0, map[string]any{"label": "racer"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var conflict *apperror.VersionConflictError
		assert.True(t, errors.As(err, &conflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var stored slot
	require.NoError(t, db.First(&stored, "id = ?", "s-1").Error)
	assert.Equal(t, int64(1), stored.Version)
}

func TestDeleteIfCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("matching version deletes", func(t *testing.T) {
		db := setup(t)

		require.NoError(t, DeleteIfCurrent[slot](ctx, db, "slot", "s-1", 0))

		var count int64
		require.NoError(t, db.Model(&slot{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("stale version keeps row", func(t *testing.T) {
		db := setup(t)
		_, err := ApplyIfCurrent[slot](ctx, db, "slot", "s-1", 0, map[string]any{"label": "x"})
		require.NoError(t, err)

		err = DeleteIfCurrent[slot](ctx, db, "slot", "s-1", 0)
		var conflict *apperror.VersionConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, int64(1), conflict.CurrentVersion)
	})

	t.Run("missing row", func(t *testing.T) {
		db := setup(t)
		err := DeleteIfCurrent[slot](ctx, db, "slot", "missing", 0)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestCheck(t *testing.T) {
	current := &slot{ID: "s-1", Version: 4}
	assert.NoError(t, Check("slot", current, 4))

	var conflict *apperror.VersionConflictError
	require.ErrorAs(t, Check("slot", current, 3), &conflict)
	assert.Equal(t, int64(4), conflict.CurrentVersion)
	assert.Equal(t, "s-1", conflict.EntityID)
}

func TestLoad(t *testing.T) {
	db := setup(t)

	got, err := Load[slot](context.Background(), db, "slot", "s-1")
	require.NoError(t, err)
	assert.Equal(t, "initial", got.Label)

	_, err = Load[slot](context.Background(), db, "slot", "s-2")
	var nf *apperror.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "slot", nf.Kind)
}
