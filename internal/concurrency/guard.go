// Package concurrency implements optimistic locking for versioned records.
//
// Every guarded write is a single conditional statement
// (UPDATE ... WHERE id = ? AND version = ?), so the version check and the
// increment happen atomically in the database. A write that matches no row
// is resolved into either NotFound or VersionConflict by reloading the row.
package concurrency

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/festy23/consultant_staffing/internal/apperror"
	"github.com/festy23/consultant_staffing/internal/metrics"
)

// Versioned is a record carrying an optimistic-lock version.
type Versioned interface {
	GetID() string
	GetVersion() int64
}

// Record constrains PT to be a pointer to T implementing Versioned.
type Record[T any] interface {
	*T
	Versioned
}

// ApplyIfCurrent applies updates to the row identified by id only if its
// version still equals expected, incrementing the version in the same
// statement. It returns the reloaded row.
func ApplyIfCurrent[T any, PT Record[T]](
	ctx context.Context,
	db *gorm.DB,
	kind, id string,
	expected int64,
	updates map[string]any,
) (*T, error) {
	values := make(map[string]any, len(updates)+2)
	for k, v := range updates {
		values[k] = v
	}
	values["version"] = gorm.Expr("version + ?", 1)
	values["updated_at"] = time.Now().UTC()

	result := db.WithContext(ctx).
		Model(PT(new(T))).
		Where("id = ? AND version = ?", id, expected).
		Updates(values)
	if result.Error != nil {
		return nil, apperror.Infra("update "+kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, Resolve[T, PT](ctx, db, kind, id, expected)
	}

	return Load[T, PT](ctx, db, kind, id)
}

// DeleteIfCurrent deletes the row identified by id only if its version still
// equals expected.
func DeleteIfCurrent[T any, PT Record[T]](
	ctx context.Context,
	db *gorm.DB,
	kind, id string,
	expected int64,
) error {
	result := db.WithContext(ctx).
		Where("id = ? AND version = ?", id, expected).
		Delete(PT(new(T)))
	if result.Error != nil {
		return apperror.Infra("delete "+kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return Resolve[T, PT](ctx, db, kind, id, expected)
	}
	return nil
}

// Check compares a loaded record against the caller's version without
// writing. It is used when a decision needs the current row before the
// guarded write.
func Check(kind string, current Versioned, expected int64) error {
	if current.GetVersion() == expected {
		return nil
	}
	metrics.RecordVersionConflict(kind)
	return &apperror.VersionConflictError{
		EntityID:        current.GetID(),
		ExpectedVersion: expected,
		CurrentVersion:  current.GetVersion(),
		CurrentSnapshot: current,
	}
}

// Load fetches a row by id, mapping a missing row to NotFoundError.
func Load[T any, PT Record[T]](ctx context.Context, db *gorm.DB, kind, id string) (*T, error) {
	row := new(T)
	err := db.WithContext(ctx).Where("id = ?", id).Take(PT(row)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperror.NotFoundError{Kind: kind, ID: id}
	}
	if err != nil {
		return nil, apperror.Infra("load "+kind, err)
	}
	return row, nil
}

// Resolve explains why a guarded write matched no row.
func Resolve[T any, PT Record[T]](ctx context.Context, db *gorm.DB, kind, id string, expected int64) error {
	current, err := Load[T, PT](ctx, db, kind, id)
	if err != nil {
		return err
	}
	if conflict := Check(kind, PT(current), expected); conflict != nil {
		return conflict
	}
	// Matched version but no row changed: a concurrent writer won between
	// our statement and the reload. Report it as a conflict as well.
	metrics.RecordVersionConflict(kind)
	return &apperror.VersionConflictError{
		EntityID:        id,
		ExpectedVersion: expected,
		CurrentVersion:  PT(current).GetVersion(),
		CurrentSnapshot: current,
	}
}
