package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/festy23/consultant_staffing/internal/consultant/model"
)

const cacheKeyPrefix = "staffing:consultant:"

// CacheClient is the subset of redis commands the cache uses.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type cachedRepository struct {
	Repository
	client CacheClient
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewCached wraps next with a read-through Redis cache for single lookups.
// Cache failures are logged and fall through to next.
func NewCached(next Repository, client CacheClient, ttl time.Duration, logger *zap.SugaredLogger) Repository {
	return &cachedRepository{Repository: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

// GetByID serves from the cache, loading and storing on a miss.
func (r *cachedRepository) GetByID(ctx context.Context, id string) (*model.Consultant, error) {
	raw, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var consultant model.Consultant
		if jsonErr := json.Unmarshal(raw, &consultant); jsonErr == nil {
			return &consultant, nil
		}
		r.logger.Warnw("discarding malformed cache entry", "consultant_id", id)
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warnw("consultant cache read failed", "consultant_id", id, "error", err)
	}

	consultant, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, consultant)
	return consultant, nil
}

// Upsert writes through and refreshes the cache entry.
func (r *cachedRepository) Upsert(ctx context.Context, consultant *model.Consultant) (*model.Consultant, error) {
	saved, err := r.Repository.Upsert(ctx, consultant)
	if err != nil {
		if delErr := r.client.Del(ctx, cacheKey(consultant.ID)).Err(); delErr != nil {
			r.logger.Warnw("consultant cache invalidation failed", "consultant_id", consultant.ID, "error", delErr)
		}
		return nil, err
	}
	r.store(ctx, saved)
	return saved, nil
}

func (r *cachedRepository) store(ctx context.Context, consultant *model.Consultant) {
	data, err := json.Marshal(consultant)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, cacheKey(consultant.ID), data, r.ttl).Err(); err != nil {
		r.logger.Warnw("consultant cache write failed", "consultant_id", consultant.ID, "error", err)
	}
}
