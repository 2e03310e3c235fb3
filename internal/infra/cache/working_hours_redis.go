package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/calendar"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	keyPrefix = "clinic:working_hours"

	// noHours marks a cached lookup that found nothing.
	noHours = "none"
)

// WorkingHoursCache is a read-through cache for GetWorkingHours in front of
// any Repository. Every other method goes straight to the wrapped store.
// Redis failures are logged and the store is used instead.
type WorkingHoursCache struct {
	domain.Repository

	rdb     redis.Cmdable
	ttl     time.Duration
	log     *zap.Logger
	metrics *metrics.Collector

	// inside a transaction reads bypass the cache; writes only invalidate.
	bypassReads bool
}

func NewWorkingHoursCache(
	repo domain.Repository,
	rdb redis.Cmdable,
	ttl time.Duration,
	log *zap.Logger,
	m *metrics.Collector,
) *WorkingHoursCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkingHoursCache{
		Repository: repo,
		rdb:        rdb,
		ttl:        ttl,
		log:        log,
		metrics:    m,
	}
}

func Key(doctorID uint, day calendar.Weekday) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, doctorID, day)
}

func (c *WorkingHoursCache) GetWorkingHours(
	ctx context.Context,
	doctorID uint,
	day calendar.Weekday,
) (*models.WorkingHours, error) {

	if c.bypassReads {
		return c.Repository.GetWorkingHours(ctx, doctorID, day)
	}

	key := Key(doctorID, day)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if wh, ok := c.decode(key, raw); ok {
			c.metrics.ObserveCache("hit")
			return wh, nil
		}
		c.rdb.Del(ctx, key)
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("working hours cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.ObserveCache("miss")

	wh, err := c.Repository.GetWorkingHours(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	c.fill(ctx, key, wh)
	return wh, nil
}

// UpsertWorkingHours writes the stored row over any cached value, so a
// concurrent miss that loaded the previous row cannot put it back.
// Inside a transaction the key is only dropped, since the row may still
// be rolled back.
func (c *WorkingHoursCache) UpsertWorkingHours(ctx context.Context, wh *models.WorkingHours) error {
	if err := c.Repository.UpsertWorkingHours(ctx, wh); err != nil {
		return err
	}

	key := Key(wh.DoctorID, wh.DayOfWeek)
	if !c.bypassReads {
		value, err := encode(wh)
		if err == nil {
			err = c.rdb.Set(ctx, key, value, c.ttl).Err()
		}
		if err == nil {
			return nil
		}
		c.log.Warn("working hours cache refresh failed", zap.String("key", key), zap.Error(err))
	}

	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn("working hours cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (c *WorkingHoursCache) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return c.Repository.Transaction(ctx, func(tx domain.Repository) error {
		return fn(&WorkingHoursCache{
			Repository:  tx,
			rdb:         c.rdb,
			ttl:         c.ttl,
			log:         c.log,
			metrics:     c.metrics,
			bypassReads: true,
		})
	})
}

func (c *WorkingHoursCache) decode(key, raw string) (*models.WorkingHours, bool) {
	if raw == noHours {
		return nil, true
	}

	var wh models.WorkingHours
	if err := json.Unmarshal([]byte(raw), &wh); err != nil {
		c.log.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &wh, true
}

// fill caches a row loaded on a miss. It never replaces an existing value.
func (c *WorkingHoursCache) fill(ctx context.Context, key string, wh *models.WorkingHours) {
	value, err := encode(wh)
	if err != nil {
		return
	}
	if err := c.rdb.SetNX(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn("working hours cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func encode(wh *models.WorkingHours) (string, error) {
	if wh == nil {
		return noHours, nil
	}
	b, err := json.Marshal(wh)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compile-time check
var _ domain.Repository = (*WorkingHoursCache)(nil)
