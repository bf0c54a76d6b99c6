package slotcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/usmoni713/Style-and-Barber/internal/clock"
	domain "github.com/usmoni713/Style-and-Barber/internal/domain/appointment"
)

// Cache keeps enumerated free slots in Redis for a short TTL. Entries are
// keyed by a per-(master, day) version that is bumped whenever a booking is
// created or cancelled, so stale slot lists fall out immediately without a
// key scan. A nil *Cache disables caching.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func New(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

func versionKey(masterID uint, day time.Time) string {
	return fmt.Sprintf("slotver:%d:%s", masterID, day.Format(clock.DateLayout))
}

func (c *Cache) slotsKey(ctx context.Context, in domain.FreeSlotsInput, masterID uint) (string, error) {
	ver, err := c.rdb.Get(ctx, versionKey(masterID, in.Day)).Result()
	if err == redis.Nil {
		ver = "0"
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"slots:%d:%d:%d:%s:%d:v%s",
		in.SalonID, in.ServiceID, masterID,
		in.Day.Format(clock.DateLayout), in.MinLeadHours, ver,
	), nil
}

func (c *Cache) Get(ctx context.Context, in domain.FreeSlotsInput, masterID uint) ([]domain.TimeSlot, bool) {
	if c == nil {
		return nil, false
	}

	key, err := c.slotsKey(ctx, in, masterID)
	if err != nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *Cache) Set(ctx context.Context, in domain.FreeSlotsInput, masterID uint, slots []domain.TimeSlot) {
	if c == nil {
		return
	}

	key, err := c.slotsKey(ctx, in, masterID)
	if err != nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("slot cache set failed", zap.Error(err))
	}
}

// Invalidate bumps the (master, day) version after a booking or a
// cancellation. Readers holding the old version miss and recompute.
func (c *Cache) Invalidate(ctx context.Context, masterID uint, day time.Time) {
	if c == nil {
		return
	}

	key := versionKey(masterID, day)
	if err := c.rdb.Incr(ctx, key).Err(); err != nil {
		if c.log != nil {
			c.log.Warn("slot cache invalidate failed", zap.Error(err))
		}
		return
	}
	c.rdb.Expire(ctx, key, 48*time.Hour)
}
