package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"frenchdriver/internal/models"
)

const (
	rosterCacheKey = "vtc:drivers:roster"
	rosterCacheTTL = 30 * time.Second
)

// DriverRosterCache is a Redis read-through cache in front of the driver
// roster. Broadcast hits the full roster on every call; the short TTL
// keeps repeated broadcasts from hammering the database while staying
// fresh enough for admin edits.
type DriverRosterCache struct {
	RDB     *redis.Client
	Drivers *DriverRepository
}

func NewDriverRosterCache(rdb *redis.Client, drivers *DriverRepository) *DriverRosterCache {
	return &DriverRosterCache{RDB: rdb, Drivers: drivers}
}

// Roster returns all drivers, serving from cache when possible. A cache
// failure falls back to the database; the cache is never authoritative.
func (c *DriverRosterCache) Roster(ctx context.Context) ([]models.Driver, error) {
	if c.RDB != nil {
		raw, err := c.RDB.Get(ctx, rosterCacheKey).Bytes()
		if err == nil {
			var drivers []models.Driver
			if jsonErr := json.Unmarshal(raw, &drivers); jsonErr == nil {
				return drivers, nil
			}
		}
	}

	drivers, err := c.Drivers.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	if c.RDB != nil {
		if raw, err := json.Marshal(drivers); err == nil {
			c.RDB.Set(ctx, rosterCacheKey, raw, rosterCacheTTL)
		}
	}
	return drivers, nil
}

// Invalidate drops the cached roster after a driver record changes.
func (c *DriverRosterCache) Invalidate(ctx context.Context) {
	if c.RDB != nil {
		c.RDB.Del(ctx, rosterCacheKey)
	}
}
