// Package cache keeps single-company lookups in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"CompanyAPI/internal/events"
	"CompanyAPI/internal/logger"
	"CompanyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "company:"

// CompanyCache is a read-through cache. A nil cache or one without a client
// misses every lookup and ignores writes.
type CompanyCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *CompanyCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &CompanyCache{rdb: rdb, ttl: ttl}
}

func (c *CompanyCache) enabled() bool { return c != nil && c.rdb != nil }

func key(id uuid.UUID) string { return keyPrefix + id.String() }

// Get returns the cached company. Redis failures count as a miss.
func (c *CompanyCache) Get(ctx context.Context, id uuid.UUID) (*model.Company, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("company_cache_get_failed", map[string]any{"id": id.String(), "error": err.Error()})
		}
		return nil, false
	}
	var company model.Company
	if err := json.Unmarshal(raw, &company); err != nil {
		logger.Warn("company_cache_corrupt", map[string]any{"id": id.String(), "error": err.Error()})
		return nil, false
	}
	return &company, true
}

func (c *CompanyCache) Set(ctx context.Context, company *model.Company) {
	if !c.enabled() || company == nil {
		return
	}
	data, err := json.Marshal(company)
	if err != nil {
		logger.Warn("company_cache_marshal_failed", map[string]any{"id": company.ID.String(), "error": err.Error()})
		return
	}
	if err := c.rdb.Set(ctx, key(company.ID), data, c.ttl).Err(); err != nil {
		logger.Warn("company_cache_set_failed", map[string]any{"id": company.ID.String(), "error": err.Error()})
	}
}

func (c *CompanyCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if !c.enabled() {
		return nil
	}
	if err := c.rdb.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", id, err)
	}
	return nil
}

// Flush removes every cached company.
func (c *CompanyCache) Flush(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 1000).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	return nil
}

// Attach drops cached entries whenever a company change is published.
func (c *CompanyCache) Attach(bus *events.Bus) error {
	return bus.Subscribe(events.CompanyChanged, func(ctx context.Context, e events.Event) error {
		return c.Invalidate(ctx, e.CompanyID)
	})
}
