// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// category.go provides a two-level read-through cache for category
// lookups. L1 is an in-process go-cache map, L2 is Valkey shared by all
// instances. Categories are seeded and change rarely, so every term
// registration can resolve its category without touching PostgreSQL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"termbase/internal/models"
)

const (
	// categoryKeyPrefix is the Valkey key prefix for cached categories.
	categoryKeyPrefix = "category:"

	// categoryInvalidateChannel carries invalidated category ids between
	// instances. The payload "*" clears every entry.
	categoryInvalidateChannel = "category:invalidate"
	invalidateAllPayload      = "*"

	// DefaultCategoryTTL is how long a category stays cached.
	DefaultCategoryTTL = 10 * time.Minute
)

// CategorySource is the authoritative category lookup, normally
// *store.CategoryStore. It returns nil, nil for unknown ids.
type CategorySource interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
}

// CategoryCache wraps a CategorySource with L1 and L2 caching. Misses are
// not cached, so a category seeded after a failed lookup is found at once.
// A nil Valkey client disables L2.
type CategoryCache struct {
	source CategorySource
	local  *gocache.Cache
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a category cache in front of source.
func NewCategoryCache(source CategorySource, client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryCache{
		source: source,
		local:  gocache.New(ttl, 2*ttl),
		client: client,
		ttl:    ttl,
	}
}

// FindByID returns the category with the given id, consulting L1, then
// Valkey, then the source. Valkey errors are logged and treated as misses.
func (c *CategoryCache) FindByID(ctx context.Context, id string) (*models.Category, error) {
	if v, ok := c.local.Get(id); ok {
		cat := v.(models.Category)
		return &cat, nil
	}

	if cat, ok := c.getRemote(ctx, id); ok {
		c.local.SetDefault(id, *cat)
		return cat, nil
	}

	cat, err := c.source.FindByID(ctx, id)
	if err != nil || cat == nil {
		return cat, err
	}

	c.local.SetDefault(id, *cat)
	c.setRemote(ctx, cat)
	return cat, nil
}

// Invalidate drops a category from both levels and tells other instances
// to drop it from their L1.
func (c *CategoryCache) Invalidate(ctx context.Context, id string) {
	c.local.Delete(id)
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, categoryKeyPrefix+id).Err(); err != nil {
		slog.Warn("category cache invalidate error", "id", id, "error", err)
	}
	c.publish(ctx, id)
	slog.Debug("category cache invalidated", "id", id)
}

// InvalidateAll clears L1, removes every category key from Valkey and
// tells other instances to clear their L1.
func (c *CategoryCache) InvalidateAll(ctx context.Context) {
	c.local.Flush()
	if c.client == nil {
		return
	}
	defer c.publish(ctx, invalidateAllPayload)

	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, categoryKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("category cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("category cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("category cache cleared", "deleted", deleted)
	}
}

// Watch subscribes to invalidations published by other instances and
// applies them to L1 until ctx is done. It returns once the subscription
// is confirmed. Watch is a no-op without a Valkey client.
func (c *CategoryCache) Watch(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	sub := c.client.Subscribe(ctx, categoryInvalidateChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("subscribe %s: %w", categoryInvalidateChannel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				c.applyInvalidation(msg.Payload)
			}
		}
	}()
	return nil
}

func (c *CategoryCache) applyInvalidation(payload string) {
	if payload == invalidateAllPayload {
		c.local.Flush()
	} else {
		c.local.Delete(payload)
	}
	slog.Debug("category cache invalidation received", "id", payload)
}

func (c *CategoryCache) publish(ctx context.Context, payload string) {
	if err := c.client.Publish(ctx, categoryInvalidateChannel, payload).Err(); err != nil {
		slog.Warn("category cache publish error", "payload", payload, "error", err)
	}
}

func (c *CategoryCache) getRemote(ctx context.Context, id string) (*models.Category, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, categoryKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("category cache get error", "id", id, "error", err)
		return nil, false
	}

	var cat models.Category
	if err := json.Unmarshal(raw, &cat); err != nil {
		slog.Warn("category cache decode error", "id", id, "error", err)
		return nil, false
	}
	slog.Debug("category cache hit", "id", id)
	return &cat, true
}

func (c *CategoryCache) setRemote(ctx context.Context, cat *models.Category) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(cat)
	if err != nil {
		slog.Warn("category cache encode error", "id", cat.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, categoryKeyPrefix+cat.ID, raw, c.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "id", cat.ID, "error", err)
	}
}
