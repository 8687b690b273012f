// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"termbase/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, categoryKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// countingSource is a CategorySource that records how often it is hit.
type countingSource struct {
	mu    sync.Mutex
	cats  map[string]*models.Category
	calls int
	err   error
}

func (s *countingSource) FindByID(_ context.Context, id string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.cats[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *countingSource) hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newSource() *countingSource {
	return &countingSource{cats: map[string]*models.Category{
		"CAT001": {ID: "CAT001", Name: "Backend", Depth: 2},
	}}
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	_, err := ConnectValkey(context.Background(), "127.0.0.1", "1", "")
	if err == nil {
		t.Error("expected error for unreachable Valkey")
	}
}

func TestCategoryCacheLocalOnly(t *testing.T) {
	src := newSource()
	cc := NewCategoryCache(src, nil, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cat, err := cc.FindByID(ctx, "CAT001")
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if cat == nil || cat.Name != "Backend" {
			t.Fatalf("unexpected category: %+v", cat)
		}
	}
	if src.hits() != 1 {
		t.Errorf("source hits = %d, want 1", src.hits())
	}

	cc.Invalidate(ctx, "CAT001")
	if _, err := cc.FindByID(ctx, "CAT001"); err != nil {
		t.Fatalf("FindByID after invalidate: %v", err)
	}
	if src.hits() != 2 {
		t.Errorf("source hits after invalidate = %d, want 2", src.hits())
	}
}

func TestCategoryCacheDoesNotCacheMisses(t *testing.T) {
	src := newSource()
	cc := NewCategoryCache(src, nil, time.Minute)
	ctx := context.Background()

	cat, err := cc.FindByID(ctx, "CAT999")
	if err != nil || cat != nil {
		t.Fatalf("expected nil, nil for unknown id, got %+v, %v", cat, err)
	}

	src.mu.Lock()
	src.cats["CAT999"] = &models.Category{ID: "CAT999", Depth: 2}
	src.mu.Unlock()

	cat, err = cc.FindByID(ctx, "CAT999")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if cat == nil {
		t.Error("category added after a miss should be found")
	}
}

func TestCategoryCacheSourceError(t *testing.T) {
	boom := errors.New("db down")
	cc := NewCategoryCache(&countingSource{err: boom}, nil, time.Minute)

	_, err := cc.FindByID(context.Background(), "CAT001")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestCategoryCacheReturnsCopies(t *testing.T) {
	cc := NewCategoryCache(newSource(), nil, time.Minute)
	ctx := context.Background()

	first, _ := cc.FindByID(ctx, "CAT001")
	first.Name = "mutated"

	second, _ := cc.FindByID(ctx, "CAT001")
	if second.Name != "Backend" {
		t.Errorf("cached value was mutated through a returned pointer: %q", second.Name)
	}
}

func TestNewCategoryCacheDefaultTTL(t *testing.T) {
	cc := NewCategoryCache(newSource(), nil, 0)
	if cc.ttl != DefaultCategoryTTL {
		t.Errorf("expected DefaultCategoryTTL (%v), got %v", DefaultCategoryTTL, cc.ttl)
	}
}

func TestCategoryCacheValkeyShared(t *testing.T) {
	client := testValkeyClient(t)
	ctx := context.Background()

	src := newSource()
	first := NewCategoryCache(src, client, time.Minute)
	if _, err := first.FindByID(ctx, "CAT001"); err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	// A second instance has an empty L1 but shares Valkey.
	second := NewCategoryCache(src, client, time.Minute)
	cat, err := second.FindByID(ctx, "CAT001")
	if err != nil {
		t.Fatalf("FindByID via L2: %v", err)
	}
	if cat.Name != "Backend" || cat.Depth != 2 {
		t.Errorf("unexpected category from L2: %+v", cat)
	}
	if src.hits() != 1 {
		t.Errorf("source hits = %d, want 1", src.hits())
	}

	ttl, err := client.TTL(ctx, categoryKeyPrefix+"CAT001").Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("unexpected TTL %v", ttl)
	}
}

func TestCategoryCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	ctx := context.Background()

	src := newSource()
	src.cats["CAT002"] = &models.Category{ID: "CAT002", Depth: 2}
	cc := NewCategoryCache(src, client, time.Minute)

	cc.FindByID(ctx, "CAT001")
	cc.FindByID(ctx, "CAT002")

	cc.InvalidateAll(ctx)

	for _, id := range []string{"CAT001", "CAT002"} {
		n, err := client.Exists(ctx, categoryKeyPrefix+id).Result()
		if err != nil {
			t.Fatalf("Exists: %v", err)
		}
		if n != 0 {
			t.Errorf("key for %s should be gone", id)
		}
	}

	before := src.hits()
	cc.FindByID(ctx, "CAT001")
	if src.hits() != before+1 {
		t.Error("lookup after InvalidateAll should reach the source")
	}
}

func TestCategoryCacheApplyInvalidation(t *testing.T) {
	cc := NewCategoryCache(newSource(), nil, time.Minute)
	cc.local.SetDefault("CAT001", models.Category{ID: "CAT001"})
	cc.local.SetDefault("CAT002", models.Category{ID: "CAT002"})

	cc.applyInvalidation("CAT001")
	if _, ok := cc.local.Get("CAT001"); ok {
		t.Error("CAT001 should be evicted")
	}
	if _, ok := cc.local.Get("CAT002"); !ok {
		t.Error("CAT002 should be kept")
	}

	cc.applyInvalidation(invalidateAllPayload)
	if cc.local.ItemCount() != 0 {
		t.Errorf("L1 should be empty, has %d items", cc.local.ItemCount())
	}
}

func TestCategoryCacheWatchWithoutValkey(t *testing.T) {
	cc := NewCategoryCache(newSource(), nil, time.Minute)
	if err := cc.Watch(context.Background()); err != nil {
		t.Errorf("Watch without client: %v", err)
	}
	// Invalidation without a client only touches L1.
	cc.Invalidate(context.Background(), "CAT001")
	cc.InvalidateAll(context.Background())
}

// waitEvicted polls until id leaves cc's L1 or the deadline passes.
func waitEvicted(t *testing.T, cc *CategoryCache, id string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := cc.local.Get(id); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s still in L1 after invalidation was published", id)
}

func TestCategoryCacheWatchAcrossInstances(t *testing.T) {
	client := testValkeyClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newSource()
	writer := NewCategoryCache(src, client, time.Minute)
	server := NewCategoryCache(src, client, time.Minute)
	if err := server.Watch(ctx); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if _, err := server.FindByID(ctx, "CAT001"); err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if _, ok := server.local.Get("CAT001"); !ok {
		t.Fatal("CAT001 should be in the server's L1")
	}

	writer.Invalidate(ctx, "CAT001")
	waitEvicted(t, server, "CAT001")

	if _, err := server.FindByID(ctx, "CAT001"); err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	writer.InvalidateAll(ctx)
	waitEvicted(t, server, "CAT001")
}
