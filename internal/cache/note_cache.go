package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dom "github.com/muhzarfan/backend-cttn/internal/domain"
	"github.com/muhzarfan/backend-cttn/internal/repo"
)

const keyPrefix = "notes:user:"

// NoteCache caches list pages and stats per owner in Redis. Keys are scoped
// by the owner's user ID so invalidation after a write only touches that
// owner's entries.
type NoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewNoteCache returns a new NoteCache.
func NewNoteCache(rdb *redis.Client, ttl time.Duration) *NoteCache {
	return &NoteCache{rdb: rdb, ttl: ttl}
}

// GetPage returns the cached page for the given query, or nil on miss.
func (c *NoteCache) GetPage(ctx context.Context, userID uuid.UUID, p repo.ListParams) (*dom.NotePage, error) {
	b, err := c.rdb.Get(ctx, PageKey(userID, p)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var page dom.NotePage
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetPage stores the page in cache.
func (c *NoteCache) SetPage(ctx context.Context, userID uuid.UUID, p repo.ListParams, page dom.NotePage) error {
	b, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, PageKey(userID, p), b, c.ttl).Err()
}

// GetStats returns the cached stats or nil on miss.
func (c *NoteCache) GetStats(ctx context.Context, userID uuid.UUID) (*dom.NoteStats, error) {
	b, err := c.rdb.Get(ctx, StatsKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s dom.NoteStats
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetStats stores the stats in cache.
func (c *NoteCache) SetStats(ctx context.Context, userID uuid.UUID, s dom.NoteStats) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, StatsKey(userID), b, c.ttl).Err()
}

// InvalidateUser removes every cached entry for the owner (cache
// invalidation on write).
func (c *NoteCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+userID.String()+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// PageKey is the cache key for one list page. It is also the singleflight
// key for that query, so the two can never disagree.
func PageKey(userID uuid.UUID, p repo.ListParams) string {
	return keyPrefix + userID.String() + ":list:" +
		strconv.Itoa(p.Page) + ":" + strconv.Itoa(p.Limit) + ":" +
		p.SortBy + ":" + p.SortOrder + ":" + p.Search
}

// StatsKey is the cache and singleflight key for the owner's stats.
func StatsKey(userID uuid.UUID) string {
	return keyPrefix + userID.String() + ":stats"
}
