package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nonomnouns/clankpad/internal/domain"
)

// notificationTokenTTL bounds how long a cached delivery token is trusted
// before the durable store is consulted again.
const notificationTokenTTL = 24 * time.Hour

func lastSeenKey(fid int64) string   { return fmt.Sprintf("last_seen_announcement:%d", fid) }
func tokenCacheKey(fid int64) string { return fmt.Sprintf("notification_token:%d", fid) }

// Cache provides typed access to the ephemeral key-value store: the per-fid
// last-seen announcement marker and the per-fid cached delivery token.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// GetLastSeenAnnouncementID returns the stored marker for the fid, or
// (0, false) when none is set.
func (c *Cache) GetLastSeenAnnouncementID(ctx context.Context, fid int64) (int64, bool, error) {
	id, err := c.rdb.Get(ctx, lastSeenKey(fid)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// SetLastSeenAnnouncementID advances the marker. Markers never expire.
func (c *Cache) SetLastSeenAnnouncementID(ctx context.Context, fid, announcementID int64) error {
	return c.rdb.Set(ctx, lastSeenKey(fid), announcementID, 0).Err()
}

type cachedToken struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// GetNotificationToken returns the cached delivery token for the fid, or
// (nil, nil) on a cache miss. A miss is not an error — callers must fall back
// to the durable store before declaring "no token".
func (c *Cache) GetNotificationToken(ctx context.Context, fid int64) (*domain.NotificationToken, error) {
	raw, err := c.rdb.Get(ctx, tokenCacheKey(fid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ct cachedToken
	if err := json.Unmarshal([]byte(raw), &ct); err != nil {
		return nil, fmt.Errorf("decode cached token: %w", err)
	}
	return &domain.NotificationToken{FID: fid, Token: ct.Token, URL: ct.URL}, nil
}

// SetNotificationToken mirrors a delivery token into the cache with a 24h expiry.
func (c *Cache) SetNotificationToken(ctx context.Context, fid int64, token, url string) error {
	raw, err := json.Marshal(cachedToken{Token: token, URL: url})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, tokenCacheKey(fid), raw, notificationTokenTTL).Err()
}

// RemoveNotificationToken drops the cached token for the fid.
func (c *Cache) RemoveNotificationToken(ctx context.Context, fid int64) error {
	return c.rdb.Del(ctx, tokenCacheKey(fid)).Err()
}
