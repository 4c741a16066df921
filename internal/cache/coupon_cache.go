package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tekup-dev/coupon-service/internal/model"
)

// Cache keys are scoped per operation and argument so a write can
// invalidate exactly the entries it affects.
const (
	keyAll          = "coupon:all"
	keyByIDPrefix   = "coupon:id:"
	keyByCodePrefix = "coupon:code:"
)

// RedisClient is the subset of *redis.Client used by the cache.
// This allows for easier testing with mocks.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CouponCache is a read-through cache for coupon responses backed by Redis.
// Values are stored as JSON with a TTL backstop; mutations must call
// Invalidate so readers never see deleted or replaced rows beyond the TTL.
type CouponCache struct {
	client RedisClient
	ttl    time.Duration
}

// NewCouponCache creates a CouponCache with the given client and entry TTL.
func NewCouponCache(client RedisClient, ttl time.Duration) *CouponCache {
	return &CouponCache{client: client, ttl: ttl}
}

// KeyByID returns the cache key for a single coupon looked up by id.
func KeyByID(id int64) string {
	return keyByIDPrefix + strconv.FormatInt(id, 10)
}

// KeyByCode returns the cache key for a single coupon looked up by code.
func KeyByCode(code string) string {
	return keyByCodePrefix + code
}

// GetByID returns the cached response for an id lookup, or false on a miss.
func (c *CouponCache) GetByID(ctx context.Context, id int64) (*model.CouponResponse, bool) {
	return c.getOne(ctx, KeyByID(id))
}

// GetByCode returns the cached response for a code lookup, or false on a miss.
func (c *CouponCache) GetByCode(ctx context.Context, code string) (*model.CouponResponse, bool) {
	return c.getOne(ctx, KeyByCode(code))
}

func (c *CouponCache) getOne(ctx context.Context, key string) (*model.CouponResponse, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var resp model.CouponResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		// Corrupt entry: drop it so the next read repopulates.
		log.Warn().Err(err).Str("key", key).Msg("cache entry unreadable, evicting")
		c.client.Del(ctx, key)
		return nil, false
	}
	return &resp, true
}

// Set stores a single coupon response under both its id and code keys.
func (c *CouponCache) Set(ctx context.Context, resp *model.CouponResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Warn().Err(err).Int64("coupon_id", resp.ID).Msg("cache marshal failed")
		return
	}
	c.set(ctx, KeyByID(resp.ID), data)
	c.set(ctx, KeyByCode(resp.Code), data)
}

// GetAll returns the cached list of all coupons, or false on a miss.
func (c *CouponCache) GetAll(ctx context.Context) ([]model.CouponResponse, bool) {
	data, err := c.client.Get(ctx, keyAll).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", keyAll).Msg("cache read failed")
		}
		return nil, false
	}

	var responses []model.CouponResponse
	if err := json.Unmarshal(data, &responses); err != nil {
		log.Warn().Err(err).Str("key", keyAll).Msg("cache entry unreadable, evicting")
		c.client.Del(ctx, keyAll)
		return nil, false
	}
	return responses, true
}

// SetAll stores the list of all coupons.
func (c *CouponCache) SetAll(ctx context.Context, responses []model.CouponResponse) {
	data, err := json.Marshal(responses)
	if err != nil {
		log.Warn().Err(err).Msg("cache marshal failed")
		return
	}
	c.set(ctx, keyAll, data)
}

// Invalidate drops the entries for the given id and codes along with the
// list entry. Codes may carry both the old and new code of an update.
func (c *CouponCache) Invalidate(ctx context.Context, id int64, codes ...string) {
	keys := make([]string, 0, len(codes)+2)
	keys = append(keys, KeyByID(id), keyAll)
	for _, code := range codes {
		keys = append(keys, KeyByCode(code))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// InvalidateAll drops only the list entry. Used on create, where no
// per-coupon entry can be stale yet.
func (c *CouponCache) InvalidateAll(ctx context.Context) {
	if err := c.client.Del(ctx, keyAll).Err(); err != nil {
		log.Warn().Err(err).Str("key", keyAll).Msg("cache invalidation failed")
	}
}

func (c *CouponCache) set(ctx context.Context, key string, data []byte) {
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
