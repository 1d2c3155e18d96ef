package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/salonhub/salon-directory-backend/internal/config"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// CouponCache caches per-salon active coupon listings in Redis.
// A nil *CouponCache is a no-op, so callers never branch on whether
// caching is configured.
type CouponCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// Connect creates a CouponCache. Returns (nil, nil) when no Redis address is
// configured, which disables caching.
func Connect(cfg config.RedisConfig, log *logrus.Logger) (*CouponCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Connected to Redis coupon cache")
	return &CouponCache{client: rdb, ttl: cfg.TTL, log: log}, nil
}

// Close closes the underlying Redis client
func (c *CouponCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// GetSalonCoupons returns the cached active coupons of a salon.
// The second return value reports a cache hit.
func (c *CouponCache) GetSalonCoupons(ctx context.Context, salonID int64) ([]models.Coupon, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, salonCouponsKey(salonID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("Coupon cache read failed")
		}
		return nil, false
	}

	var coupons []models.Coupon
	if err := json.Unmarshal([]byte(val), &coupons); err != nil {
		c.log.WithError(err).Warn("Coupon cache entry corrupt, dropping")
		c.client.Del(ctx, salonCouponsKey(salonID))
		return nil, false
	}
	return coupons, true
}

// SetSalonCoupons stores the active coupons of a salon. Failures are logged
// and swallowed; the cache is never load-bearing.
func (c *CouponCache) SetSalonCoupons(ctx context.Context, salonID int64, coupons []models.Coupon) {
	if c == nil {
		return
	}

	data, err := json.Marshal(coupons)
	if err != nil {
		c.log.WithError(err).Warn("Failed to marshal coupons for cache")
		return
	}
	if err := c.client.Set(ctx, salonCouponsKey(salonID), data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("Coupon cache write failed")
	}
}

// InvalidateSalon drops the cached coupon listing of one salon
func (c *CouponCache) InvalidateSalon(ctx context.Context, salonID int64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, salonCouponsKey(salonID)).Err(); err != nil {
		c.log.WithError(err).Warn("Coupon cache invalidation failed")
	}
}

func salonCouponsKey(salonID int64) string {
	return fmt.Sprintf("salon_coupons:%d", salonID)
}
