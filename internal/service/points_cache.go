package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"homeschool_hub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	balanceKeyPrefix = "points:balance:"
	versionKeyPrefix = "points:version:"
)

// BalanceCache remembers computed balances. The ledger stays the source of
// truth: every write to it invalidates the student's entry and bumps its
// version. A balance computed before an invalidation carries the old version
// and is never stored.
type BalanceCache interface {
	// Lookup returns the cached balance, or on a miss the version to hand
	// back to Store.
	Lookup(ctx context.Context, studentID string) (balance int, version int64, ok bool)
	Store(ctx context.Context, studentID string, balance int, version int64)
	Invalidate(ctx context.Context, studentID string)
}

// NewBalanceCache returns a Redis-backed cache, or a no-op one when rdb is nil.
func NewBalanceCache(rdb *redis.Client, ttl time.Duration) BalanceCache {
	if rdb == nil {
		return noopBalanceCache{}
	}
	return &redisBalanceCache{rdb: rdb, ttl: ttl}
}

type redisBalanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func (c *redisBalanceCache) Lookup(ctx context.Context, studentID string) (int, int64, bool) {
	vals, err := c.rdb.MGet(ctx, balanceKeyPrefix+studentID, versionKeyPrefix+studentID).Result()
	if err != nil {
		return 0, 0, false
	}
	version := parseVersion(vals[1])
	if s, ok := vals[0].(string); ok {
		if n, err := strconv.Atoi(s); err == nil {
			return n, version, true
		}
	}
	return 0, version, false
}

// Store writes the balance only while the version key still holds version.
func (c *redisBalanceCache) Store(ctx context.Context, studentID string, balance int, version int64) {
	versionKey := versionKeyPrefix + studentID
	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, balanceKeyPrefix+studentID, balance, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		logger.Log.Debug("Balance cache store failed", zap.String("studentId", studentID), zap.Error(err))
	}
}

func (c *redisBalanceCache) Invalidate(ctx context.Context, studentID string) {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKeyPrefix+studentID)
		pipe.Del(ctx, balanceKeyPrefix+studentID)
		return nil
	})
	if err != nil {
		logger.Log.Warn("Balance cache invalidation failed", zap.String("studentId", studentID), zap.Error(err))
	}
}

func parseVersion(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

type noopBalanceCache struct{}

func (noopBalanceCache) Lookup(context.Context, string) (int, int64, bool) { return 0, 0, false }
func (noopBalanceCache) Store(context.Context, string, int, int64)         {}
func (noopBalanceCache) Invalidate(context.Context, string)                {}
