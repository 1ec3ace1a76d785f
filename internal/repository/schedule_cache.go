package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/amortization-engine/internal/domain"
)

const scheduleKeyPrefix = "schedule:"

type redisScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisScheduleCache caches results in Redis for ttl; a zero ttl keeps
// entries until evicted.
func NewRedisScheduleCache(client *redis.Client, ttl time.Duration) ScheduleCache {
	return &redisScheduleCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *redisScheduleCache) Get(ctx context.Context, terms domain.LoanTerms) (*domain.CalculationResult, error) {
	payload, err := c.client.Get(ctx, ScheduleCacheKey(terms)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var result domain.CalculationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *redisScheduleCache) Set(ctx context.Context, terms domain.LoanTerms, result *domain.CalculationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, ScheduleCacheKey(terms), payload, c.ttl).Err()
}

func (c *redisScheduleCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// ScheduleCacheKey derives the cache key from the terms. Equal decimals
// written differently ("9.5", "9.50") share a key.
func ScheduleCacheKey(terms domain.LoanTerms) string {
	canonical := strings.Join([]string{
		terms.Principal.String(),
		terms.AnnualRatePercent.String(),
		strconv.Itoa(terms.Years),
		terms.Frequency.String(),
		terms.StartDate.Format(time.DateOnly),
		terms.PeriodicFee.String(),
		terms.ExtraPrincipalPerPeriod.String(),
	}, "|")

	sum := sha256.Sum256([]byte(canonical))
	return scheduleKeyPrefix + hex.EncodeToString(sum[:])
}
