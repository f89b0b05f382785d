package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"daily-quiz-service/internal/domain"
)

// PoolLoader fetches the eligible question list for a cohort from a backing
// store.
type PoolLoader interface {
	LoadPool(ctx context.Context, cohort int) ([]domain.Question, error)
}

// PoolCache caches cohort question pools in Redis as JSON and falls back to
// a loader on cache miss. Stored as: SET daily:pool:{cohort} {json} EX ttl.
type PoolCache struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPoolCache(client *redis.Client, loader PoolLoader, ttl time.Duration) *PoolCache {
	return &PoolCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *PoolCache) LoadPool(ctx context.Context, cohort int) ([]domain.Question, error) {
	key := c.poolKey(cohort)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var questions []domain.Question
		if err := json.Unmarshal(raw, &questions); err == nil {
			return questions, nil
		}
		// Unreadable entry; drop it and reload.
		_ = c.client.Del(ctx, key).Err()
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var questions []domain.Question
			if err := json.Unmarshal(raw, &questions); err == nil {
				return questions, nil
			}
		}

		questions, err := c.loader.LoadPool(ctx, cohort)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(questions); err == nil {
			// best-effort fill
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load pool for cohort %d: %w", cohort, err)
	}
	return result.([]domain.Question), nil
}

func (c *PoolCache) poolKey(cohort int) string {
	return "daily:pool:" + strconv.Itoa(cohort)
}

func (c *PoolCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
