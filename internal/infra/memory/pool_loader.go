package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"daily-quiz-service/internal/domain"
)

// PoolCache caches cohort question pools with TTL to avoid repeated backing
// store hits; the materializer reads the pool on every creation and every
// presentation.
type PoolCache struct {
	loader PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[int]cachedPool
}

// PoolLoader fetches the eligible question list for a cohort from a backing
// store.
type PoolLoader interface {
	LoadPool(ctx context.Context, cohort int) ([]domain.Question, error)
}

type cachedPool struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewPoolCache(loader PoolLoader, ttl time.Duration) *PoolCache {
	return &PoolCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int]cachedPool),
	}
}

func (c *PoolCache) LoadPool(ctx context.Context, cohort int) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[cohort]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(poolKey(cohort), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[cohort]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.loader.LoadPool(ctx, cohort)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[cohort] = cachedPool{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *PoolCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func poolKey(cohort int) string {
	return "pool:" + strconv.Itoa(cohort)
}

// StaticPoolLoader serves pools from an in-memory map (tests/demos).
type StaticPoolLoader struct {
	pools map[int][]domain.Question
}

func NewStaticPoolLoader(pools map[int][]domain.Question) *StaticPoolLoader {
	return &StaticPoolLoader{pools: pools}
}

func (l *StaticPoolLoader) LoadPool(_ context.Context, cohort int) ([]domain.Question, error) {
	return l.pools[cohort], nil
}
