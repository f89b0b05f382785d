package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"daily-quiz-service/internal/app"
	"daily-quiz-service/internal/domain"
)

// SessionCache decorates an app.SessionStore with a Redis read cache.
// Materialized sessions are immutable, so a cached row can never go stale;
// absence is never cached because the row may be created at any moment by
// another process. The create path always goes to the inner store, which
// still owns the atomic create-if-absent contract.
type SessionCache struct {
	client *redis.Client
	inner  app.SessionStore
	ttl    time.Duration
	rnd    *rand.Rand
}

func NewSessionCache(client *redis.Client, inner app.SessionStore, ttl time.Duration) *SessionCache {
	return &SessionCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *SessionCache) GetSession(ctx context.Context, date string, cohort int) (domain.DailySession, error) {
	key := c.sessionKey(date, cohort)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var session domain.DailySession
		if err := json.Unmarshal(raw, &session); err == nil {
			return session, nil
		}
		_ = c.client.Del(ctx, key).Err()
	}

	session, err := c.inner.GetSession(ctx, date, cohort)
	if err != nil {
		return domain.DailySession{}, err
	}
	c.fill(ctx, key, session)
	return session, nil
}

func (c *SessionCache) CreateSessionIfAbsent(ctx context.Context, session domain.DailySession) (bool, error) {
	created, err := c.inner.CreateSessionIfAbsent(ctx, session)
	if err != nil {
		return false, err
	}
	if created {
		c.fill(ctx, c.sessionKey(session.QuizDate, session.Cohort), session)
	}
	return created, nil
}

// fill is best-effort; a cache write failure never fails the request.
func (c *SessionCache) fill(ctx context.Context, key string, session domain.DailySession) {
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
}

func (c *SessionCache) sessionKey(date string, cohort int) string {
	return "daily:session:" + date + ":" + strconv.Itoa(cohort)
}

func (c *SessionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
