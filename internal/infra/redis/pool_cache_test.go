package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"daily-quiz-service/internal/domain"
	"daily-quiz-service/internal/infra/memory"
)

func TestPoolCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{
		PoolLoader: memory.NewStaticPoolLoader(map[int][]domain.Question{
			3: samplePool(),
		}),
	}
	cache := NewPoolCache(client, loader, time.Minute)

	pool, err := cache.LoadPool(context.Background(), 3)
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(pool))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("daily:pool:3") {
		t.Fatal("expected redis key to be set")
	}

	// Second call must hit the cache.
	again, err := cache.LoadPool(context.Background(), 3)
	if err != nil {
		t.Fatalf("load pool 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(again) != len(pool) || again[0].ID != pool[0].ID {
		t.Fatal("cached pool differs from loaded pool")
	}
}

func TestPoolCacheRecoversFromCorruptEntry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{
		PoolLoader: memory.NewStaticPoolLoader(map[int][]domain.Question{
			3: samplePool(),
		}),
	}
	cache := NewPoolCache(client, loader, time.Minute)

	_ = mr.Set("daily:pool:3", "not json")

	pool, err := cache.LoadPool(context.Background(), 3)
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool) != 2 || loader.calls != 1 {
		t.Fatalf("expected reload after corrupt entry, pool=%d calls=%d", len(pool), loader.calls)
	}
}

type countingLoader struct {
	memory.PoolLoader
	calls int
}

func (l *countingLoader) LoadPool(ctx context.Context, cohort int) ([]domain.Question, error) {
	l.calls++
	return l.PoolLoader.LoadPool(ctx, cohort)
}

func samplePool() []domain.Question {
	return []domain.Question{
		{
			ID:          "q1",
			Text:        "What is 2 + 2?",
			Options:     []string{"3", "4", "5", "22"},
			CorrectIdxs: []int{1},
			Cohort:      3,
		},
		{
			ID:     "q2",
			Text:   "How many bits in a byte?",
			Answer: "8",
			Cohort: 3,
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
