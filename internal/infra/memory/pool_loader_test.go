package memory

import (
	"context"
	"testing"
	"time"

	"daily-quiz-service/internal/domain"
)

func TestPoolCacheCaches(t *testing.T) {
	loader := &countingLoader{
		PoolLoader: NewStaticPoolLoader(map[int][]domain.Question{
			3: samplePool(),
		}),
	}
	cache := NewPoolCache(loader, time.Minute)

	if _, err := cache.LoadPool(context.Background(), 3); err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.LoadPool(context.Background(), 3); err != nil {
		t.Fatalf("load pool 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestPoolCacheSeparatesCohorts(t *testing.T) {
	loader := &countingLoader{
		PoolLoader: NewStaticPoolLoader(map[int][]domain.Question{
			3: samplePool(),
			4: nil,
		}),
	}
	cache := NewPoolCache(loader, time.Minute)

	pool, _ := cache.LoadPool(context.Background(), 3)
	if len(pool) == 0 {
		t.Fatal("expected questions for cohort 3")
	}
	empty, _ := cache.LoadPool(context.Background(), 4)
	if len(empty) != 0 {
		t.Fatalf("expected empty pool for cohort 4, got %d", len(empty))
	}
	if loader.calls != 2 {
		t.Fatalf("expected one load per cohort, got %d", loader.calls)
	}
}

type countingLoader struct {
	PoolLoader
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
			Points:      2,
		},
		{
			ID:     "q2",
			Text:   "How many bits in a byte?",
			Answer: "8",
			Cohort: 3,
		},
	}
}
