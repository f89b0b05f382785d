package app

import (
	"testing"

	"daily-quiz-service/internal/domain"
)

func TestNotifierCancelIsIdempotent(t *testing.T) {
	n := NewLeaderboardNotifier()
	_, cancel := n.Subscribe("2024-01-15", 3)
	cancel()
	cancel() // must not panic on double close
}

func TestNotifierDropsOldestForSlowConsumer(t *testing.T) {
	n := NewLeaderboardNotifier()
	ch, cancel := n.Subscribe("2024-01-15", 3)
	defer cancel()

	// Overfill the buffer; Publish must never block.
	for i := 0; i < 20; i++ {
		n.Publish("2024-01-15", 3, domain.Leaderboard{QuizDate: "2024-01-15", Cohort: i})
	}

	var last domain.Leaderboard
	for {
		select {
		case lb := <-ch:
			last = lb
			continue
		default:
		}
		break
	}
	if last.Cohort != 19 {
		t.Fatalf("expected newest snapshot last, got cohort %d", last.Cohort)
	}
}

func TestNotifierKeysAreIsolated(t *testing.T) {
	n := NewLeaderboardNotifier()
	a, cancelA := n.Subscribe("2024-01-15", 3)
	defer cancelA()
	_, cancelB := n.Subscribe("2024-01-15", 4)
	defer cancelB()

	n.Publish("2024-01-15", 4, domain.Leaderboard{})
	select {
	case <-a:
		t.Fatal("subscriber received a snapshot for a different key")
	default:
	}
}
