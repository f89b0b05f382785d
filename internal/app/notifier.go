package app

import (
	"strconv"
	"sync"

	"daily-quiz-service/internal/domain"
)

// LeaderboardNotifier fans out leaderboard snapshots to in-process
// subscribers, keyed by (date, cohort). It is purely best-effort transport
// plumbing: the persisted ledger stays the source of truth.
type LeaderboardNotifier struct {
	mu   sync.Mutex
	subs map[string]map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardNotifier() *LeaderboardNotifier {
	return &LeaderboardNotifier{
		subs: make(map[string]map[chan domain.Leaderboard]struct{}),
	}
}

func notifierKey(date string, cohort int) string {
	return date + "|" + strconv.Itoa(cohort)
}

// Subscribe registers a buffered channel for a key. The cancel function is
// idempotent and closes the channel.
func (n *LeaderboardNotifier) Subscribe(date string, cohort int) (<-chan domain.Leaderboard, func()) {
	key := notifierKey(date, cohort)
	ch := make(chan domain.Leaderboard, 8)

	n.mu.Lock()
	if n.subs[key] == nil {
		n.subs[key] = make(map[chan domain.Leaderboard]struct{})
	}
	n.subs[key][ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if set, ok := n.subs[key]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(n.subs, key)
			}
		}
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber of the key. Slow consumers
// lose their oldest pending snapshot rather than blocking the publisher.
func (n *LeaderboardNotifier) Publish(date string, cohort int, lb domain.Leaderboard) {
	key := notifierKey(date, cohort)

	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs[key] {
		select {
		case ch <- lb:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
