package memory

import (
	"context"
	"sync"

	"daily-quiz-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptStore.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.Attempt // keyed userID|sessionID
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]domain.Attempt)}
}

func attemptKey(userID, sessionID string) string {
	return userID + "|" + sessionID
}

func (s *AttemptStore) GetAttempt(_ context.Context, userID, sessionID string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if attempt, ok := s.attempts[attemptKey(userID, sessionID)]; ok {
		return attempt, nil
	}
	return domain.Attempt{}, domain.ErrAttemptNotFound
}

func (s *AttemptStore) CreateAttemptIfAbsent(_ context.Context, attempt domain.Attempt) (bool, error) {
	key := attemptKey(attempt.UserID, attempt.SessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[key]; ok {
		return false, nil
	}
	s.attempts[key] = attempt
	return true, nil
}

func (s *AttemptStore) ListAttempts(_ context.Context, sessionID string) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Attempt
	for _, attempt := range s.attempts {
		if attempt.SessionID == sessionID {
			out = append(out, attempt)
		}
	}
	return out, nil
}
