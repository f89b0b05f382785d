package memory

import (
	"context"
	"strconv"
	"sync"

	"daily-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionStore. The
// create-if-absent contract is honored under a single mutex, which mirrors
// the unique-key constraint a relational store provides.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.DailySession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.DailySession)}
}

func sessionKey(date string, cohort int) string {
	return date + "|" + strconv.Itoa(cohort)
}

func (s *SessionStore) GetSession(_ context.Context, date string, cohort int) (domain.DailySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[sessionKey(date, cohort)]; ok {
		return session, nil
	}
	return domain.DailySession{}, domain.ErrSessionNotFound
}

func (s *SessionStore) CreateSessionIfAbsent(_ context.Context, session domain.DailySession) (bool, error) {
	key := sessionKey(session.QuizDate, session.Cohort)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[key]; ok {
		return false, nil
	}
	s.sessions[key] = session
	return true, nil
}
