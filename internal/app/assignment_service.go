package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"daily-quiz-service/internal/daily"
	"daily-quiz-service/internal/domain"
)

// PoolLoader fetches the full eligible question list for a cohort. The set
// must be stable for a cohort at a given point in authoring time; its order
// does not matter, the service always reshuffles.
type PoolLoader interface {
	LoadPool(ctx context.Context, cohort int) ([]domain.Question, error)
}

// SessionStore abstracts how daily sessions are persisted (in-memory,
// Postgres, a Redis cache in front of either). CreateSessionIfAbsent must be
// atomic: it reports created=false when a row for the same (date, cohort)
// key already exists and must never overwrite one.
type SessionStore interface {
	GetSession(ctx context.Context, date string, cohort int) (domain.DailySession, error)
	CreateSessionIfAbsent(ctx context.Context, session domain.DailySession) (bool, error)
}

// AttemptStore persists the immutable result ledger. CreateAttemptIfAbsent
// carries the same atomic create-or-report contract keyed by
// (userID, sessionID).
type AttemptStore interface {
	GetAttempt(ctx context.Context, userID, sessionID string) (domain.Attempt, error)
	CreateAttemptIfAbsent(ctx context.Context, attempt domain.Attempt) (bool, error)
	ListAttempts(ctx context.Context, sessionID string) ([]domain.Attempt, error)
}

// DefaultDailyCount is the per-cohort target number of questions per day.
const DefaultDailyCount = 20

// AssignmentService owns the daily scheduling core: lazy idempotent session
// materialization, option presentation, the result ledger, and the
// leaderboard projection. It holds no per-key mutable state; all race
// resolution is delegated to the stores' create-if-absent primitives.
type AssignmentService struct {
	sessions   SessionStore
	attempts   AttemptStore
	pool       PoolLoader
	dailyCount int
	notifier   *LeaderboardNotifier
	clock      func() time.Time
}

// Option configures an AssignmentService.
type Option func(*AssignmentService)

// WithDailyCount overrides the per-day question target.
func WithDailyCount(n int) Option {
	return func(s *AssignmentService) {
		if n > 0 {
			s.dailyCount = n
		}
	}
}

// WithClock is test-only for deterministic completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *AssignmentService) { s.clock = now }
}

func NewAssignmentService(sessions SessionStore, attempts AttemptStore, pool PoolLoader, opts ...Option) *AssignmentService {
	s := &AssignmentService{
		sessions:   sessions,
		attempts:   attempts,
		pool:       pool,
		dailyCount: DefaultDailyCount,
		notifier:   NewLeaderboardNotifier(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the canonical question-ID list for a (date, cohort) key,
// materializing it on first request. The chosen list is a pure function of
// the key, so concurrent first requests compute identical lists; the atomic
// create only prevents duplicate rows, never divergent content.
func (s *AssignmentService) Resolve(ctx context.Context, date string, cohort int) (domain.DailySession, error) {
	if err := daily.ValidateDate(date); err != nil {
		return domain.DailySession{}, err
	}
	if err := daily.ValidateCohort(cohort); err != nil {
		return domain.DailySession{}, err
	}

	session, err := s.sessions.GetSession(ctx, date, cohort)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return domain.DailySession{}, fmt.Errorf("read session: %w", err)
	}

	pool, err := s.pool.LoadPool(ctx, cohort)
	if err != nil {
		return domain.DailySession{}, fmt.Errorf("load pool: %w", err)
	}
	if len(pool) == 0 {
		return domain.DailySession{}, fmt.Errorf("%w: cohort %d", domain.ErrPoolEmpty, cohort)
	}

	ids := make([]string, len(pool))
	for i, q := range pool {
		ids[i] = q.ID
	}
	rng := daily.NewRand(daily.Seed(date, cohort))
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	count := s.dailyCount
	if len(ids) < count {
		count = len(ids)
	}

	session = domain.DailySession{
		ID:          uuid.NewString(),
		QuizDate:    date,
		Cohort:      cohort,
		QuestionIDs: ids[:count],
		CreatedAt:   s.clock(),
	}
	created, err := s.sessions.CreateSessionIfAbsent(ctx, session)
	if err != nil {
		return domain.DailySession{}, fmt.Errorf("create session: %w", err)
	}
	if created {
		return session, nil
	}
	// A concurrent creator won the race; its row is canonical. Discard the
	// local list and re-read.
	session, err = s.sessions.GetSession(ctx, date, cohort)
	if err != nil {
		return domain.DailySession{}, fmt.Errorf("re-read session after race: %w", err)
	}
	return session, nil
}

// DailyQuiz resolves the session for the key and returns the presented
// questions with per-question option permutations applied.
func (s *AssignmentService) DailyQuiz(ctx context.Context, date string, cohort int) (domain.DailyQuiz, error) {
	session, err := s.Resolve(ctx, date, cohort)
	if err != nil {
		return domain.DailyQuiz{}, err
	}

	pool, err := s.pool.LoadPool(ctx, cohort)
	if err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("load pool: %w", err)
	}
	byID := make(map[string]domain.Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}

	baseSeed := daily.Seed(date, cohort)
	quiz := domain.DailyQuiz{
		QuizDate:  date,
		Cohort:    cohort,
		Questions: make([]domain.PresentedQuestion, 0, len(session.QuestionIDs)),
	}
	for idx, id := range session.QuestionIDs {
		q, ok := byID[id]
		if !ok {
			// Retired question; the stored list stays intact but the quiz
			// skips what can no longer be served.
			continue
		}
		quiz.Questions = append(quiz.Questions, Present(q, idx, baseSeed))
		quiz.MaxPoints += q.PointValue()
	}
	return quiz, nil
}

// Present permutes a question's options for its slot within a session.
// Open-answer questions pass through untouched, before any generator is
// constructed, so they never consume draws. Each slot gets its own stream
// seeded baseSeed+idx; a single shared stream would correlate every
// permutation in the session.
func Present(q domain.Question, idx int, baseSeed uint32) domain.PresentedQuestion {
	p := domain.PresentedQuestion{
		ID:          q.ID,
		Text:        q.Text,
		Answer:      q.Answer,
		Explanation: q.Explanation,
		Hint:        q.Hint,
		Points:      q.PointValue(),
	}
	if !q.IsMultipleChoice() {
		return p
	}

	perm := daily.NewRand(baseSeed + uint32(idx)).Perm(len(q.Options))
	p.Options = make([]string, len(q.Options))
	for k, from := range perm {
		p.Options[k] = q.Options[from]
	}
	newPos := make(map[int]int, len(perm))
	for k, from := range perm {
		newPos[from] = k
	}
	p.CorrectIdxs = make([]int, len(q.CorrectIdxs))
	for i, c := range q.CorrectIdxs {
		p.CorrectIdxs[i] = newPos[c]
	}
	return p
}

// Submit records a user's single permitted result for the key's session.
// The session is resolved read-only: a submission implies the quiz was
// already served, so a missing session is an error, never a trigger for
// materialization.
func (s *AssignmentService) Submit(ctx context.Context, userID, date string, cohort, score, totalPoints int) (domain.Attempt, error) {
	if err := daily.ValidateDate(date); err != nil {
		return domain.Attempt{}, err
	}
	if err := daily.ValidateCohort(cohort); err != nil {
		return domain.Attempt{}, err
	}

	session, err := s.sessions.GetSession(ctx, date, cohort)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Attempt{}, err
		}
		return domain.Attempt{}, fmt.Errorf("read session: %w", err)
	}

	if _, err := s.attempts.GetAttempt(ctx, userID, session.ID); err == nil {
		return domain.Attempt{}, domain.ErrDuplicateSubmission
	} else if !errors.Is(err, domain.ErrAttemptNotFound) {
		return domain.Attempt{}, fmt.Errorf("read attempt: %w", err)
	}

	attempt := domain.Attempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		SessionID:   session.ID,
		Score:       score,
		TotalPoints: totalPoints,
		CompletedAt: s.clock(),
	}
	created, err := s.attempts.CreateAttemptIfAbsent(ctx, attempt)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("create attempt: %w", err)
	}
	if !created {
		// Lost a near-simultaneous race from the same user.
		return domain.Attempt{}, domain.ErrDuplicateSubmission
	}

	if lb, err := s.Leaderboard(ctx, date, cohort); err == nil {
		s.notifier.Publish(date, cohort, lb)
	}
	return attempt, nil
}

// Leaderboard builds the read-only ranking projection for an existing
// session: points descending, earlier finisher first, dense strictly
// increasing ranks even on ties.
func (s *AssignmentService) Leaderboard(ctx context.Context, date string, cohort int) (domain.Leaderboard, error) {
	if err := daily.ValidateDate(date); err != nil {
		return domain.Leaderboard{}, err
	}
	if err := daily.ValidateCohort(cohort); err != nil {
		return domain.Leaderboard{}, err
	}

	session, err := s.sessions.GetSession(ctx, date, cohort)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Leaderboard{}, err
		}
		return domain.Leaderboard{}, fmt.Errorf("read session: %w", err)
	}

	attempts, err := s.attempts.ListAttempts(ctx, session.ID)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("list attempts: %w", err)
	}
	sort.Slice(attempts, func(i, j int) bool {
		if attempts[i].TotalPoints != attempts[j].TotalPoints {
			return attempts[i].TotalPoints > attempts[j].TotalPoints
		}
		return attempts[i].CompletedAt.Before(attempts[j].CompletedAt)
	})

	lb := domain.Leaderboard{
		QuizDate: date,
		Cohort:   cohort,
		Entries:  make([]domain.LeaderboardEntry, len(attempts)),
	}
	var sumScore, sumPoints int
	for i, a := range attempts {
		lb.Entries[i] = domain.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      a.UserID,
			Score:       a.Score,
			TotalPoints: a.TotalPoints,
			CompletedAt: a.CompletedAt,
		}
		sumScore += a.Score
		sumPoints += a.TotalPoints
	}

	maxPoints, err := s.sessionMaxPoints(ctx, session)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	lb.Statistics = buildStats(len(attempts), sumScore, sumPoints, maxPoints)
	return lb, nil
}

func (s *AssignmentService) sessionMaxPoints(ctx context.Context, session domain.DailySession) (int, error) {
	pool, err := s.pool.LoadPool(ctx, session.Cohort)
	if err != nil {
		return 0, fmt.Errorf("load pool: %w", err)
	}
	points := make(map[string]int, len(pool))
	for _, q := range pool {
		points[q.ID] = q.PointValue()
	}
	total := 0
	for _, id := range session.QuestionIDs {
		total += points[id]
	}
	return total, nil
}

func buildStats(participants, sumScore, sumPoints, maxPoints int) domain.LeaderboardStats {
	stats := domain.LeaderboardStats{
		Participants: participants,
		MaxPoints:    maxPoints,
		Difficulty:   "hard",
	}
	if participants == 0 {
		return stats
	}
	stats.MeanScore = float64(sumScore) / float64(participants)
	stats.MeanPoints = float64(sumPoints) / float64(participants)
	if maxPoints > 0 {
		pct := stats.MeanPoints / float64(maxPoints) * 100
		switch {
		case pct >= 80:
			stats.Difficulty = "easy"
		case pct >= 70:
			stats.Difficulty = "medium"
		}
	}
	return stats
}

// Subscribe returns a channel receiving leaderboard updates for a key after
// each accepted submission. The caller must invoke cancel to avoid leaks.
func (s *AssignmentService) Subscribe(date string, cohort int) (<-chan domain.Leaderboard, func()) {
	return s.notifier.Subscribe(date, cohort)
}
