package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"daily-quiz-service/internal/domain"
)

type attemptRow struct {
	bun.BaseModel `bun:"table:attempts"`

	ID          string    `bun:"id,pk"`
	UserID      string    `bun:"user_id"`
	SessionID   string    `bun:"session_id"`
	Score       int       `bun:"score"`
	TotalPoints int       `bun:"total_points"`
	CompletedAt time.Time `bun:"completed_at"`
}

// AttemptStore persists the immutable result ledger in Postgres. Rows are
// append-only; the UNIQUE (user_id, session_id) constraint enforces the
// one-attempt rule.
type AttemptStore struct {
	db *bun.DB
}

func NewAttemptStore(db *bun.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) GetAttempt(ctx context.Context, userID, sessionID string) (domain.Attempt, error) {
	row := new(attemptRow)
	err := s.db.NewSelect().
		Model(row).
		Where("user_id = ?", userID).
		Where("session_id = ?", sessionID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Attempt{}, domain.ErrAttemptNotFound
		}
		return domain.Attempt{}, fmt.Errorf("select attempt: %w", err)
	}
	return row.toDomain(), nil
}

func (s *AttemptStore) CreateAttemptIfAbsent(ctx context.Context, attempt domain.Attempt) (bool, error) {
	row := &attemptRow{
		ID:          attempt.ID,
		UserID:      attempt.UserID,
		SessionID:   attempt.SessionID,
		Score:       attempt.Score,
		TotalPoints: attempt.TotalPoints,
		CompletedAt: attempt.CompletedAt,
	}
	res, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, session_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("insert attempt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert attempt result: %w", err)
	}
	return affected == 1, nil
}

func (s *AttemptStore) ListAttempts(ctx context.Context, sessionID string) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("session_id = ?", sessionID).
		Order("completed_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select attempts: %w", err)
	}
	attempts := make([]domain.Attempt, len(rows))
	for i, r := range rows {
		attempts[i] = r.toDomain()
	}
	return attempts, nil
}

func (r *attemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		ID:          r.ID,
		UserID:      r.UserID,
		SessionID:   r.SessionID,
		Score:       r.Score,
		TotalPoints: r.TotalPoints,
		CompletedAt: r.CompletedAt,
	}
}
