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

type sessionRow struct {
	bun.BaseModel `bun:"table:daily_sessions"`

	ID          string    `bun:"id,pk"`
	QuizDate    string    `bun:"quiz_date"`
	Cohort      int       `bun:"cohort"`
	QuestionIDs []string  `bun:"question_ids,type:jsonb"`
	CreatedAt   time.Time `bun:"created_at"`
}

// SessionStore persists daily sessions in Postgres. The UNIQUE
// (quiz_date, cohort) constraint is the only coordination primitive the
// materializer relies on.
type SessionStore struct {
	db *bun.DB
}

func NewSessionStore(db *bun.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) GetSession(ctx context.Context, date string, cohort int) (domain.DailySession, error) {
	row := new(sessionRow)
	err := s.db.NewSelect().
		Model(row).
		Where("quiz_date = ?", date).
		Where("cohort = ?", cohort).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DailySession{}, domain.ErrSessionNotFound
		}
		return domain.DailySession{}, fmt.Errorf("select session: %w", err)
	}
	return row.toDomain(), nil
}

// CreateSessionIfAbsent inserts with ON CONFLICT DO NOTHING; zero rows
// affected signals that a concurrent creator already owns the key.
func (s *SessionStore) CreateSessionIfAbsent(ctx context.Context, session domain.DailySession) (bool, error) {
	row := &sessionRow{
		ID:          session.ID,
		QuizDate:    session.QuizDate,
		Cohort:      session.Cohort,
		QuestionIDs: session.QuestionIDs,
		CreatedAt:   session.CreatedAt,
	}
	res, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (quiz_date, cohort) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("insert session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert session result: %w", err)
	}
	return affected == 1, nil
}

func (r *sessionRow) toDomain() domain.DailySession {
	return domain.DailySession{
		ID:          r.ID,
		QuizDate:    r.QuizDate,
		Cohort:      r.Cohort,
		QuestionIDs: r.QuestionIDs,
		CreatedAt:   r.CreatedAt,
	}
}
