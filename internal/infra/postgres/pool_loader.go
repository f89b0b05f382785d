package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"daily-quiz-service/internal/domain"
)

// PoolLoader loads a cohort's eligible question list from Postgres. Options
// and correct indices live in JSONB columns.
type PoolLoader struct {
	pool *pgxpool.Pool
}

func NewPoolLoader(pool *pgxpool.Pool) *PoolLoader {
	return &PoolLoader{pool: pool}
}

func (l *PoolLoader) LoadPool(ctx context.Context, cohort int) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, text, options, correct_indices, answer, explanation, hint, points
		FROM questions
		WHERE cohort = $1
		ORDER BY id`, cohort)
	if err != nil {
		return nil, fmt.Errorf("query pool: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q := domain.Question{Cohort: cohort}
		var options, correct []byte
		if err := rows.Scan(&q.ID, &q.Text, &options, &correct, &q.Answer, &q.Explanation, &q.Hint, &q.Points); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, fmt.Errorf("unmarshal options for %s: %w", q.ID, err)
			}
		}
		if len(correct) > 0 {
			if err := json.Unmarshal(correct, &q.CorrectIdxs); err != nil {
				return nil, fmt.Errorf("unmarshal correct indices for %s: %w", q.ID, err)
			}
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool: %w", err)
	}
	return questions, nil
}
