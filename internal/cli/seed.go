package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"daily-quiz-service/internal/config"
	"daily-quiz-service/internal/domain"
)

type seedQuestion struct {
	ID          string   `json:"id"`
	Cohort      int      `json:"cohort"`
	Text        string   `json:"text"`
	Options     []string `json:"options,omitempty"`
	CorrectIdxs []int    `json:"correctIndices,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Points      int      `json:"points,omitempty"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID          string `bun:"id,pk"`
	Cohort      int    `bun:"cohort"`
	Text        string `bun:"text"`
	Options     []byte `bun:"options,type:jsonb"`
	CorrectIdxs []byte `bun:"correct_indices,type:jsonb"`
	Answer      string `bun:"answer"`
	Explanation string `bun:"explanation"`
	Hint        string `bun:"hint"`
	Points      int    `bun:"points"`
}

// NewSeedCmd loads authored questions from a JSON file into Postgres.
// Existing ids are left untouched; authored content is never overwritten
// from here.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load questions from a JSON file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			return seedQuestions(cmd, cfg, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "config/questions.json", "path to questions JSON")
	return cmd
}

func seedQuestions(cmd *cobra.Command, cfg config.Config, file string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read questions file: %w", err)
	}
	var questions []seedQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return fmt.Errorf("parse questions file: %w", err)
	}
	for i, q := range questions {
		if err := validateSeedQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	ctx := cmd.Context()
	inserted := 0
	for _, q := range questions {
		row := &questionRow{
			ID:          q.ID,
			Cohort:      q.Cohort,
			Text:        q.Text,
			Answer:      q.Answer,
			Explanation: q.Explanation,
			Hint:        q.Hint,
			Points:      q.Points,
		}
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if row.Points == 0 {
			row.Points = 1
		}
		if len(q.Options) > 0 {
			row.Options, _ = json.Marshal(q.Options)
			row.CorrectIdxs, _ = json.Marshal(q.CorrectIdxs)
		}
		res, err := db.NewInsert().
			Model(row).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert question %s: %w", row.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	log.Printf("seeded %d of %d questions", inserted, len(questions))
	return nil
}

func validateSeedQuestion(q seedQuestion) error {
	if q.Cohort <= 0 {
		return fmt.Errorf("%w: cohort must be positive", domain.ErrInvalidInput)
	}
	if q.Text == "" {
		return fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	mcq := len(q.Options) > 0
	if mcq && q.Answer != "" {
		return fmt.Errorf("%w: options and answer are mutually exclusive", domain.ErrInvalidInput)
	}
	if !mcq && q.Answer == "" {
		return fmt.Errorf("%w: either options or answer is required", domain.ErrInvalidInput)
	}
	if mcq {
		if len(q.CorrectIdxs) == 0 {
			return fmt.Errorf("%w: multiple-choice question needs correct indices", domain.ErrInvalidInput)
		}
		for _, c := range q.CorrectIdxs {
			if c < 0 || c >= len(q.Options) {
				return fmt.Errorf("%w: correct index %d out of range", domain.ErrInvalidInput, c)
			}
		}
	}
	return nil
}
