package domain

import "time"

// Question is authored content, read-only to this service. A question is
// either multiple-choice (Options plus CorrectIndices) or open-answer
// (Answer set, Options empty); never both.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []string `json:"options,omitempty"`
	CorrectIdxs []int    `json:"correctIndices,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Cohort      int      `json:"cohort"`
	Points      int      `json:"points"` // defaults to 1 if zero
}

// IsMultipleChoice reports whether the question carries answer options.
func (q Question) IsMultipleChoice() bool {
	return len(q.Options) > 0
}

// PointValue returns the points awarded for the question, defaulting to 1.
func (q Question) PointValue() int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}

// DailySession is the persisted, immutable assignment of questions to a
// (QuizDate, Cohort) key. The ordered ID list never changes after the first
// successful create.
type DailySession struct {
	ID          string    `json:"id"`
	QuizDate    string    `json:"quizDate"`
	Cohort      int       `json:"cohort"`
	QuestionIDs []string  `json:"questionIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Attempt is one user's single permitted submission against a session.
type Attempt struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SessionID   string    `json:"sessionId"`
	Score       int       `json:"score"`
	TotalPoints int       `json:"totalPoints"`
	CompletedAt time.Time `json:"completedAt"`
}

// PresentedQuestion is the ephemeral per-response view of a question with
// options permuted for the session. It is recomputed on every request and
// never persisted.
type PresentedQuestion struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []string `json:"options,omitempty"`
	CorrectIdxs []int    `json:"correctIndices,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Points      int      `json:"points"`
}

// DailyQuiz is the full payload served for "today's quiz".
type DailyQuiz struct {
	QuizDate  string              `json:"quizDate"`
	Cohort    int                 `json:"cohort"`
	Questions []PresentedQuestion `json:"questions"`
	MaxPoints int                 `json:"maxPoints"`
}

// LeaderboardEntry is one ranked row of a session's leaderboard.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"userId"`
	Score       int       `json:"score"`
	TotalPoints int       `json:"totalPoints"`
	CompletedAt time.Time `json:"completedAt"`
}

// LeaderboardStats summarizes a session's attempts.
type LeaderboardStats struct {
	Participants int     `json:"participants"`
	MeanScore    float64 `json:"meanScore"`
	MeanPoints   float64 `json:"meanPoints"`
	MaxPoints    int     `json:"maxPoints"`
	Difficulty   string  `json:"difficulty"`
}

// Leaderboard is the read-only ranking projection for a (date, cohort) key.
type Leaderboard struct {
	QuizDate   string             `json:"quizDate"`
	Cohort     int                `json:"cohort"`
	Entries    []LeaderboardEntry `json:"leaderboard"`
	Statistics LeaderboardStats   `json:"statistics"`
}
