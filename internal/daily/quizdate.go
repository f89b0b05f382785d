// Package daily holds the pure scheduling primitives of the assignment
// engine: the quiz-day boundary rule, seed derivation, and the
// deterministic shuffle stream. Nothing here performs I/O.
package daily

import (
	"fmt"
	"time"

	"daily-quiz-service/internal/domain"
)

// DateFormat is the canonical quiz date layout.
const DateFormat = "2006-01-02"

// DefaultCutoverHour is the local-clock hour before which an instant still
// belongs to the previous calendar date's quiz day.
const DefaultCutoverHour = 4

// QuizDateAt computes the quiz date for an instant in the given civil zone.
// Instants whose local clock reads before the cutover hour map to the
// previous calendar date.
func QuizDateAt(t time.Time, loc *time.Location, cutoverHour int) string {
	local := t.In(loc)
	if local.Hour() < cutoverHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(DateFormat)
}

// ValidateDate checks that a caller-supplied quiz date is well-formed.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return fmt.Errorf("%w: quiz date %q", domain.ErrInvalidInput, date)
	}
	return nil
}

// ValidateCohort checks that a cohort identifier is a positive integer.
func ValidateCohort(cohort int) error {
	if cohort <= 0 {
		return fmt.Errorf("%w: cohort %d", domain.ErrInvalidInput, cohort)
	}
	return nil
}
