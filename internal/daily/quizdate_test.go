package daily

import (
	"errors"
	"testing"
	"time"

	"daily-quiz-service/internal/domain"
)

func TestQuizDateCutover(t *testing.T) {
	cet := time.FixedZone("CET", 3600)

	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"just before cutover", time.Date(2024, 1, 15, 3, 59, 59, 0, cet), "2024-01-14"},
		{"at cutover", time.Date(2024, 1, 15, 4, 0, 0, 0, cet), "2024-01-15"},
		{"midnight", time.Date(2024, 1, 15, 0, 0, 0, 0, cet), "2024-01-14"},
		{"evening", time.Date(2024, 1, 15, 22, 30, 0, 0, cet), "2024-01-15"},
		{"first of month before cutover", time.Date(2024, 3, 1, 2, 0, 0, 0, cet), "2024-02-29"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := QuizDateAt(tc.at, cet, DefaultCutoverHour); got != tc.want {
				t.Fatalf("QuizDateAt(%v) = %q, want %q", tc.at, got, tc.want)
			}
		})
	}
}

func TestQuizDateConvertsCallerZone(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	// 02:30 UTC is 03:30 CET, still the previous quiz day regardless of the
	// caller's wall clock.
	at := time.Date(2024, 1, 15, 2, 30, 0, 0, time.UTC)
	if got := QuizDateAt(at, cet, DefaultCutoverHour); got != "2024-01-14" {
		t.Fatalf("expected previous quiz day, got %q", got)
	}
}

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2024-01-15"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"", "15-01-2024", "2024-13-01", "yesterday"} {
		if err := ValidateDate(bad); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", bad, err)
		}
	}
}

func TestValidateCohort(t *testing.T) {
	if err := ValidateCohort(3); err != nil {
		t.Fatalf("valid cohort rejected: %v", err)
	}
	for _, bad := range []int{0, -1} {
		if err := ValidateCohort(bad); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %d, got %v", bad, err)
		}
	}
}
