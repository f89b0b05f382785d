package domain

import "errors"

var (
	// ErrInvalidInput is returned for malformed cohorts or quiz dates supplied by callers.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPoolEmpty is returned when no questions have been authored for a cohort.
	ErrPoolEmpty = errors.New("question pool is empty")
	// ErrSessionNotFound is returned when no daily session exists for a (date, cohort) key.
	ErrSessionNotFound = errors.New("daily session not found")
	// ErrAttemptNotFound is returned when a user has no attempt for a session.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrDuplicateSubmission is returned when a user already submitted a result for a session.
	ErrDuplicateSubmission = errors.New("result already submitted")
)
