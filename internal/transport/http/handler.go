// Package http exposes the assignment engine over HTTP: today's quiz,
// result submission, and the leaderboard, plus a websocket stream of
// leaderboard updates.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"daily-quiz-service/internal/app"
	"daily-quiz-service/internal/daily"
	"daily-quiz-service/internal/domain"
)

// Handler serves the daily quiz endpoints.
type Handler struct {
	service     *app.AssignmentService
	loc         *time.Location
	cutoverHour int
	clock       func() time.Time
}

func NewHandler(service *app.AssignmentService, loc *time.Location, cutoverHour int) *Handler {
	if cutoverHour <= 0 {
		cutoverHour = daily.DefaultCutoverHour
	}
	return &Handler{
		service:     service,
		loc:         loc,
		cutoverHour: cutoverHour,
		clock:       time.Now,
	}
}

// quizDateFor applies the quiz-day boundary rule for "now" requests.
func (h *Handler) quizDateFor() string {
	return daily.QuizDateAt(h.clock(), h.loc, h.cutoverHour)
}

// DailyQuiz handles GET /daily/quiz?cohort=C[&date=D].
func (h *Handler) DailyQuiz(w http.ResponseWriter, r *http.Request) {
	cohort, err := cohortParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid cohort")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.quizDateFor()
	}

	quiz, err := h.service.DailyQuiz(r.Context(), date, cohort)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

type submitRequest struct {
	Cohort      int    `json:"cohort"`
	Score       int    `json:"score"`
	TotalPoints int    `json:"totalPoints"`
	QuizDate    string `json:"quizDate"`
}

type submitResponse struct {
	Success bool           `json:"success"`
	Attempt domain.Attempt `json:"attempt"`
}

// SubmitResult handles POST /daily/results. Identity comes from the JWT
// middleware; the quiz date defaults to "now" under the cutover rule.
func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuizDate == "" {
		req.QuizDate = h.quizDateFor()
	}

	attempt, err := h.service.Submit(r.Context(), userID, req.QuizDate, req.Cohort, req.Score, req.TotalPoints)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{Success: true, Attempt: attempt})
}

// Leaderboard handles GET /daily/leaderboard?cohort=C[&date=D].
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	cohort, err := cohortParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid cohort")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.quizDateFor()
	}

	lb, err := h.service.Leaderboard(r.Context(), date, cohort)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func cohortParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("cohort")
	cohort, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if err := daily.ValidateCohort(cohort); err != nil {
		return 0, err
	}
	return cohort, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps the error taxonomy onto status codes. Anything
// outside the taxonomy is a storage/infrastructure fault.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPoolEmpty):
		writeError(w, http.StatusNotFound, "no questions available for this cohort yet")
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "no quiz session exists for this day")
	case errors.Is(err, domain.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, "result already submitted for this quiz")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
