package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the daily quiz endpoints. Reads are public; submissions
// require a Bearer token.
func NewRouter(handler *Handler, wsHandler *WSHandler, auth *JWTAuth) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1/daily", func(r chi.Router) {
		r.Get("/quiz", handler.DailyQuiz)
		r.Get("/leaderboard", handler.Leaderboard)
		r.Get("/leaderboard/ws", wsHandler.ServeWS)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Post("/results", handler.SubmitResult)
		})
	})

	return r
}
