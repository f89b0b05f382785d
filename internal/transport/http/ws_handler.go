package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"daily-quiz-service/internal/app"
	"daily-quiz-service/internal/domain"
)

// WSHandler streams leaderboard updates for a (date, cohort) key over a
// websocket: a snapshot on connect, then one message per accepted
// submission.
type WSHandler struct {
	service  *app.AssignmentService
	handler  *Handler
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AssignmentService, handler *Handler) *WSHandler {
	return &WSHandler{
		service: service,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type wsMessage struct {
	Type    string             `json:"type"`
	Payload domain.Leaderboard `json:"payload"`
}

// ServeWS upgrades GET /daily/leaderboard/ws?cohort=C[&date=D].
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	cohort, err := cohortParam(r)
	if err != nil {
		http.Error(w, "missing or invalid cohort", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.handler.quizDateFor()
	}

	// Resolve the snapshot before upgrading so key errors still map to
	// proper HTTP statuses.
	snapshot, err := h.service.Leaderboard(r.Context(), date, cohort)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Subscribe(date, cohort)
	defer cancel()

	send := make(chan wsMessage, 16)
	writerDone := make(chan struct{})
	readerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Reads are only used to detect the peer going away.
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send <- wsMessage{Type: "leaderboard", Payload: snapshot}

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				close(send)
				<-writerDone
				return
			}
			select {
			case send <- wsMessage{Type: "leaderboard", Payload: update}:
			case <-readerDone:
				close(send)
				<-writerDone
				return
			case <-writerDone:
				return
			}
		case <-readerDone:
			close(send)
			<-writerDone
			return
		case <-writerDone:
			return
		}
	}
}
