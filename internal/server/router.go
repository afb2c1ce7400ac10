package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"document-qa/internal/session"
)

// NewRouter wires the HTTP surface over the session manager.
func NewRouter(sessions *session.Manager, maxUploadSize int64) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	h := &Handler{sessions: sessions, maxUploadSize: maxUploadSize}

	r.Post("/upload", h.Upload)
	r.Post("/ask", h.Ask)
	r.Get("/summary", h.Summary)
	r.Get("/chat-history", h.ChatHistory)
	r.Get("/suggested-questions", h.SuggestedQuestions)
	r.Get("/health", h.Health)
	r.Get("/status", h.Status)

	return r
}

// cors allows cross-origin requests; the frontend is served separately.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
