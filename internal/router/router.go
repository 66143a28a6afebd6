package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studypack-backend/internal/handlers"
	"studypack-backend/internal/middleware"
	"studypack-backend/internal/websocket"
)

// New wires the API. wsHub may be nil when Redis is not configured, in which
// case /api/ws is not mounted.
func New(
	jwtAuth *middleware.JWTAuth,
	studyPackHandler *handlers.StudyPackHandler,
	progressHandler *handlers.ProgressHandler,
	explainHandler *handlers.ExplainHandler,
	statsHandler *handlers.StatsHandler,
	wsHub *websocket.Hub,
	generatePerMinute int,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// LLM-backed routes are limited per user
	generateLimiter := middleware.NewRateLimiter(generatePerMinute, time.Minute)
	explainLimiter := middleware.NewRateLimiter(generatePerMinute*3, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			// ──── Study Pack Routes ────
			r.Route("/study-packs", func(r chi.Router) {
				r.With(generateLimiter.Middleware).Post("/generate", studyPackHandler.Generate)
				r.Get("/", studyPackHandler.List)
				r.Get("/{id}", studyPackHandler.Get)
				r.Delete("/{id}", studyPackHandler.Delete)
				r.Get("/{id}/flashcards/export", studyPackHandler.ExportFlashcards)
			})

			// ──── Progress Routes ────
			r.Post("/flashcards/progress", progressHandler.SetMastery)
			r.Post("/quiz/attempt", progressHandler.RecordAttempt)

			// ──── Explain ────
			r.With(explainLimiter.Middleware).Post("/explain", explainHandler.Explain)

			// ──── User Stats ────
			r.Get("/user/stats", statsHandler.Stats)
		})

		// ──── WebSocket ────
		if wsHub != nil {
			r.Get("/ws", wsHub.HandleWebSocket)
		}
	})

	return r
}
