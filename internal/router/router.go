package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studydesk-backend/internal/handlers"
	"studydesk-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	documentHandler *handlers.DocumentHandler,
	materialHandler *handlers.MaterialHandler,
	chatHandler *handlers.ChatHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/me", authHandler.Me)
			})
		})

		// ──── Document Routes ────
		r.Route("/documents", func(r chi.Router) {
			r.Get("/supported-formats", documentHandler.SupportedFormats) // Public

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/upload", documentHandler.Upload)
				r.Get("/", documentHandler.List)
				r.Get("/{documentID}", documentHandler.Get)
				r.Delete("/{documentID}", documentHandler.Delete)
			})
		})

		// ──── Material Routes ────
		r.Route("/materials", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Route("/summaries", func(r chi.Router) {
				r.Post("/{documentID}", materialHandler.GenerateSummary)
				r.Get("/{documentID}", materialHandler.GetSummary)
			})

			r.Route("/quizzes", func(r chi.Router) {
				r.Post("/{documentID}", materialHandler.GenerateQuiz)
				r.Get("/{documentID}", materialHandler.GetQuiz)
			})

			r.Route("/flashcards", func(r chi.Router) {
				r.Put("/cards/{flashcardID}/review", materialHandler.ReviewFlashcard)
				r.Post("/{documentID}", materialHandler.GenerateFlashcards)
				r.Get("/{documentID}", materialHandler.GetFlashcards)
			})
		})

		// ──── Chat Routes ────
		r.Route("/chat", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/ask", chatHandler.Ask)
			r.Get("/documents", chatHandler.Documents)
		})
	})

	return r
}
