package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studydesk-backend/internal/config"
	"studydesk-backend/internal/database"
	"studydesk-backend/internal/handlers"
	"studydesk-backend/internal/middleware"
	"studydesk-backend/internal/repository"
	"studydesk-backend/internal/router"
	"studydesk-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting StudyDesk Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	documentRepo := repository.NewDocumentRepo(pool)
	summaryRepo := repository.NewSummaryRepo(pool)
	quizRepo := repository.NewQuizRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiClient, err := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiClient.Close()
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠ GEMINI_API_KEY not set; generation endpoints will return 503")
	} else {
		log.Println("✓ Gemini client initialized")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret, time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth)
	extractService := services.NewExtractService()
	documentService := services.NewDocumentService(documentRepo, extractService, cfg.StoragePath)
	materialService := services.NewMaterialService(geminiClient, summaryRepo, quizRepo, flashcardRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	documentHandler := handlers.NewDocumentHandler(documentService, cfg.MaxUploadBytes)
	materialHandler := handlers.NewMaterialHandler(documentService, materialService)
	chatHandler := handlers.NewChatHandler(documentService, materialService)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		documentHandler,
		materialHandler,
		chatHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyDesk Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
