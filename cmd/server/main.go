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

	"studypack-backend/internal/config"
	"studypack-backend/internal/database"
	"studypack-backend/internal/handlers"
	"studypack-backend/internal/middleware"
	"studypack-backend/internal/repository"
	"studypack-backend/internal/router"
	"studypack-backend/internal/services"
	"studypack-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting StudyPack Backend...")

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

	// ──── Step 3: Run Database Migrations ────
	applied, err := database.RunMigrations(context.Background(), pool, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Printf("✓ Database migrations applied (%d new)", len(applied))

	// ──── Step 4: Initialize Redis Clients (optional) ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	if redisClients != nil {
		log.Println("✓ Redis connected")
	} else {
		log.Println("  Redis not configured: explain cache, progress events and websocket disabled")
	}

	// ──── Step 5: Initialize LLM Generator ────
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	var generator services.Generator
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		gemini, err := services.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMConcurrentReqs, timeout)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gemini.Close()
		generator = gemini
	default:
		generator = services.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMConcurrentReqs, timeout)
	}
	log.Printf("✓ LLM generator initialized (%s)", cfg.LLMProvider)

	// ──── Initialize Repositories ────
	packRepo := repository.NewStudyPackRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)
	quizRepo := repository.NewQuizRepo(pool)
	progressRepo := repository.NewProgressRepo(pool)
	txManager := database.NewTxManager(pool)

	// ──── Initialize Services ────
	var notifier services.Notifier = services.NopNotifier{}
	var explainCache services.ExplainCache
	if redisClients != nil {
		notifier = services.NewRedisNotifier(redisClients.PubSub)
		explainCache = services.NewRedisExplainCache(redisClients.Cache)
	}

	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	studyPackService := services.NewStudyPackService(packRepo, flashcardRepo, quizRepo, progressRepo, txManager, generator, notifier)
	progressService := services.NewProgressService(packRepo, flashcardRepo, progressRepo)
	explainService := services.NewExplainService(generator, explainCache, time.Duration(cfg.ExplainCacheTTLMinutes)*time.Minute)

	// ──── Initialize Handlers ────
	studyPackHandler := handlers.NewStudyPackHandler(studyPackService, cfg.MaxUploadBytes())
	progressHandler := handlers.NewProgressHandler(progressService)
	explainHandler := handlers.NewExplainHandler(explainService)
	statsHandler := handlers.NewStatsHandler(studyPackService)

	// ──── Step 6: Start WebSocket Hub ────
	var wsHub *websocket.Hub
	if redisClients != nil {
		wsHub = websocket.NewHub(redisClients.PubSub, jwtAuth)
		log.Println("✓ WebSocket hub started")
	}

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		studyPackHandler,
		progressHandler,
		explainHandler,
		statsHandler,
		wsHub,
		cfg.GenerateRatePerMinute,
		cfg.FrontendURL,
	)

	// Generation waits on the LLM, so the write deadline follows its timeout.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: timeout + 30*time.Second,
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

	log.Printf("✓ StudyPack Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)
	if wsHub != nil {
		log.Printf("  WS:  ws://localhost:%s/api/ws", cfg.Port)
	}

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
