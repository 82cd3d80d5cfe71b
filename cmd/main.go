package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdf-insight-nexus/internal/ai"
	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/internal/logger"
	"pdf-insight-nexus/internal/telemetry"
	"pdf-insight-nexus/middleware"
	"pdf-insight-nexus/routes"
	"pdf-insight-nexus/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.InitLogger(cfg)

	ctx := context.Background()

	// Tracing is opt-in
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("pdf-insight-nexus", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("Tracer init failed, continuing without tracing", "error", err)
		} else {
			defer shutdown()
		}
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics init failed", "error", err)
	}

	// Redis is optional: without it the embedding cache and rate limiter
	// are simply disabled.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("Invalid REDIS_URL:", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, continuing without it", "error", err)
			rdb = nil
		}
	}

	// AI clients: a misconfigured embedder is fatal at startup rather than
	// a corpus of silently broken vectors later.
	embedCache := ai.NewEmbedCache(rdb, time.Duration(cfg.EmbedCacheTTL)*time.Second)
	embedder, err := ai.NewEmbeddingService(ctx, cfg.GeminiAPIKey, cfg.EmbeddingsModel, embedCache)
	if err != nil {
		log.Fatal("Failed to create embedding service:", err)
	}
	defer embedder.Close()

	llm, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTier)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}
	defer llm.Close()

	// Document pipeline
	store := services.NewDocumentStore(cfg.PastStorePath(), cfg.CurrentStorePath())
	if err := store.Load(); err != nil {
		log.Fatal("Failed to load document store:", err)
	}
	extractor := services.NewPDFExtractor(cfg)
	processor := services.NewProcessor(cfg, extractor, embedder, store, metrics)
	engine := services.NewSearchEngine(cfg, store, embedder, metrics)

	// Collaborators
	chatbot := services.NewChatbotService(cfg, engine, store, llm)
	insights := services.NewInsightsService(cfg, engine, llm)
	tts := services.NewTTSClient(cfg.TTSServiceURL, cfg.TTSAPIKey, cfg.TTSLanguage,
		time.Duration(cfg.TTSTimeout)*time.Second)
	podcast := services.NewPodcastService(cfg, llm, tts)

	cleanup := services.NewCleanupService(cfg)
	if err := cleanup.Start(); err != nil {
		logger.Warn("Cleanup scheduler failed to start", "error", err)
	}
	defer cleanup.Stop()

	// HTTP server
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}
	if rdb != nil {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	router.MaxMultipartMemory = cfg.MaxFileSize

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	routes.SetupSearchRoutes(router, engine)
	routes.SetupDocumentRoutes(router, cfg, extractor, processor, store)
	routes.SetupChatRoutes(router, chatbot, insights, podcast)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
