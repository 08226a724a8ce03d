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

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	migrate "github.com/rubenv/sql-migrate"

	pkgvalidator "github.com/johnquangdev/video-summarizer/pkg/validator"

	_ "github.com/johnquangdev/video-summarizer/docs"
	"github.com/johnquangdev/video-summarizer/internal/adapter/handler"
	"github.com/johnquangdev/video-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/video-summarizer/internal/infrastructure/cache"
	"github.com/johnquangdev/video-summarizer/internal/infrastructure/database"
	"github.com/johnquangdev/video-summarizer/internal/infrastructure/storage"
	"github.com/johnquangdev/video-summarizer/internal/infrastructure/watcher"
	"github.com/johnquangdev/video-summarizer/internal/usecase/job"
	"github.com/johnquangdev/video-summarizer/internal/usecase/summarize"
	pkgai "github.com/johnquangdev/video-summarizer/pkg/ai"
	"github.com/johnquangdev/video-summarizer/pkg/config"
	"github.com/johnquangdev/video-summarizer/pkg/executor"
)

// @title           Video Summarizer API
// @version         1.0
// @description     Turns long videos into short summary cuts: transcription, key segment selection and assembly.

// @contact.name   API Support

// @BasePath  /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// Tag every request so error logs can be correlated
	e.Use(middleware.RequestID())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	// Reject oversized uploads before they are buffered; the handler enforces the exact limit
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Upload.MaxSizeMB+1)))

	log.Println("🔧 Initializing dependencies...")

	for _, dir := range []string{cfg.Upload.Dir, cfg.Upload.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	// Job store
	log.Printf("📦 Initializing %s job store...", cfg.JobStore)
	jobRepo, closeStore, err := newJobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize job store: %v", err)
	}
	defer closeStore()

	// Pipeline
	log.Println("🤖 Initializing summarization pipeline...")
	exec := executor.New()
	prober := summarize.NewProber(exec, cfg.Pipeline.FFprobePath)
	transcriber := newTranscriber(cfg, exec, logger)

	var completer summarize.Completer
	if cfg.ReasoningEnabled() {
		completer = pkgai.NewGroqClient(&cfg.Groq)
		log.Printf("✅ Reasoning service enabled (model %s)", cfg.Groq.Model)
	} else {
		log.Println("⚠️  GROQ_API_KEY not set, segment selection uses the fallback only")
	}
	selector := summarize.NewReasoningSelector(
		completer,
		summarize.NewParser(pkgvalidator.New(), cfg.Pipeline.MaxSegments),
		summarize.NewFallbackSelector(cfg.Pipeline.FallbackClipSecs),
		cfg.Pipeline.ReasoningTimeout,
		logger,
	)
	assembler := summarize.NewFFmpegAssembler(exec, prober, cfg.Pipeline, logger)
	pipeline := summarize.NewPipeline(transcriber, selector, assembler, logger)

	// Artifact publishing
	var publisher job.Publisher
	if cfg.Storage.Enabled {
		log.Println("🪣 Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(context.Background(), &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		publisher = minioClient
	}

	jobService := job.NewService(jobRepo, pipeline, publisher, cfg.Pipeline.JobTimeout, logger)

	// Folder intake
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if cfg.Watch.Dir != "" {
		claims := cache.NewMemoryStore(time.Minute)
		defer claims.Close()

		w, err := watcher.New(cfg.Watch.Dir, func(ctx context.Context, path string) error {
			opts := entities.JobOptions{
				SummaryType:  entities.DefaultSummaryType,
				TargetLength: entities.DefaultTargetLength,
			}
			_, err := jobService.Submit(ctx, path, cfg.Upload.OutputDir, opts)
			return err
		}, claims, cfg.Watch.MaxConcurrent, logger)
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", cfg.Watch.Dir, err)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(watchCtx); err != nil && err != context.Canceled {
				logger.Error("❌ Folder intake stopped", zap.Error(err))
			}
		}()
		log.Printf("👀 Watching %s for new videos", cfg.Watch.Dir)
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	summaryHandler := handler.NewSummary(jobService, prober, cfg, logger)
	router := handler.NewRouter(cfg, summaryHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("⏳ Waiting for running jobs...")
	done := make(chan struct{})
	go func() {
		jobService.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Println("⚠️  Shutdown timeout reached with jobs still running")
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newJobStore opens the configured job registry and returns a func releasing it
func newJobStore(cfg *config.Config) (repositories.JobRepository, func(), error) {
	switch cfg.JobStore {
	case config.JobStoreRedis:
		log.Println("📦 Connecting to Redis...")
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisJobRepository(client), func() { client.Close() }, nil

	case config.JobStorePostgres:
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			log.Println("🔄 Applying sql-migrate migrations...")
			n, err := database.Migrate(db, database.DefaultMigrationsDir, migrate.Up, 0)
			if err != nil {
				database.CloseDB(db)
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Printf("✅ Applied %d migrations", n)
		} else {
			log.Println("🔄 Skipping migrations; run cmd/migrate to manage the schema")
		}
		return repository.NewJobRepository(db), func() { database.CloseDB(db) }, nil

	default:
		return repository.NewMemoryJobRepository(), func() {}, nil
	}
}

func newTranscriber(cfg *config.Config, exec executor.Executor, logger *zap.Logger) summarize.Transcriber {
	if cfg.Transcriber == config.TranscriberAssemblyAI {
		log.Println("🎙️  Transcribing with AssemblyAI")
		return summarize.NewAssemblyAITranscriber(pkgai.NewAssemblyAIClient(&cfg.Assembly), logger)
	}
	log.Printf("🎙️  Transcribing locally with %s", cfg.Whisper.BinaryPath)
	return summarize.NewWhisperTranscriber(exec, cfg.Pipeline.FFmpegPath, cfg.Whisper, logger)
}
