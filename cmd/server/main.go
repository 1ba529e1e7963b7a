package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/maheshrc27/repurposer/configs"
	"github.com/maheshrc27/repurposer/internal/api/handlers"
	"github.com/maheshrc27/repurposer/internal/api/middleware"
	"github.com/maheshrc27/repurposer/internal/database"
	"github.com/maheshrc27/repurposer/internal/generator"
	job "github.com/maheshrc27/repurposer/internal/jobs"
	"github.com/maheshrc27/repurposer/internal/queue"
	"github.com/maheshrc27/repurposer/internal/repository"
	"github.com/maheshrc27/repurposer/internal/service"
	"github.com/maheshrc27/repurposer/migrations"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.Migrations {
		if err := database.RunMigrations(db, migrations.FS); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	ctx := context.Background()

	storage, err := service.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("Failed to configure object storage: %v", err)
	}

	live, closeLLM := newLLM(ctx, cfg)
	defer closeLLM()
	gen := generator.NewGenerator(live)

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()
	scheduler := queue.NewScheduler(client)

	originalRepo := repository.NewOriginalContentRepository(db)
	repurposedRepo := repository.NewRepurposedContentRepository(db)
	scheduledPostRepo := repository.NewScheduledPostRepository(db)
	orphanRepo := repository.NewOrphanedObjectRepository(db)

	contentService := service.NewContentService(originalRepo, repurposedRepo, orphanRepo, storage)
	repurposeService := service.NewRepurposeService(gen, contentService)
	transcripts := service.NewYouTubeTranscripts()
	extractService := service.NewExtractService(service.NewSafeHTTPClient(15*time.Second), transcripts)
	youtubeService := service.NewYouTubeService(transcripts)
	scheduleService := service.NewScheduleService(scheduledPostRepo, originalRepo, repurposedRepo, scheduler)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			id, err := gonanoid.New()
			if err != nil {
				return fmt.Sprintf("%d", time.Now().UnixNano())
			}
			return id
		},
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	platform := handlers.NewPlatformHandler()
	api.Get("/platforms", platform.ListPlatforms)
	api.Post("/platforms/:platform/check", platform.CheckContent)

	content := handlers.NewContentHandler(repurposeService, contentService, extractService)
	api.Post("/content/repurpose", content.Repurpose)
	api.Get("/content", content.ListContent)
	api.Get("/content/:id", content.GetContent)
	api.Post("/content/:id/regenerate", content.Regenerate)
	api.Get("/content/:id/versions/:platform", content.ListVersions)
	api.Get("/repurposed", content.ListRepurposed)

	youtube := handlers.NewYouTubeHandler(youtubeService)
	api.Post("/youtube/analyze", youtube.Analyze)

	schedule := handlers.NewScheduleHandler(scheduleService, cfg.Location())
	api.Post("/schedule", schedule.CreateSchedule)
	api.Get("/schedule", schedule.ListSchedule)
	api.Get("/schedule/summary", schedule.Summary)
	api.Patch("/schedule/:id", schedule.Reschedule)
	api.Delete("/schedule/:id", schedule.CancelSchedule)

	// cron jobs
	orphanCleanupJob := job.NewOrphanCleanupJob(orphanRepo, storage)
	pendingPostJob := job.NewPendingPostJob(scheduledPostRepo, scheduler)

	//queue
	queueW := queue.NewQueue(scheduledPostRepo, repurposedRepo, queue.LogPublisher{})

	c := cron.New()
	c.AddFunc("@every 00h10m00s", orphanCleanupJob.Run)
	c.AddFunc("@every 00h10m00s", pendingPostJob.Run)
	c.Start()
	defer c.Stop()

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: cfg.QueueConcurrency,
	})
	go func() {
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, server, db)
}

// newLLM picks the live client for the configured provider. Without an API
// key only fallback generation is available.
func newLLM(ctx context.Context, cfg *config.Config) (generator.LLMClient, func()) {
	settings := &generator.LLMSettings{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   cfg.LLMAPIKey(),
		BaseURL:  cfg.OpenAIBaseURL,
	}
	if settings.APIKey == "" {
		log.Println("Warning: no LLM API key configured, only fallback generation is available")
		return nil, func() {}
	}

	switch settings.Provider {
	case generator.ProviderGemini:
		llm, err := generator.NewGeminiLLM(ctx, settings)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		return llm, func() { llm.Close() }
	default:
		llm, err := generator.NewOpenAILLM(settings)
		if err != nil {
			log.Fatalf("Failed to create OpenAI client: %v", err)
		}
		return llm, func() {}
	}
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	server.Shutdown()

	closeDB(db)
	log.Println("Server shutdown complete.")
}
