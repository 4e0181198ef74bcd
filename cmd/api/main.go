package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/conversation"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/delay"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/intent"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/jobs"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/media"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/upload"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/handlers"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/services"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/omnichat-inbox-be/cmd/api/docs"
)

// @title Omnichat Inbox API
// @version 1.0
// @description Inbound WhatsApp pipeline with AI replies, human agent handoff and intent webhooks
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel, cfg.Env)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting omnichat inbox api")

	// Init database
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("database_url", utils.MaskURL(cfg.DatabaseURL)).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := models.AutoMigrate(db.GORM); err != nil {
			log.Fatal().Err(err).Msg("auto migrate failed")
		}
		log.Info().Msg("schema auto-migrated")
	}

	// Init repositories
	conversationRepo := repositories.NewConversationRepo(db.GORM)
	messageRepo := repositories.NewMessageRepo(db.GORM)
	processedEventRepo := repositories.NewProcessedEventRepo(db.GORM)
	auditService := audit.NewService(db.GORM)

	// Init WhatsApp gateway
	waProvider, err := whatsapp.NewProvider(whatsapp.ProviderConfig{
		Type:               whatsapp.ProviderType(cfg.WhatsAppProvider),
		Timeout:            cfg.GatewayTimeout,
		ZAPIBaseURL:        cfg.ZAPIBaseURL,
		ZAPIInstanceID:     cfg.ZAPIInstanceID,
		ZAPIToken:          cfg.ZAPIToken,
		ZAPIClientToken:    cfg.ZAPIClientToken,
		GreenAPIInstanceID: cfg.GreenAPIInstanceID,
		GreenAPIToken:      cfg.GreenAPIToken,
		GreenAPIURL:        cfg.GreenAPIURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize whatsapp provider")
	}
	waService := whatsapp.NewService(waProvider)

	// Init LLM service (multi-provider support)
	llmType := llm.ProviderType(cfg.LLMProvider)
	completer, err := llm.NewProvider(llm.ProviderConfig{
		Type:        llmType,
		OpenAIKey:   cfg.OpenAIKey,
		GroqKey:     cfg.GroqKey,
		DeepSeekKey: cfg.DeepSeekKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize llm provider")
	}
	model := cfg.LLMModel
	if model == "" {
		model = llm.DefaultModel(llmType)
	}
	llmService := llm.NewService(completer, llm.Settings{
		Model:       model,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.AITimeout,
	})

	// Init media storage
	storageProvider, err := upload.NewProvider(context.Background(), upload.ProviderConfig{
		Type:                cfg.StorageProvider,
		UploadDir:           cfg.UploadDir,
		PublicBaseURL:       cfg.PublicBaseURL,
		AWSAccessKeyID:      cfg.AWSAccessKeyID,
		AWSSecretAccessKey:  cfg.AWSSecretAccessKey,
		AWSRegion:           cfg.AWSRegion,
		AWSS3Bucket:         cfg.AWSS3Bucket,
		CloudinaryCloudName: cfg.CloudinaryCloudName,
		CloudinaryAPIKey:    cfg.CloudinaryAPIKey,
		CloudinaryAPISecret: cfg.CloudinaryAPISecret,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage provider")
	}
	uploadService := upload.NewService(storageProvider)
	externalizer := media.NewExternalizer(uploadService, media.Config{
		MaxBytes:        cfg.MediaMaxBytes,
		DownloadTimeout: cfg.MediaDownloadTimeout,
	})

	log.Info().
		Str("whatsapp", waService.GetProviderName()).
		Str("llm", llmService.GetProviderName()).
		Str("model", model).
		Str("storage", uploadService.GetProviderName()).
		Msg("providers ready")

	// Intent webhooks run on the worker pool
	pool := jobs.NewWorkerPool(jobs.WorkerConfig{
		Concurrency: cfg.WebhookWorkers,
		QueueSize:   cfg.WebhookQueueSize,
		Timeout:     cfg.WebhookTimeout + time.Second,
		MaxRetries:  cfg.WebhookMaxRetries,
	})
	pool.RegisterHandler(intent.NewWebhookHandler(cfg.WebhookTimeout))
	if err := pool.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to start worker pool")
	}
	fanOut := intent.NewFanOut(map[intent.Kind]string{
		intent.KindLeadCapture:        cfg.WebhookLeadCaptureURL,
		intent.KindAppointmentBooking: cfg.WebhookAppointmentURL,
		intent.KindHumanHandoff:       cfg.WebhookHandoffURL,
		intent.KindSupportTicket:      cfg.WebhookSupportURL,
	}, pool)

	// Init services
	delayScheduler := delay.NewScheduler(delay.Config{
		MinSeconds:      cfg.DelayMinSeconds,
		MaxSeconds:      cfg.DelayMaxSeconds,
		FixedSeconds:    cfg.DelaySeconds,
		MaxBoundSeconds: cfg.DelayMaxBoundSeconds,
	})
	dispatcher := services.NewDispatcher(waService, delayScheduler, messageRepo, conversationRepo, auditService)
	responder := services.NewAIResponder(llmService, messageRepo, services.AIResponderConfig{
		HistoryLimit:    cfg.AIHistoryLimit,
		FallbackMessage: cfg.AIFallbackMessage,
		SystemPrompt: llm.BuildSystemPrompt(llm.Persona{
			BusinessName: cfg.BusinessName,
			Tone:         cfg.BusinessTone,
			Instructions: cfg.AIInstructions,
		}),
	})

	initialStatus, err := conversation.ParseStatus(cfg.ConversationInitialStatus)
	if err != nil || (initialStatus != conversation.StatusAIActive && initialStatus != conversation.StatusWaiting) {
		log.Warn().Str("value", cfg.ConversationInitialStatus).Msg("unsupported initial status, using ai_active")
		initialStatus = conversation.StatusAIActive
	}

	pipeline := services.NewPipelineService(services.PipelineDeps{
		Conversations: conversationRepo,
		Messages:      messageRepo,
		Guard:         services.NewIdempotencyGuard(processedEventRepo),
		Media:         externalizer,
		Responder:     responder,
		Dispatcher:    dispatcher,
		Intents:       fanOut,
	}, services.PipelineConfig{
		InitialStatus:  initialStatus,
		Timeout:        cfg.PipelineTimeout,
		ReopenGreeting: cfg.AIReopenGreeting,
	})
	agentService := services.NewAgentService(conversationRepo, messageRepo, dispatcher, auditService)
	transcriptService := services.NewTranscriptService(conversationRepo, messageRepo, export.NewService())

	// Housekeeping
	cron := scheduler.NewScheduler()
	if cfg.AuditRetentionDays > 0 {
		err := cron.AddTask("audit-cleanup", cfg.CleanupSchedule, time.Minute, func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -cfg.AuditRetentionDays)
			n, err := auditService.DeleteOlderThan(ctx, cutoff)
			if err == nil {
				log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("audit logs pruned")
			}
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to schedule audit cleanup")
		}
	}
	cron.Start()

	// Init handlers
	healthHandler := handlers.NewHealthHandler(waService)
	webhookHandler := handlers.NewWebhookHandler(pipeline)
	conversationHandler := handlers.NewConversationHandler(agentService)
	exportHandler := handlers.NewExportHandler(transcriptService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Omnichat Inbox API",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Gateway webhook
	app.Post("/webhook", webhookHandler.ReceiveWebhook)

	// Agent API
	conversationHandler.Register(app)
	app.Get("/conversations/:id/export", exportHandler.ExportConversation)

	// Locally stored media
	if local, ok := storageProvider.(*upload.LocalProvider); ok {
		app.Static("/uploads", local.BasePath())
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PipelineTimeout)
	defer cancel()
	if err := pipeline.Drain(ctx); err != nil {
		log.Warn().Err(err).Msg("in-flight events cancelled")
	}

	cron.Stop()
	pool.Stop()
	log.Info().Msg("bye")
}
