package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"visaprep/internal/agent"
	_ "visaprep/internal/agent/anthropic"
	_ "visaprep/internal/agent/openai"
	"visaprep/internal/config"
	"visaprep/internal/email/noop"
	"visaprep/internal/email/ses"
	"visaprep/internal/handler"
	"visaprep/internal/port"
	"visaprep/internal/repository/postgres"
	"visaprep/internal/router"
	"visaprep/internal/service"
	s3storage "visaprep/internal/storage/s3"
	"visaprep/internal/textextract"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env if present; environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	docRepo := postgres.NewDocumentRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewObjectStore(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	emailSender, err := buildEmailSender(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize the extraction agent
	modelClient, err := agent.NewModelClient(cfg.Agent.ProviderConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize model client: %w", err)
	}
	extractionAgent := agent.New(modelClient)
	settings := service.NewAgentSettings(agent.Config{
		Model:               cfg.Agent.Model,
		Temperature:         cfg.Agent.Temperature,
		MaxTokens:           cfg.Agent.MaxTokens,
		RetryAttempts:       cfg.Agent.RetryAttempts,
		ConfidenceThreshold: cfg.Agent.ConfidenceThreshold,
		EnableValidation:    cfg.Agent.EnableValidation,
		EnableCorrection:    cfg.Agent.EnableCorrection,
	})

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	docSvc := service.NewDocumentService(
		docRepo, fileRepo, userRepo, s3Client,
		textextract.New(), extractionAgent, settings, emailSender,
	)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc)
	docH := handler.NewDocumentHandler(docSvc)
	agentH := handler.NewAgentConfigHandler(settings)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, fileH, docH, agentH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start the extraction queue worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := service.NewExtractionQueueWorker(docRepo, docSvc, service.ExtractionQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(workerCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		stopWorker()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	stopWorker()
	<-workerDone
	return nil
}

func buildEmailSender(cfg *config.Config) (port.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
	default:
		return noop.NewNoopSender(), nil
	}
}
