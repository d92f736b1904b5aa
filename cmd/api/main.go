package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-matcher-backend/config"
	_ "resume-matcher-backend/docs" // Important for Swagger
	v1 "resume-matcher-backend/internal/delivery/http/v1"
	"resume-matcher-backend/internal/llm"
	"resume-matcher-backend/internal/repository/postgres"
	"resume-matcher-backend/internal/usecase"
	"resume-matcher-backend/pkg/database"
	"resume-matcher-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/unidoc/unipdf/v3/common/license"
)

// @title           Resume Matcher Backend API
// @version         1.0
// @description     Backend for matching candidate resumes against job postings using LLM analysis.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting resume matcher backend", "port", cfg.Port)

	// PDF export needs a unidoc license key
	if key := os.Getenv("UNIDOC_LICENSE_API_KEY"); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			logger.Log.Warn("Failed to set unidoc license key, PDF export may be unavailable", "error", err)
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Log.Error("Failed to create data directories", "error", err)
		os.Exit(1)
	}

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := postgres.EnsureSchema(context.Background(), dbPool); err != nil {
		logger.Log.Error("Failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	// 4. Setup Repositories
	jobRepo := postgres.NewJobRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	analysisRepo := postgres.NewAnalysisRepository(dbPool)

	// 5. Setup LLM Client
	llmClient := llm.NewClient(llm.Config{
		Endpoint:    cfg.AzureOpenAIEndpoint,
		APIKey:      cfg.AzureOpenAIAPIKey,
		Deployment:  cfg.AzureOpenAIDeployment,
		APIVersion:  cfg.AzureOpenAIAPIVersion,
		Model:       cfg.AzureOpenAIModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
	})

	// 6. Setup UseCases
	validate := validator.New()
	jobUC := usecase.NewJobUsecase(jobRepo, validate)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, jobRepo, cfg)
	analysisUC := usecase.NewAnalysisUsecase(analysisRepo, candidateRepo, jobRepo, llmClient)
	exportUC := usecase.NewExportUsecase(jobRepo, analysisUC)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		JobUC:       jobUC,
		CandidateUC: candidateUC,
		AnalysisUC:  analysisUC,
		ExportUC:    exportUC,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
