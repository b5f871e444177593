package main

import (
	"ResearchHub/backend/go/internal/analysis"
	"ResearchHub/backend/go/internal/config"
	miniodb "ResearchHub/backend/go/internal/database/minio"
	redisdb "ResearchHub/backend/go/internal/database/redis"
	"ResearchHub/backend/go/internal/kvstore"
	"ResearchHub/backend/go/internal/research_service/api"
	"ResearchHub/backend/go/internal/research_service/service"
	"ResearchHub/backend/go/internal/research_service/store"
	"ResearchHub/backend/go/pkg/logger"
	"context"
	"log"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("research_service", "")

	appLogger.Info("Logger initialized")

	// Initialize the key-value store (the single source of durable truth)
	rdb, err := redisdb.GetClient(&cfg.Databases.Redis)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	kv := kvstore.NewRedisStore(rdb)
	defer redisdb.Close()

	health := map[string]api.HealthFunc{
		"redis": redisdb.HealthCheck,
	}

	// Initialize the raw-file archive (optional)
	var archive service.Archive
	if cfg.Databases.MinIO.Endpoint != "" {
		ctx := context.Background()
		mc, err := miniodb.GetClient(&cfg.Databases.MinIO)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		if err := miniodb.EnsureBucket(ctx, &cfg.Databases.MinIO); err != nil {
			appLogger.Fatal(err.Error())
		}
		archive = service.NewMinioArchive(mc, cfg.Databases.MinIO.Bucket)
		health["minio"] = miniodb.HealthCheck
		appLogger.Info("Raw-file archive enabled")
	} else {
		appLogger.Warn("MinIO not configured, raw-file archive disabled")
	}

	// Initialize the analysis client
	var analyzer analysis.Analyzer
	if cfg.LLM.Provider != "" {
		analyzer, err = analysis.NewClient(cfg.LLM)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		appLogger.Info("Analysis client initialized: " + cfg.LLM.Provider)
	} else {
		appLogger.Warn("No analysis provider configured, documents will get the fallback result")
	}

	// Initialize dependencies (Store -> Service -> Handler)
	repo := store.NewRepository(kv, appLogger)
	repo.Load(context.Background())

	svc := service.NewService(repo, analyzer, archive, cfg.Upload, cfg.LLM.TimeoutSeconds, appLogger)
	apiHandler := api.NewHandler(svc, health)
	appLogger.Info("Dependencies injected")

	// Setup and start Gin router
	router := api.SetupRouter(apiHandler, cfg, appLogger)
	appLogger.Info("Router setup completed")

	serverAddress := cfg.Server.Address
	if serverAddress == "" {
		serverAddress = ":8080"
	}
	appLogger.Info("Starting server on " + serverAddress)

	if err := router.Run(serverAddress); err != nil {
		appLogger.Fatal(err.Error())
	}
}
