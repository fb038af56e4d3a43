package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/yungbote/designmill-backend/internal/db"
	"github.com/yungbote/designmill-backend/internal/handlers"
	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/middleware"
	"github.com/yungbote/designmill-backend/internal/repos"
	"github.com/yungbote/designmill-backend/internal/server"
	"github.com/yungbote/designmill-backend/internal/services"
	"github.com/yungbote/designmill-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	dataDir := utils.GetEnv("DESIGNMILL_DATA_DIR", "data", log)
	maxRetries := utils.GetEnvAsInt("DESIGNMILL_MAX_RETRIES", 4, log)
	scheduleHour := utils.GetEnvAsInt("DESIGNMILL_SCHEDULE_HOUR", 9, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	variableRepo := repos.NewVariableRepo(thePG, log)
	historyRepo := repos.NewHistoryRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var synth services.TextSynthesizer = services.NullTextSynthesizer{}
	if os.Getenv("OPENAI_API_KEY") != "" {
		synth = services.NewOpenAITextSynthesizer(log)
	}
	engine := services.NewPromptEngine(log, variableRepo, synth, rng)
	novelty := services.NewNoveltyService(log, historyRepo)

	// DESIGNMILL_PROVIDER overrides the policy row's provider field.
	providerName := os.Getenv("DESIGNMILL_PROVIDER")
	if providerName == "" {
		if policy, err := variableRepo.Policy(context.Background()); err == nil {
			providerName = policy.Provider
		} else {
			log.Warn("Could not load policy for provider selection", "error", err)
			providerName = "synthetic"
		}
	}
	var provider services.ImageProvider
	switch providerName {
	case "openai":
		provider = services.NewOpenAIImageProvider(log, dataDir)
	default:
		provider = services.NewSyntheticProvider(log, dataDir)
	}
	pipeline := services.NewPipelineService(log, variableRepo, historyRepo, engine, novelty, provider, maxRetries, dataDir)

	// run-once mode: execute a single pipeline run and exit.
	if len(os.Args) > 1 && os.Args[1] == "run-once" {
		jobKey := time.Now().UTC().Format("2006-01-02T150405")
		res, err := pipeline.RunOnce(context.Background(), services.RunOptions{JobKey: jobKey})
		if err != nil {
			log.Error("Run failed", "error", err)
			os.Exit(1)
		}
		log.Info("Run finished", "run_id", res.RunID, "status", res.Status, "reason", res.Reason, "file_path", res.FilePath)
		return
	}

	// Scheduler
	scheduler := services.NewSchedulerService(log, pipeline, scheduleHour)
	go scheduler.Start(context.Background())

	// Handlers
	log.Info("Setting up handlers from main...")
	runHandler := handlers.NewRunHandler(log, pipeline, historyRepo)
	variableHandler := handlers.NewVariableHandler(log, variableRepo)
	policyHandler := handlers.NewPolicyHandler(log, variableRepo)

	// Middleware
	log.Info("Setting up middleware from main...")
	requestMiddleware := middleware.NewRequestMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		RunHandler:        runHandler,
		VariableHandler:   variableHandler,
		PolicyHandler:     policyHandler,
		RequestMiddleware: requestMiddleware,
		AssetsDir:         dataDir,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
