package main

import (
	"context"
	stdlog "log"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/daydaylx/gamex-sub000/api"
	"github.com/daydaylx/gamex-sub000/config"
	"github.com/daydaylx/gamex-sub000/database"
	"github.com/daydaylx/gamex-sub000/logger"
	"github.com/daydaylx/gamex-sub000/middleware"
	"github.com/daydaylx/gamex-sub000/repository"
	"github.com/daydaylx/gamex-sub000/services"
	"github.com/daydaylx/gamex-sub000/tracing"
	"github.com/daydaylx/gamex-sub000/utils"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		stdlog.Fatalf("FATAL: [Main] Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		stdlog.Fatalf("FATAL: [Main] Failed to build logger: %v", err)
	}
	defer log.Sync()
	utils.SetLogger(log)

	shutdownTracing, err := tracing.Init(context.Background(), log, cfg.Tracing)
	if err != nil {
		log.Warn("[Main] Tracing disabled, exporter init failed", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("[Main] Failed to flush traces", "error", err)
		}
	}()

	db, err := database.Init(cfg.Database.DSN, log)
	if err != nil {
		log.Fatal("[Main] Failed to initialize database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("[Main] Failed to auto-migrate database", "error", err)
	}
	log.Info("[Main] Database migration completed")

	// Content catalogues are read once at startup.
	templateRepo := repository.NewTemplateRepository(log)
	if n, err := templateRepo.LoadDir(cfg.Content.TemplatesDir); err != nil {
		log.Warn("[Main] Failed to load templates", "dir", cfg.Content.TemplatesDir, "error", err)
	} else {
		log.Info("[Main] Templates loaded", "count", n)
	}
	scenarioRepo := repository.NewScenarioRepository(log)
	if n, err := scenarioRepo.LoadFile(cfg.Content.ScenariosFile); err != nil {
		log.Warn("[Main] Failed to load scenarios", "file", cfg.Content.ScenariosFile, "error", err)
	} else {
		log.Info("[Main] Scenarios loaded", "count", n)
	}

	sessionRepo := repository.NewSessionRepository(db, log)
	responseRepo := repository.NewResponseRepository(db, log)
	planRepo := repository.NewPlanRepository(db, log)
	quotaRepo := repository.NewQuotaRepository(db, log)
	analysisRepo := repository.NewAnalysisRepository(db, log)

	var chat services.ChatCompleter
	if cfg.Analysis.Enabled {
		if cfg.LLM.APIKey == "" {
			log.Warn("[Main] Analysis enabled but no API key configured; requests will likely be rejected upstream")
		}
		chat = services.NewOpenAIClient(cfg.LLM)
		log.Info("[Main] LLM analysis enabled", "model", cfg.LLM.Model, "base_url", cfg.LLM.BaseURL, "quota_per_session", cfg.Analysis.QuotaPerSession)
	}

	sessionService := services.NewSessionService(sessionRepo, templateRepo, log)
	responseService := services.NewResponseService(sessionRepo, responseRepo, log)
	compareService := services.NewCompareService(sessionRepo, responseRepo, templateRepo, scenarioRepo, log)
	exportService := services.NewExportService()
	analysisService := services.NewAnalysisService(compareService, quotaRepo, analysisRepo, chat, cfg.LLM, cfg.Analysis, log)
	planService := services.NewPlanService(planRepo, compareService, log)
	progressService := services.NewProgressService(planRepo, log)

	apiHandler := api.NewAPIHandler(
		templateRepo,
		scenarioRepo,
		sessionService,
		responseService,
		compareService,
		exportService,
		analysisService,
		planService,
		progressService,
		cfg.Analysis.RedactDefault,
		log,
	)

	if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetTrustedProxies(nil)
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger(log), gin.Recovery(), middleware.Cors(cfg.Server.AllowedOrigins))
	api.RegisterRoutes(r, apiHandler)

	serverPort := ":" + cfg.Server.Port
	if cfg.Server.Port == "" {
		log.Warn("[Main] Server port not configured, using default :8080")
		serverPort = ":8080"
	}
	log.Info("[Main] Starting server", "addr", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatal("[Main] Server failed to start", "error", err)
	}
}
