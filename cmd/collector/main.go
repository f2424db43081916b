package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketevents/internal/cache"
	"marketevents/internal/collector"
	"marketevents/internal/config"
	cronrunner "marketevents/internal/cron"
	"marketevents/internal/db"
	"marketevents/internal/enrich"
	"marketevents/internal/extract"
	"marketevents/internal/feed"
	"marketevents/internal/handler"
	"marketevents/internal/llm"
	"marketevents/internal/logger"
	"marketevents/internal/notion"
	"marketevents/internal/paas"
	"marketevents/internal/prompts"
	"marketevents/internal/publish"
	"marketevents/internal/repository"
	gormrepository "marketevents/internal/repository/gorm"

	_ "marketevents/docs"
)

func main() {
	runOnce := flag.String("run-once", "", "run one task and exit (daily|weekly|breaking|earnings|sentiment)")
	daemon := flag.Bool("daemon", false, "run the schedule and the HTTP API")
	flag.Parse()

	if *runOnce == "" && !*daemon {
		flag.Usage()
		os.Exit(2)
	}

	cfgPath := os.Getenv("MEV_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	envOnly := false
	if envOnlyRaw := os.Getenv("MEV_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		dbConn *db.DB
		repo   repository.Repository
	)
	dbConn, err = db.Open(cfg.DB, logger)
	switch {
	case errors.Is(err, db.ErrNoDSN):
		logger.Info("db dsn empty, ledger disabled")
	case err != nil:
		logger.Fatal("db open failed", zap.Error(err))
	default:
		defer db.Close(dbConn)
		if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
			logger.Warn("failed to set timezone", zap.Error(err))
		}
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
		repo = gormrepository.New(dbConn.Gorm)
	}

	promptStore, err := prompts.NewStore(cfg.Prompts.File, logger)
	if err != nil {
		logger.Fatal("load prompts failed", zap.Error(err))
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM, cfg.Retry, logger)
	if err != nil {
		logger.Fatal("llm client init failed", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logger.Warn("invalid schedule timezone, using UTC", zap.String("timezone", cfg.Schedule.Timezone), zap.Error(err))
		loc = time.UTC
	}
	now := func() time.Time { return time.Now().In(loc) }

	hub := feed.NewHub(logger)
	notionClient := notion.NewClient(&http.Client{Timeout: cfg.Notion.Timeout}, cfg.Notion.BaseURL, cfg.Notion.APIKey, cfg.Notion.Version)
	if cfg.Notion.APIKey == "" || cfg.Notion.ParentPageID == "" {
		logger.Warn("notion api key or parent page missing, publishing will fail")
	}
	paasClient := initPaaSClient(ctx, cfg.PaaS, logger)
	// Collection runs find the audit client on their context.
	ctx = paas.WithClient(ctx, paasClient)

	coll := &collector.Collector{
		LLM:     llmClient,
		Prompts: promptStore,
		Extractor: &extract.Extractor{
			LLM:     llmClient,
			Prompts: promptStore,
			Logger:  logger,
			Now:     now,
		},
		Enricher: &enrich.Enricher{
			LLM:            llmClient,
			Prompts:        promptStore,
			Cache:          cache.New(cfg.Cache, logger),
			SourceLookup:   cfg.Enrich.SourceLookup,
			SourceCacheTTL: cfg.Enrich.SourceCacheTTL,
			BatchSize:      cfg.Enrich.BatchSize,
			Logger:         logger,
		},
		Publisher: &publish.Publisher{
			Store:        publish.NewRetryingStore(notionClient, cfg.Retry, logger),
			ParentPageID: cfg.Notion.ParentPageID,
			DatabaseID:   cfg.Notion.DatabaseID,
			Repo:         repo,
			LLM:          llmClient,
			Prompts:      promptStore,
			Feed:         hub,
			Logger:       logger,
			Now:          now,
		},
		Repo:     repo,
		Logger:   logger,
		Location: loc,
	}

	if *runOnce != "" {
		task, err := collector.ParseTask(*runOnce)
		if err != nil {
			logger.Fatal("invalid task", zap.Error(err))
		}
		res := coll.Run(ctx, task, collector.TriggerCLI)
		fmt.Printf("task %s: processed=%d created=%d duplicates=%d\n", res.Task, res.Processed, res.Created, res.Duplicates)
		if res.Error != "" {
			os.Exit(1)
		}
		return
	}

	if err := runDaemon(ctx, cfg, logger, coll, hub, promptStore, dbConn, repo, paasClient, loc); err != nil {
		logger.Error("daemon stopped", zap.Error(err))
		os.Exit(1)
	}
}

func runDaemon(
	ctx context.Context,
	cfg config.Config,
	logger *zap.Logger,
	coll *collector.Collector,
	hub *feed.Hub,
	promptStore *prompts.Store,
	dbConn *db.DB,
	repo repository.Repository,
	paasClient *paas.Client,
	loc *time.Location,
) error {
	cronRunner := cronrunner.New(logger, ctx, loc)
	jobs := []struct {
		name string
		spec string
		task collector.Task
	}{
		{"pre_market", cfg.Schedule.PreMarket, collector.TaskDaily},
		{"post_market", cfg.Schedule.PostMarket, collector.TaskDaily},
		{"breaking", cfg.Schedule.Breaking, collector.TaskBreaking},
		{"earnings", cfg.Schedule.Earnings, collector.TaskEarnings},
		{"weekly", cfg.Schedule.Weekly, collector.TaskWeekly},
		{"sentiment", cfg.Schedule.Sentiment, collector.TaskSentiment},
	}
	for _, job := range jobs {
		task := job.task
		if _, err := cronRunner.Add(job.name, job.spec, func(ctx context.Context) {
			coll.Run(ctx, task, collector.TriggerSchedule)
		}); err != nil {
			return err
		}
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORSMiddleware())
	engine.Use(paas.RequireBearerMiddleware())
	engine.Use(paas.InjectClientMiddleware(paasClient))
	engine.Use(paas.PaaSWriteAuditMiddleware(paasClient, logger))

	health := &handler.HealthHandler{}
	if dbConn != nil {
		health.DB = dbConn.Gorm
	}
	health.Register(engine)
	paas.RegisterDocs(engine)
	handler.RegisterInfra(engine)
	(&handler.EventHandler{Repo: repo, Feed: hub, Logger: logger}).Register(engine)
	(&handler.RunHandler{Repo: repo}).Register(engine)
	(&handler.TaskHandler{Runner: coll, Schedule: cronRunner, BaseCtx: ctx, Logger: logger}).Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Prompts.Watch {
		if err := promptStore.Watch(gctx); err != nil {
			logger.Warn("prompt watcher disabled", zap.Error(err))
		}
	}

	cronRunner.Start()
	defer cronRunner.Stop()

	return g.Wait()
}

func initPaaSClient(ctx context.Context, cfg config.PaaSConfig, logger *zap.Logger) *paas.Client {
	p := paas.New(cfg.BaseURL, cfg.APIKey, cfg.Agent)
	if p == nil {
		return nil
	}
	lctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := p.Login(lctx); err != nil {
		logger.Warn("paas login failed (audit logs disabled)", zap.Error(err))
		return nil
	}
	logger.Info("paas login ok")
	return p
}
