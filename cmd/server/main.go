package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"lpscout/internal/client/meteora"
	"lpscout/internal/config"
	cronrunner "lpscout/internal/cron"
	"lpscout/internal/handler"
	applog "lpscout/internal/logger"
	"lpscout/internal/repository/memory"
	"lpscout/internal/service"
	"lpscout/internal/stream"

	_ "lpscout/docs"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfgPath := os.Getenv("LPS_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("LPS_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := applog.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	loc := cfg.App.Location()

	meteoraHTTP := &http.Client{Timeout: cfg.Meteora.Timeout}
	meteoraClient := meteora.NewClient(meteoraHTTP, cfg.Meteora.BaseURL, meteora.NewLimiter(cfg.Meteora.RequestsPerSecond))
	store := memory.New()
	hub := stream.NewHub(logger)

	refreshService := &service.PoolRefreshService{
		Source:        meteoraClient,
		Store:         store,
		History:       service.RandomDiscountHistory{MaxDiscount: cfg.Refresh.HistoryMaxDiscount},
		Publisher:     hub,
		Logger:        logger,
		TopN:          cfg.Refresh.TopN,
		AddressLength: cfg.Refresh.AddressLength,
	}
	queryService := &service.PoolQueryService{Store: store, Location: loc}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(applog.GinMiddleware(logger))
	engine.Use(handler.CORS(cfg.Server.AllowedOrigins))

	healthHandler := &handler.HealthHandler{Refresh: refreshService, Query: queryService}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	tokenHandler := &handler.TokenHandler{Query: queryService, Logger: logger}
	tokenHandler.Register(engine)
	streamHandler := &handler.StreamHandler{
		Hub:            hub,
		Query:          queryService,
		Logger:         logger,
		OriginPatterns: handler.OriginHosts(cfg.Server.AllowedOrigins),
		Buffer:         cfg.Stream.Buffer,
		WriteTimeout:   cfg.Stream.WriteTimeout,
	}
	streamHandler.Register(engine)
	refreshHandler := &handler.RefreshHandler{Service: refreshService, Logger: logger}
	refreshHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.Refresh.RunOnStartup {
		logger.Info("running initial pool refresh")
		if _, err := refreshService.Refresh(ctx); err != nil {
			logger.Warn("initial pool refresh failed (continuing)", zap.Error(err))
		}
	}

	cronRunner := cronrunner.New(logger, ctx, loc)
	if cfg.Cron.Enabled {
		id, err := cronRunner.Add(cfg.Cron.PoolRefresh, func(ctx context.Context) {
			if _, err := refreshService.Refresh(ctx); err != nil {
				logger.Warn("cron pool refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Fatal("cron register pool refresh failed", zap.String("spec", cfg.Cron.PoolRefresh), zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
		logger.Info("pool refresh scheduled",
			zap.String("spec", cfg.Cron.PoolRefresh),
			zap.Time("next", cronRunner.Next(id)),
		)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", zap.Error(err))
	}
}
