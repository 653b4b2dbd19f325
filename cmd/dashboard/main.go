package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/account"
	"portfolio_dashboard/internal/app/portfolio"
	"portfolio_dashboard/internal/app/resolver"
	"portfolio_dashboard/internal/infrastructure/configloader"
	"portfolio_dashboard/internal/infrastructure/datasource"
	"portfolio_dashboard/internal/infrastructure/restapi"
	"portfolio_dashboard/internal/pkg/logger"
	"portfolio_dashboard/internal/pkg/metrics"
	"portfolio_dashboard/internal/pkg/solanaaddr"
)

const defaultConfigPath = "config/config.yml"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}

	cfgPath := configloader.GetEnv("CONFIG_PATH", defaultConfigPath)
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger.ConfigureLogrus(cfg.Logging.Level)

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.InstallSlog(zapLogger)
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.NewMetrics("portfolio_dashboard", prometheus.DefaultRegisterer)

	source, err := datasource.FromConfig(cfg, zapLogger, m)
	if err != nil {
		zapLogger.Fatal("Failed to create data source", zap.Error(err))
	}

	registry := portfolio.NewRegistry(
		source,
		zapLogger,
		m,
		time.Duration(cfg.Portfolio.SessionTTLMinutes)*time.Minute,
		portfolio.WithFetchTimeout(time.Duration(cfg.Portfolio.FetchTimeoutMillis)*time.Millisecond),
	)
	defer registry.Close()

	res := resolver.New(
		solanaaddr.NewValidator(),
		zapLogger,
		m,
		time.Duration(cfg.Resolver.CacheTTLMinutes)*time.Minute,
	)
	accountSvc := account.NewService(source, zapLogger, cfg.Solana.SignatureLimit)

	router, err := restapi.SetupRouter(restapi.RouterDeps{
		Logger:       zapLogger,
		Metrics:      m,
		Gatherer:     prometheus.DefaultGatherer,
		AllowOrigins: cfg.CORS.AllowOrigins,
		PortfolioHandler: restapi.NewPortfolioHandler(
			registry,
			res,
			cfg.Solana.Cluster,
			time.Duration(cfg.Portfolio.RenderWaitMillis)*time.Millisecond,
			zapLogger,
		),
		AccountHandler: restapi.NewAccountHandler(accountSvc, res, cfg.Solana.Cluster),
	})
	if err != nil {
		zapLogger.Fatal("Failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port),
			zap.String("cluster", cfg.Solana.Cluster),
			zap.String("dataSource", cfg.Portfolio.DataSource))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
