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
	"go.uber.org/zap"

	"gmx_gateway/internal/app/service"
	"gmx_gateway/internal/infrastructure/configloader"
	clientprovider "gmx_gateway/internal/infrastructure/network/client"
	networkdefinition "gmx_gateway/internal/infrastructure/network/definition"
	"gmx_gateway/internal/infrastructure/restapi"
	"gmx_gateway/internal/pkg/logger"
	"gmx_gateway/internal/pkg/metrics"
	"gmx_gateway/internal/pkg/utils"
)

const defaultConfigPath = "config/config.yml"

func main() {
	tempZapLogger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize temporary zap logger: %v\n", err)
		os.Exit(1)
	}

	configPath := utils.GetEnv("CONFIG_PATH", defaultConfigPath)
	cfg, err := configloader.Load(configPath)
	if err != nil {
		tempZapLogger.Fatal("Failed to load configuration", zap.String("path", configPath), zap.Error(err))
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level)
	if err != nil {
		tempZapLogger.Fatal("Failed to initialize zap logger", zap.Error(err))
	}
	defer func() { _ = zapLogger.Sync() }()

	logger.InitSlog(cfg.Logging.Level, zapLogger)
	appLogger := logger.NewSlogAdapter()
	logger.Info("Logger initialized", "level", cfg.Logging.Level)

	metrics.MustRegisterMetrics()

	profileProvider := networkdefinition.NewNetworkProfileProvider(appLogger, cfg.GMX.RPCOverrides)
	if _, ok := profileProvider.GetProfileByChainID(cfg.GMX.DefaultChainID); !ok {
		logger.Fatal("Default chain id is not supported", "chain_id", cfg.GMX.DefaultChainID)
	}

	clients := clientprovider.NewGMXClientProvider(cfg, profileProvider, zapLogger, logger.Info, logger.Error)
	dataClient := service.NewExternalDataClient(clients, appLogger)
	positionService := service.NewPositionService(dataClient, appLogger)
	fundingService := service.NewFundingService(dataClient, appLogger)
	logger.Info("Services initialized")

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := restapi.SetupRouter(restapi.RouterDeps{
		Index:           restapi.NewIndexHandler(),
		Funding:         restapi.NewFundingHandler(fundingService, profileProvider, cfg.GMX.DefaultChainID, appLogger),
		Position:        restapi.NewPositionHandler(positionService, profileProvider, cfg.GMX.DefaultChainID, appLogger),
		Network:         restapi.NewNetworkHandler(profileProvider, clients),
		Logger:          zapLogger.Named("http"),
		RequestTimeout:  time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		SwaggerEnabled:  cfg.Swagger.Enabled,
		SwaggerSpecFile: cfg.Swagger.SpecFile,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", "address", srv.Addr, "default_chain_id", cfg.GMX.DefaultChainID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	// connect the default chain in the background so the first request does not pay for it
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RPCClient.ConnectionTimeoutSeconds)*time.Second)
		defer cancel()
		if _, err := clients.GetClient(ctx, cfg.GMX.DefaultChainID); err != nil {
			logger.Warn("Default chain client not ready yet", "chain_id", cfg.GMX.DefaultChainID, "error", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	logger.Info("Shutdown signal received, stopping HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
	} else {
		logger.Info("HTTP server stopped")
	}
}
