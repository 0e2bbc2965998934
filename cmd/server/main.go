package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"riskdash/internal/api"
	"riskdash/internal/api/middleware"
	"riskdash/internal/backend"
	"riskdash/internal/config"
	"riskdash/internal/service"
	"riskdash/pkg/ratelimit"
	"riskdash/pkg/utils"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer utils.Sync()

	// Клиент бэкенда
	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("failed to create backend client", utils.Err(err))
	}
	defer client.Close()

	// Состояние и сервисы
	state := service.NewDashboardState(cfg.Refresh.AutoRefresh)
	limiter := ratelimit.New(cfg.Refresh.ManualRate, float64(cfg.Refresh.ManualBurst))
	logger.Info("manual refresh limit",
		utils.Float64("rate", limiter.Rate()),
		utils.Float64("burst", limiter.Burst()))

	refreshService, err := service.NewRefreshService(client, state, service.RefreshConfig{
		Interval:           cfg.Refresh.Interval,
		ClientMonitorLimit: cfg.Refresh.ClientMonitorLimit,
		RiskDays:           cfg.Refresh.RiskDays,
		RiskMinTrades:      cfg.Refresh.RiskMinTrades,
	}, limiter, logger)
	if err != nil {
		logger.Fatal("failed to create refresh service", utils.Err(err))
	}
	dashboardService := service.NewDashboardService(state)

	// Настройка HTTP роутера
	router := api.SetupRoutes(&api.Dependencies{
		DashboardService: dashboardService,
		RefreshService:   refreshService,
		RetryAdvisor:     limiter,
		Logger:           logger,
		CORSOrigins:      cfg.Server.CORSOrigins,
		EnablePprof:      cfg.Debug.EnablePprof,
		Debug: middleware.DebugAuthConfig{
			Username:    cfg.Debug.Username,
			Password:    cfg.Debug.Password,
			Development: cfg.Debug.Development(),
		},
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := refreshService.Start(ctx); err != nil {
		logger.Fatal("failed to start refresher", utils.Err(err))
	}

	// Запуск сервера в отдельной горутине
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			utils.String("addr", server.Addr),
			utils.String("backend", cfg.Backend.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server failed", utils.Err(err))
	}

	// Сначала таймер и активный цикл: незавершённый цикл не фиксируется
	refreshService.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", utils.Err(err))
		os.Exit(1)
	}

	logger.Info("server exited")
}
