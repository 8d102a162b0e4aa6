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

	"github.com/joho/godotenv"

	"github.com/nurpe/wasteops-admin/internal/auth"
	"github.com/nurpe/wasteops-admin/internal/cache"
	"github.com/nurpe/wasteops-admin/internal/config"
	"github.com/nurpe/wasteops-admin/internal/db"
	"github.com/nurpe/wasteops-admin/internal/excel"
	httphandler "github.com/nurpe/wasteops-admin/internal/http"
	"github.com/nurpe/wasteops-admin/internal/http/middleware"
	"github.com/nurpe/wasteops-admin/internal/logger"
	"github.com/nurpe/wasteops-admin/internal/pdf"
	"github.com/nurpe/wasteops-admin/internal/push"
	"github.com/nurpe/wasteops-admin/internal/repository"
	"github.com/nurpe/wasteops-admin/internal/sensor"
	"github.com/nurpe/wasteops-admin/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.Log.Level, cfg.Log.File)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportRepo := repository.NewReportRepository(database)
	scheduleRepo := repository.NewScheduleRepository(database)
	binRepo := repository.NewBinRepository(database)
	userRepo := repository.NewUserRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	var statsCache service.BinStatsCache
	if cfg.Redis.Addr != "" {
		redisClient := cache.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, bin stats cache disabled")
		} else {
			statsCache = cache.NewStatsCache(redisClient, cfg.Redis.StatsTTL)
		}
	}

	hub := push.NewHub(log)
	go hub.Run(ctx)

	pushers := []service.Pusher{hub}
	if cfg.Firebase.CredentialsFile != "" || cfg.Firebase.CredentialsBase64 != "" {
		fcm, err := push.NewFCMPusher(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.CredentialsBase64, userRepo, log)
		if err != nil {
			log.Warn().Err(err).Msg("fcm disabled")
		} else {
			pushers = append(pushers, fcm)
		}
	}

	dispatcher := service.NewDispatcher(notificationRepo, log, cfg.Notify.QueueSize, pushers...)
	dispatcher.Start()

	reportService := service.NewReportService(reportRepo, userRepo, dispatcher, log)
	scheduleService := service.NewScheduleService(scheduleRepo, log)
	binService := service.NewBinService(binRepo, statsCache, log)
	notificationService := service.NewNotificationService(notificationRepo)
	userService := service.NewUserService(userRepo)
	exportService := service.NewExportService(reportRepo, scheduleRepo, excel.NewGenerator(), pdf.NewGenerator())
	engine := service.NewEngine(reportService, scheduleService, binService)

	if cfg.MQTT.Broker != "" {
		subscriber, err := sensor.NewSubscriber(cfg.MQTT, sensor.NewHandler(cfg.MQTT.Topic, binService, log), log)
		if err != nil {
			log.Warn().Err(err).Msg("sensor feed disabled")
		} else {
			defer subscriber.Close()
		}
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(httphandler.Services{
		Engine:        engine,
		Reports:       reportService,
		Schedules:     scheduleService,
		Bins:          binService,
		Notifications: notificationService,
		Exports:       exportService,
		Users:         userService,
	}, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), httphandler.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Stream:         push.ServeWS(hub, tokenParser, cfg.HTTP.AllowedOrigins),
	}, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting wasteops admin service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	dispatcher.Close()
	log.Info().
		Int64("notifications_delivered", dispatcher.Delivered()).
		Int64("notifications_failed", dispatcher.Failed()).
		Msg("notification dispatcher drained")
}
