package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citaflow/config"
	"citaflow/cron"
	"citaflow/database"
	directoryRepo "citaflow/database/repository/directory"
	ledgerRepo "citaflow/database/repository/ledger"
	sessionRepo "citaflow/database/repository/session"
	"citaflow/handlers"
	"citaflow/middleware"
	"citaflow/routes"
	"citaflow/services/calendar"
	"citaflow/services/dialogue"
	"citaflow/services/dispatcher"
	"citaflow/services/intelligence"
	"citaflow/services/messenger"
	"citaflow/services/tasks"
	"citaflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitGoogle()
	utils.InitSessionCache()
	utils.InitChatCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	directory := directoryRepo.NewSheetsDirectoryRepo()
	appointments := ledgerRepo.NewSheetsAppointmentRepo()
	outbox := ledgerRepo.NewSheetsOutboxRepo()
	sessionTTL := time.Duration(config.AppConfig.SessionTimeoutMins) * time.Minute
	sessions := sessionRepo.NewRedisSessionRepo(utils.GetSessionCacheClient(), 2*sessionTTL)

	// collaborators.
	calendarGateway := calendar.NewGoogleCalendarGateway()
	gateway := messenger.NewHTTPMessenger()

	asynqOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	asynqClient := asynq.NewClient(asynqOpts)
	defer asynqClient.Close()
	reminders := tasks.NewAsynqReminderScheduler(asynqClient, asynq.NewInspector(asynqOpts))

	// services.
	dialogueService := &dialogue.DefaultDialogueService{
		Directory:      directory,
		Ledger:         appointments,
		Sessions:       sessions,
		Calendar:       calendarGateway,
		Reminders:      reminders,
		MaxAttempts:    config.AppConfig.MaxAttempts,
		SessionTimeout: sessionTTL,
		WeeksAhead:     config.AppConfig.WeeksAhead,
		Location:       config.Location(),
	}

	chatService := &intelligence.DefaultChatService{
		Dialogue: dialogueService,
		History:  intelligence.NewRedisChatStore(utils.GetChatCacheClient(), 24*time.Hour),
	}
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gemini, err := intelligence.NewGeminiClient(context.Background(), key)
		if err != nil {
			logger.Sugar().Warnf("main: Gemini unavailable, small talk degrades to static replies: %v", err)
		} else {
			chatService.Gemini = gemini
		}
	}

	dispatcherService := dispatcher.NewDispatcherService(outbox, gateway)

	// background work.
	dispatcherCron := cron.InitDispatcherSchedule(dispatcherService)
	cron.InitReminderWorker(gateway)

	// handlers.
	chatHandler := handlers.NewChatHandler(chatService, directory)
	messageHandler := handlers.NewMessageHandler(gateway)
	adminHandler := handlers.NewAdminHandler(dispatcherService, appointments)
	blacklistHandler := handlers.NewBlacklistHandler(directory)

	handlerBundle := &handlers.HandlerBundle{
		ChatWebhookHandler:      chatHandler.WebhookHandler,
		SendMessageHandler:      messageHandler.SendHandler,
		DispatcherStatusHandler: adminHandler.DispatcherStatusHandler,
		RunDispatcherHandler:    adminHandler.RunDispatcherHandler,
		AppointmentsHandler:     adminHandler.AppointmentsHandler,
		BlacklistHandler:        blacklistHandler.UpdateHandler,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	dispatcherCron.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
