// File: slotline/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotline/config"
	"slotline/cron"
	"slotline/database"
	blockRepo "slotline/database/repository/block"
	bookingRepoPkg "slotline/database/repository/booking"
	catalogRepo "slotline/database/repository/catalog"
	holdRepoPkg "slotline/database/repository/hold"
	requestRepo "slotline/database/repository/request"
	"slotline/handlers"
	"slotline/middleware"
	"slotline/routes"
	"slotline/services/availability"
	"slotline/services/booking"
	"slotline/services/hold"
	"slotline/services/notification"
	"slotline/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitRateLimitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(routes.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	catRepo := catalogRepo.NewMongoCatalogRepo()
	bkRepo := bookingRepoPkg.NewMongoBookingRepo()
	hdRepo := holdRepoPkg.NewMongoHoldRepo()
	blRepo := blockRepo.NewMongoBlockRepo()
	reqRepo := requestRepo.NewMongoRequestRepo()

	if err := bkRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := hdRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure hold indexes: %v", err)
	}

	// services.
	availabilitySvc := &availability.DefaultAvailabilityService{
		Catalog:          catRepo,
		Bookings:         bkRepo,
		Holds:            hdRepo,
		Blocks:           blRepo,
		Cache:            utils.GetCacheClient(),
		CacheTTL:         time.Duration(config.AppConfig.AvailabilityTTLSecs) * time.Second,
		StepMinutes:      config.AppConfig.SlotStepMinutes,
		MaxAdvanceDays:   config.AppConfig.MaxAdvanceDays,
		MinNoticeMinutes: config.AppConfig.MinNoticeMinutes,
	}

	holdSvc := &hold.DefaultHoldService{
		Catalog:  catRepo,
		Holds:    hdRepo,
		Conflict: availabilitySvc,
		Limiter: hold.NewRedisRateLimiter(
			utils.GetRateLimitClient(),
			config.AppConfig.HoldRateLimit,
			time.Duration(config.AppConfig.HoldRateWindowSecs)*time.Second,
		),
		TTL: time.Duration(config.AppConfig.HoldTTLMinutes) * time.Minute,
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	notifier := notification.NewAsynqNotifier(asynqClient)

	bookingSvc := &booking.DefaultBookingService{
		Bookings: bkRepo,
		Requests: reqRepo,
		Catalog:  catRepo,
		Holds:    holdSvc,
		Conflict: availabilitySvc,
		Notifier: notifier,
	}

	// handlers.
	availabilityHandler := handlers.NewAvailabilityHandler(availabilitySvc)
	holdHandler := handlers.NewHoldHandler(holdSvc)
	bookingHandler := handlers.NewBookingHandler(bookingSvc)
	requestHandler := handlers.NewRequestHandler(bookingSvc)

	routes.RegisterAvailabilityRoutes(router, availabilityHandler)
	routes.RegisterHoldRoutes(router, holdHandler)
	routes.RegisterBookingRoutes(router, bookingHandler)
	routes.RegisterRequestRoutes(router, requestHandler)
	routes.RegisterHealthRoute(router)

	// Background worker: hold sweep and notification dispatch.
	cron.InitWorker(holdSvc)
	utils.StartHealthMonitor(utils.GetCacheClient(), utils.GetRateLimitClient(), database.MongoClient)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
