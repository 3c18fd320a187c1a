package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayflow/config"
	"stayflow/cron"
	"stayflow/database"
	ledgerRepo "stayflow/database/repository/ledger"
	recordsRepo "stayflow/database/repository/records"
	"stayflow/handlers"
	"stayflow/middleware"
	"stayflow/routes"
	"stayflow/services/availability"
	"stayflow/services/booking"
	"stayflow/services/feed"
	"stayflow/services/ledger"
	"stayflow/services/notification"
	"stayflow/services/proxy"
	"stayflow/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitContactCache()

	units, err := config.LoadUnits(config.AppConfig.UnitsFile)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load unit registry: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	// The availability API is called by browser-based tooling and the
	// automation pipeline alike; keep CORS wide open like the feeds.
	router.Use(cors.Default())

	// repositories.
	blockLedgerRepo := ledgerRepo.NewMongoLedgerRepo()
	bookingRecords := recordsRepo.NewMongoRecordRepo()

	// services.
	feedGenerator := &feed.DefaultGenerator{PublicDir: config.AppConfig.PublicDir}
	ledgerService := ledger.NewDefaultLedgerService(units, blockLedgerRepo, feedGenerator)

	fetcher := availability.NewFetcher(time.Duration(config.AppConfig.FetchTimeoutSeconds) * time.Second)
	availabilityService := &availability.DefaultAvailabilityService{
		Units:   units,
		Fetcher: fetcher,
		Ledger:  blockLedgerRepo,
	}

	notificationService := notification.NewWebhookNotificationService(config.AppConfig.NotifyWebhookURL)
	reminderScheduler := &booking.AsynqReminderScheduler{Client: cron.NewReminderClient()}

	bookingService := booking.NewDefaultBookingService(
		availabilityService,
		ledgerService,
		bookingRecords,
		notificationService,
		reminderScheduler,
	)

	forwarder := proxy.NewHTTPForwarder(
		config.AppConfig.ForwardURL,
		time.Duration(config.AppConfig.ForwardTimeoutSeconds)*time.Second,
	)
	contactStore := &proxy.RedisContactStore{Client: utils.GetContactCacheClient()}
	labeler := proxy.NewChatAPILabeler(config.AppConfig.ChatAPIURL, config.AppConfig.ChatAPIToken)
	proxyService := proxy.NewDefaultProxyService(
		time.Duration(config.AppConfig.DebounceWindowSeconds)*time.Second,
		forwarder,
		contactStore,
		labeler,
		bookingRecords,
	)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Units:        handlers.NewUnitHandler(units),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Blocks:       handlers.NewBlockHandler(ledgerService),
		Bookings:     handlers.NewBookingHandler(bookingService),
		Feeds:        handlers.NewFeedHandler(config.AppConfig.PublicDir),
		Webhook:      handlers.NewWebhookHandler(proxyService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers.
	cron.InitReminderWorker(notificationService)
	reconciler, err := cron.StartFeedReconciler(units, ledgerService)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to start feed reconciler: %v", err)
	}

	utils.StartHealthMonitor(utils.GetContactCacheClient(), database.MongoClient)

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

	reconciler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
