package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"medride/internal/app"
	"medride/internal/config"
	"medride/internal/handler"
	internalRedis "medride/internal/redis"
	"medride/internal/repository/postgres"
	"medride/internal/service"
	"medride/internal/ws"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	sessionStore := internalRedis.NewSessionStore(redisClient, cfg.Session.TTL)
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)
	notificationStream := internalRedis.NewNotificationStream(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	bidRepo := postgres.NewBidRepository(db)
	overrideRepo := postgres.NewOverrideRepository(db)
	addressRepo := postgres.NewAddressRepository(db)
	disputeRepo := postgres.NewDisputeRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Realtime hub.
	hub := ws.NewHub()

	// Initialize services.
	notificationService := service.NewNotificationService(notificationRepo, notificationStream, hub)
	pricingService := service.NewPricingService(service.PricingConfig{
		BaseFare:            cfg.Pricing.BaseFare,
		PerMileRate:         cfg.Pricing.PerMileRate,
		WheelchairSurcharge: cfg.Pricing.WheelchairSurcharge,
		StretcherSurcharge:  cfg.Pricing.StretcherSurcharge,
		MinimumFare:         cfg.Pricing.MinimumFare,
		BidLowerFactor:      service.DefaultPricingConfig().BidLowerFactor,
		BidUpperFactor:      service.DefaultPricingConfig().BidUpperFactor,
	})
	authService := service.NewAuthService(userRepo, driverRepo, sessionStore)
	rideService := service.NewRideService(rideRepo, bidRepo, cacheStore, locationStore, pricingService, notificationService)
	bidService := service.NewBidService(db, rideRepo, bidRepo, driverRepo, lockStore, cacheStore, pricingService, notificationService)
	driverService := service.NewDriverService(driverRepo, documentRepo, cacheStore, locationStore)
	disputeService := service.NewDisputeService(disputeRepo, rideRepo, notificationService)
	adminService := service.NewAdminService(userRepo, driverRepo, documentRepo, rideRepo, overrideRepo, sessionStore, lockStore, cacheStore, locationStore, notificationService)
	addressService := service.NewAddressService(addressRepo)

	// Initialize handlers.
	authHandler := handler.NewAuthHandler(authService, cfg.Session.TTL, cfg.Session.CookieSecure)
	rideHandler := handler.NewRideHandler(rideService, disputeService)
	bidHandler := handler.NewBidHandler(bidService, rideService)
	driverHandler := handler.NewDriverHandler(driverService)
	adminHandler := handler.NewAdminHandler(adminService, disputeService)
	addressHandler := handler.NewAddressHandler(addressService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	wsHandler := handler.NewWSHandler(hub, cfg.Server.AllowedOrigins)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:         authHandler,
		RideHandler:         rideHandler,
		BidHandler:          bidHandler,
		DriverHandler:       driverHandler,
		AdminHandler:        adminHandler,
		AddressHandler:      addressHandler,
		NotificationHandler: notificationHandler,
		WSHandler:           wsHandler,
		SessionStore:        sessionStore,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
