package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"medride/internal/domain"
	"medride/internal/handler"
	"medride/internal/middleware"
	internalRedis "medride/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler         *handler.AuthHandler
	RideHandler         *handler.RideHandler
	BidHandler          *handler.BidHandler
	DriverHandler       *handler.DriverHandler
	AdminHandler        *handler.AdminHandler
	AddressHandler      *handler.AddressHandler
	NotificationHandler *handler.NotificationHandler
	WSHandler           *handler.WSHandler
	SessionStore        internalRedis.SessionStoreInterface
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
	AllowedOrigins      []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// The browser client sends the session cookie cross-origin, so CORS
	// must allow credentials for the configured origins.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
	}))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(deps.SessionStore)
	riderOnly := middleware.RequireRole(domain.RoleRider)
	driverOnly := middleware.RequireRole(domain.RoleDriver)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Public auth routes.
		v1.POST("/auth/register", deps.AuthHandler.Register)
		v1.POST("/auth/login", deps.AuthHandler.Login)

		// Everything below requires a session. Idempotency sits after
		// auth so keys are scoped to the authenticated user.
		authed := v1.Group("", auth, middleware.IdempotencyMiddleware(deps.RedisClient))
		{
			authed.POST("/auth/logout", deps.AuthHandler.Logout)
			authed.GET("/auth/me", deps.AuthHandler.Me)

			// Live notification stream plus its polling fallback.
			authed.GET("/ws", deps.WSHandler.Connect)
			authed.GET("/notifications", deps.NotificationHandler.List)
			authed.POST("/notifications/read", deps.NotificationHandler.MarkRead)

			// Saved addresses.
			addresses := authed.Group("/addresses")
			{
				addresses.POST("", deps.AddressHandler.CreateAddress)
				addresses.GET("", deps.AddressHandler.ListAddresses)
				addresses.PUT("/:id", deps.AddressHandler.UpdateAddress)
				addresses.DELETE("/:id", deps.AddressHandler.DeleteAddress)
			}

			// Ride routes.
			rides := authed.Group("/rides")
			{
				rides.POST("", riderOnly, deps.RideHandler.CreateRide)
				rides.GET("", deps.RideHandler.ListRides)
				rides.GET("/open", driverOnly, deps.RideHandler.ListOpenRides)
				rides.GET("/:id", deps.RideHandler.GetRide)
				rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
				rides.POST("/:id/start", driverOnly, deps.RideHandler.StartRide)
				rides.POST("/:id/complete", driverOnly, deps.RideHandler.CompleteRide)
				rides.POST("/:id/bids", driverOnly, deps.BidHandler.PlaceBid)
				rides.GET("/:id/bids", deps.BidHandler.ListBids)
				rides.POST("/:id/disputes", deps.RideHandler.OpenDispute)
			}

			// Bid routes.
			bids := authed.Group("/bids")
			{
				bids.POST("/:id/withdraw", driverOnly, deps.BidHandler.WithdrawBid)
				bids.POST("/:id/accept", riderOnly, deps.BidHandler.AcceptBid)
			}

			// Parties to a dispute and admins can read it.
			authed.GET("/disputes/:id", deps.RideHandler.GetDispute)

			// Driver self-service routes.
			drivers := authed.Group("/drivers", driverOnly)
			{
				drivers.GET("/me", deps.DriverHandler.GetProfile)
				drivers.PUT("/me", deps.DriverHandler.UpdateProfile)
				drivers.POST("/me/documents", deps.DriverHandler.SubmitDocument)
				drivers.GET("/me/documents", deps.DriverHandler.ListDocuments)
				drivers.POST("/me/duty", deps.DriverHandler.SetDuty)
				drivers.POST("/me/location", deps.DriverHandler.UpdateLocation)
			}

			// Admin routes.
			admin := authed.Group("/admin", adminOnly)
			{
				admin.GET("/users", deps.AdminHandler.ListUsers)
				admin.POST("/users/:id/suspend", deps.AdminHandler.SuspendUser)
				admin.POST("/users/:id/reinstate", deps.AdminHandler.ReinstateUser)
				admin.GET("/documents/pending", deps.AdminHandler.PendingDocuments)
				admin.POST("/documents/:id/review", deps.AdminHandler.ReviewDocument)
				admin.GET("/drivers", deps.AdminHandler.ListDrivers)
				admin.POST("/drivers/:id/activate", deps.AdminHandler.ActivateDriver)
				admin.GET("/disputes", deps.AdminHandler.ListDisputes)
				admin.POST("/disputes/:id/resolve", deps.AdminHandler.ResolveDispute)
				admin.POST("/disputes/:id/dismiss", deps.AdminHandler.DismissDispute)
				admin.POST("/rides/:id/override-fare", deps.AdminHandler.OverrideFare)
				admin.GET("/rides/:id/overrides", deps.AdminHandler.RideOverrides)
			}
		}
	}

	return router
}
