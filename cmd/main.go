package main

import (
	"net/http"
	"time"

	"spot-service/internal/booking"
	"spot-service/internal/handler"
	mid "spot-service/internal/middleware"
	"spot-service/internal/rating"
	"spot-service/pkg/config"
	"spot-service/pkg/database"
	"spot-service/pkg/jwtutil"
	"spot-service/pkg/logger"
	"spot-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting spot-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	mid.SessionCookieName = appConfig.Session.CookieName
	mid.SessionCookieSecure = appConfig.Session.Secure
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	rating.CacheMetric = prometheus.RecordRatingCache
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire the booking ledger and rating aggregator
	ledger := booking.NewLedger(booking.NewGormStore(database.GetDB()))
	ratings := rating.New(rating.NewGormReviewStore(database.GetDB()), 5*time.Minute)
	handler.Init(ledger, ratings)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authAPI := e.Group("/api/auth")
	authAPI.POST("/signup", handler.Signup)
	authAPI.POST("/login", handler.Login)
	authAPI.DELETE("/logout", handler.Logout)
	authAPI.GET("/me", handler.CurrentUser, mid.AuthMiddleware)

	// Spot routes - browsing is public, mutations require a session
	e.GET("/api/spots", handler.ListSpots)
	e.GET("/api/spots/current", handler.ListCurrentUserSpots, mid.AuthMiddleware)
	e.GET("/api/spots/:id", handler.GetSpot)
	e.POST("/api/spots", handler.CreateSpot, mid.AuthMiddleware)
	e.PUT("/api/spots/:id", handler.UpdateSpot, mid.AuthMiddleware)
	e.DELETE("/api/spots/:id", handler.DeleteSpot, mid.AuthMiddleware)

	// Booking routes
	e.GET("/api/spots/:id/availability", handler.CheckAvailability)
	e.GET("/api/spots/:id/bookings", handler.ListSpotBookings)
	e.POST("/api/spots/:id/bookings", handler.CreateBooking, mid.AuthMiddleware)
	e.GET("/api/bookings/current", handler.ListCurrentUserBookings, mid.AuthMiddleware)
	e.PUT("/api/bookings/:id", handler.UpdateBooking, mid.AuthMiddleware)
	e.DELETE("/api/bookings/:id", handler.DeleteBooking, mid.AuthMiddleware)

	// Review routes
	e.GET("/api/spots/:id/reviews", handler.ListSpotReviews)
	e.POST("/api/spots/:id/reviews", handler.CreateReview, mid.AuthMiddleware)
	e.GET("/api/reviews/current", handler.ListCurrentUserReviews, mid.AuthMiddleware)
	e.DELETE("/api/reviews/:id", handler.DeleteReview, mid.AuthMiddleware)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error", zap.Error(err))
	}
}
