package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salonhub/salon-directory-backend/internal/cache"
	"github.com/salonhub/salon-directory-backend/internal/config"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/handlers"
	"github.com/salonhub/salon-directory-backend/internal/middleware"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/internal/services"
	"github.com/salonhub/salon-directory-backend/pkg/jwt"
	"github.com/salonhub/salon-directory-backend/pkg/storage"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Salon Directory Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Optional coupon cache
	couponCache, err := cache.Connect(cfg.Redis, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	if couponCache != nil {
		defer couponCache.Close()
		logger.Info("Coupon cache connected")
	}

	// Image storage
	imageStore, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		logger.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	cityRepository := database.NewCityRepository(db)
	salonRepository := database.NewSalonRepository(db.DB)
	userRepository := database.NewUserRepository(db)
	membershipRepository := database.NewMembershipRepository(db)
	couponRepository := database.NewCouponRepository(db)
	reviewRepository := database.NewReviewRepository(db)

	cityService := services.NewCityService(cityRepository, logger)
	salonService := services.NewSalonService(salonRepository, cityRepository, imageStore, logger)
	authService := services.NewAuthService(userRepository, jwtService, logger)
	membershipService := services.NewMembershipService(db.DB, membershipRepository, logger)
	couponService := services.NewCouponService(db.DB, couponRepository, membershipService, couponCache, logger)
	reviewService := services.NewReviewService(db.DB, reviewRepository, logger)
	cleanupService := services.NewCleanupService(db.DB, couponCache, cfg.Cleanup, logger)

	if err := cleanupService.Start(); err != nil {
		logger.Fatalf("Failed to start cleanup service: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	cityHandler := handlers.NewCityHandler(cityService, logger)
	salonHandler := handlers.NewSalonHandler(salonService, cfg.Upload, logger)
	membershipHandler := handlers.NewMembershipHandler(membershipService, couponService, logger)
	couponHandler := handlers.NewCouponHandler(couponService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Serve uploaded images
	router.Static(cfg.Upload.BaseURL, cfg.Upload.Dir)

	authRequired := middleware.AuthMiddleware(jwtService, logger)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", authRequired, authHandler.Profile)
		}

		cities := v1.Group("/cities")
		{
			cities.GET("", cityHandler.List)
			cities.POST("", authRequired, adminOnly, cityHandler.Create)
			cities.POST("/bulk", authRequired, adminOnly, cityHandler.BulkCreate)
			cities.PATCH("/:id/activate", authRequired, adminOnly, cityHandler.Activate)
			cities.PATCH("/:id/deactivate", authRequired, adminOnly, cityHandler.Deactivate)
			cities.DELETE("/:id", authRequired, adminOnly, cityHandler.Delete)
		}

		salons := v1.Group("/salons")
		{
			salons.GET("", salonHandler.List)
			salons.GET("/:id", salonHandler.Get)
			salons.POST("", authRequired, adminOnly, salonHandler.Create)
			salons.PUT("/:id", authRequired, adminOnly, salonHandler.Update)
			salons.PATCH("/:id/status", authRequired, adminOnly, salonHandler.SetStatus)
			salons.DELETE("/:id", authRequired, adminOnly, salonHandler.Delete)
			salons.POST("/:id/images", authRequired, adminOnly, salonHandler.UploadImage)
		}

		memberships := v1.Group("/memberships")
		{
			memberships.POST("/:salonId", authRequired, adminOnly, membershipHandler.CreatePlan)
			memberships.GET("/:salonId", membershipHandler.ListPlans)
			memberships.POST("/:salonId/purchase", authRequired, membershipHandler.Purchase)
			memberships.GET("/:salonId/:customerId/coupons", authRequired, membershipHandler.MemberCoupons)
		}

		v1.GET("/customers/:customerId/memberships", authRequired, membershipHandler.CustomerMemberships)

		coupons := v1.Group("/coupons")
		{
			coupons.GET("", couponHandler.ListAll)
			coupons.GET("/customer/:customerId", authRequired, couponHandler.CustomerCoupons)
			coupons.POST("/:salonId", authRequired, adminOnly, couponHandler.Create)
			coupons.GET("/:salonId", couponHandler.ListBySalon)
			coupons.POST("/:salonId/purchase", authRequired, couponHandler.Purchase)
			coupons.POST("/:salonId/redeem", authRequired, couponHandler.Redeem)
			coupons.POST("/:salonId/:couponId/buy", authRequired, couponHandler.Buy)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("/salon/:salonId", reviewHandler.ListBySalon)
			reviews.GET("/salon/:salonId/stats", reviewHandler.SalonStats)
			reviews.GET("/user/me", authRequired, reviewHandler.ListMine)
			reviews.POST("", authRequired, reviewHandler.Create)
			reviews.GET("/:id", reviewHandler.Get)
			reviews.PUT("/:id", authRequired, reviewHandler.Update)
			reviews.DELETE("/:id", authRequired, reviewHandler.Delete)
			reviews.POST("/:id/like", authRequired, reviewHandler.ToggleLike)
			reviews.POST("/:id/report", authRequired, reviewHandler.Report)
			reviews.POST("/:id/response", authRequired, adminOnly, reviewHandler.AddResponse)
			reviews.PUT("/:id/response", authRequired, adminOnly, reviewHandler.UpdateResponse)
			reviews.DELETE("/:id/response", authRequired, adminOnly, reviewHandler.DeleteResponse)
		}

		admin := v1.Group("/admin", authRequired, adminOnly)
		{
			admin.GET("/reviews", reviewHandler.AdminList)
			admin.PATCH("/reviews/:id/moderate", reviewHandler.Moderate)
			admin.GET("/reviews/reports", reviewHandler.ListReports)
			admin.PATCH("/reviews/reports/:reportId", reviewHandler.HandleReport)
			admin.DELETE("/reviews/:id", reviewHandler.Delete)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	logger.Info("Stopping cleanup service...")
	cleanupService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbStatus,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
