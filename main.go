package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/config"
	"github.com/smart-home-repair/repair-api/controllers"
	"github.com/smart-home-repair/repair-api/logger"
	"github.com/smart-home-repair/repair-api/middleware"
	"github.com/smart-home-repair/repair-api/services"
	"github.com/smart-home-repair/repair-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	log, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer log.Sync()
	logger.Set(log)

	log.Info("Starting Smart Home Repair API server...", "env", cfg.GoEnv)

	ctx := context.Background()
	kv, err := openKeyValueStore(cfg)
	if err != nil {
		log.Fatal("Failed to open storage", "backend", cfg.StorageBackend, "error", err)
	}

	if err := initServices(ctx, cfg, kv, log); err != nil {
		log.Fatal("Failed to initialize services", "error", err)
	}

	router := setupRouter(cfg.CORSAllowedOrigins)

	addr := ":" + cfg.Port
	log.Info("Server is running", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server", "error", err)
	}
}

// openKeyValueStore connects the storage backend selected by STORAGE_BACKEND
func openKeyValueStore(cfg *config.Config) (services.KeyValueStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendSQLite, config.StorageBackendPostgres:
		if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		return services.NewGormKeyValueStore(config.GetDB())
	case config.StorageBackendRedis:
		return services.NewRedisKeyValueStore(services.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case config.StorageBackendMemory:
		return services.NewMockKeyValueStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// initServices builds the service graph and publishes it through the package globals
func initServices(ctx context.Context, cfg *config.Config, kv services.KeyValueStore, log *logger.Logger) error {
	store := services.InitRecordStore(kv, cfg.StorageNamespace, log)

	sessions := services.InitSessionService(store, log)
	sessions.Load(ctx)

	classifier := services.InitClassifier(services.NewHTTPClassifier(cfg.AIBaseURL, cfg.ClassifierTimeout, log))

	var images services.ImageService
	switch cfg.ImageStorage {
	case config.ImageStorageS3:
		s3Service, err := services.InitS3Service(ctx, cfg, log)
		if err != nil {
			return err
		}
		images = services.NewS3ImageService(s3Service)
	default:
		utils.UploadDir = cfg.UploadDir
		images = services.NewLocalImageService(cfg.UploadDir)
	}
	services.InitImageService(images)

	services.InitFaultReportService(store, classifier, images, log)
	services.InitBookingService(store, cfg.BookingConfirmDelay, log)
	return nil
}

// setupRouter wires every route onto a new engine. Services must be initialized first.
func setupRouter(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.Get()))
	router.Use(middleware.CORS(allowedOrigins))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/storage/status", storageStatus)

		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/signup", controllers.Signup)

		v1.GET("/technicians", controllers.ListTechnicians)
		v1.GET("/technicians/:id", controllers.GetTechnician)
		v1.GET("/fault-types", controllers.ListFaultTypes)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		authed := v1.Group("")
		authed.Use(middleware.RequireSession(services.GetSessionService()))
		{
			authed.POST("/auth/logout", controllers.Logout)

			authed.GET("/users/me", controllers.GetCurrentUser)
			authed.PUT("/users/me", controllers.UpdateCurrentUser)
			authed.DELETE("/users/me", controllers.DeleteCurrentUser)
			authed.DELETE("/data", controllers.ClearAppData)

			authed.POST("/scans", controllers.CreateScan)
			authed.GET("/fault-reports", controllers.ListFaultReports)
			authed.GET("/fault-reports/:id", controllers.GetFaultReport)
			authed.POST("/fault-reports/:id/guidance", controllers.OpenGuidance)
			authed.POST("/fault-reports/:id/steps/:stepId/toggle", controllers.ToggleRepairStep)
			authed.POST("/fault-reports/:id/complete", controllers.CompleteRepair)
			authed.POST("/fault-reports/:id/fail", controllers.FailRepair)

			authed.POST("/bookings", controllers.CreateBooking)
			authed.GET("/bookings", controllers.ListBookings)
			authed.GET("/bookings/:id", controllers.GetBooking)
			authed.PATCH("/bookings/:id/status", controllers.UpdateBookingStatus)
			authed.GET("/technicians/:id/estimate", controllers.GetTechnicianEstimate)

			authed.GET("/history", controllers.GetRepairHistory)
			authed.GET("/home", controllers.GetHome)
			authed.GET("/images/*key", controllers.GetStoredImage)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Smart Home Repair API is running",
	})
}

// storageStatus checks that the record store backend is reachable
func storageStatus(c *gin.Context) {
	store := services.GetRecordStore()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_NOT_INITIALIZED",
				"message": "Storage has not been initialized",
			},
		})
		return
	}

	if err := store.Ping(c.Request.Context()); err != nil {
		logger.Get().Error("Storage ping failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_CONNECTION_ERROR",
				"message": "Storage connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Storage connected",
		"keys":    services.AllKeys,
	})
}
