package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Krishnachaitanya-dev/madmax/config"
	"github.com/Krishnachaitanya-dev/madmax/controllers"
	"github.com/Krishnachaitanya-dev/madmax/middleware"
	"github.com/Krishnachaitanya-dev/madmax/models"
	"github.com/Krishnachaitanya-dev/madmax/services"
	"github.com/Krishnachaitanya-dev/madmax/utils"
)

func main() {
	// Basic logging
	log.Println("Starting MadMax Laundry API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Pick the image storage backend: S3 when a bucket is configured,
	// local filesystem otherwise
	if cfg.UseS3() {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Printf("Garment photos stored in S3 bucket %s", cfg.AWSS3Bucket)
	} else {
		utils.UploadDir = cfg.UploadDir
		services.InitLocalImageService(cfg.UploadDir)
		log.Printf("Garment photos stored locally under %s", cfg.UploadDir)
	}

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter initializes the Gin router with middleware and all routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// Mobile clients call from app webviews and dev servers
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Service catalog
		v1.GET("/services", controllers.ListServices)

		// Locally stored garment photos
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PUT("/users/me", controllers.UpdateMyProfile)

			authed.POST("/orders", controllers.CreateOrder)
			authed.GET("/orders", controllers.ListOrders)
			authed.GET("/orders/stats", controllers.GetOrderStats)
			authed.GET("/orders/:id", controllers.GetOrder)
			authed.PATCH("/orders/:id", controllers.UpdateOrder)
			authed.POST("/orders/:id/advance", controllers.AdvanceOrder)
			authed.POST("/orders/:id/image", controllers.UploadOrderImage)
			authed.DELETE("/orders/:id/image", controllers.DeleteOrderImage)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "MadMax Laundry API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
