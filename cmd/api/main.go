package main

import (
	"log"
	"os"

	"citizen-portal-api/config"
	"citizen-portal-api/middleware"
	"citizen-portal-api/models"
	"citizen-portal-api/monitor"
	"citizen-portal-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Mirror stdlib logging into logs/portal-api.log
	config.InitLogging()

	// Initialize database and run schema migrations
	config.InitDB()
	if err := models.Migrate(config.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis backs the password-reset OTP store
	config.InitRedis()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	router.Use(middleware.CORSMiddleware())

	// Ops pages live outside the API group
	monitor.RegisterLogsRoute(router)
	monitor.RegisterMonitorPage(router)

	routes.SetupRoutes(router)

	// Create upload directory if not exists
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create upload directory: %v", err)
	}
	router.Static("/uploads", uploadPath)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Citizen Portal API starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
