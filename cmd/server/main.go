package main

import (
	"log"
	"os"
	"strings"

	"sijuk_backend/internal/database"
	"sijuk_backend/internal/middleware"
	router_pkg "sijuk_backend/internal/router"
	"sijuk_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	utils.InitLogger()

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "sijuk_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "sijuk_password")
	dbName := utils.Getenv("DB_NAME", "sijuk_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	migrationsPath := utils.Getenv("MIGRATIONS_PATH", "migrations")

	db, err := database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.RunMigrations(db, migrationsPath); err != nil {
		utils.LogError(err, "Failed to run migrations")
		log.Fatalf("Failed to run migrations: %v", err)
	}
	utils.LogInfo("Database initialized", map[string]interface{}{"migrations_path": migrationsPath})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.SecurityHeaders())
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"} // Default origins
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-Id"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	// Setup all application routes
	if err := router_pkg.Setup(engine, db); err != nil {
		utils.LogError(err, "Failed to set up routes")
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
