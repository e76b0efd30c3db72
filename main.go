package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/lance0/RubyRidge/cmd"
	"github.com/lance0/RubyRidge/internal/core/container"
	"github.com/lance0/RubyRidge/internal/core/logger"
	"github.com/lance0/RubyRidge/internal/core/routes"
	"github.com/lance0/RubyRidge/internal/database"
	"github.com/lance0/RubyRidge/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	zapLog := logger.NewLogger()
	defer zapLog.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		zapLog.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		zapLog.Fatal("failed to connect to the database: " + err.Error())
	}
	defer db.Close()

	zapLog.Info("Connected to the database successfully")

	if err := database.RunMigrations(zapLog, "./migrations"); err != nil {
		zapLog.Fatal("failed to run migrations: " + err.Error())
	}

	appContainer := container.NewAppContainer(db)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(zapLog))
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := router.Run(":" + port); err != nil {
		zapLog.Fatal("server stopped: " + err.Error())
	}
}
