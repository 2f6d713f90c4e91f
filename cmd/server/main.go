package main

import (
	"context"
	"log"

	"github.com/inkwell-hq/inkwell/backend/internal/router"
	"github.com/inkwell-hq/inkwell/backend/pkg/config"
	"github.com/inkwell-hq/inkwell/backend/pkg/firebase"
	"github.com/inkwell-hq/inkwell/backend/pkg/storage"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Initialize avatar storage
	avatarStore, err := storage.NewCloudinaryAvatarStore(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("Failed to initialize avatar storage: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.Debug = cfg.Env == "development"

	// Setup global middleware
	router.SetupMiddleware(e, cfg.ClientOrigin)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, avatarStore)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
