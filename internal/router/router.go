package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/inkwell-hq/inkwell/backend/internal/handlers"
	"github.com/inkwell-hq/inkwell/backend/internal/middleware"
	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"github.com/inkwell-hq/inkwell/backend/internal/repositories"
	"github.com/inkwell-hq/inkwell/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware. CORS is restricted to
// the configured client origin.
func SetupMiddleware(e *echo.Echo, clientOrigin string) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins: []string{clientOrigin},
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, avatarStore storage.AvatarStore) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	mongoDB := mgClient.Database("inkwell")

	// Health check - always accessible
	e.GET("/api/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	engagementRepo := repositories.NewMongoEngagementRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public read routes ---
	public := e.Group("/api")
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPublicPostRoutes(public)

	engagementHandler := handlers.NewEngagementHandler(engagementRepo)
	engagementHandler.RegisterPublicEngagementRoutes(public)

	userHandler := handlers.NewUserHandler(userRepo, postRepo, avatarStore)
	userHandler.RegisterPublicUserRoutes(public)
	log.Println("Public routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())

	postHandler.RegisterPostRoutes(api)
	engagementHandler.RegisterEngagementRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo)
	commentHandler.RegisterCommentRoutes(api)

	userHandler.RegisterProfileRoutes(api)
	log.Println("Protected routes configured.")
}
