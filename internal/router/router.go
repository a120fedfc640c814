package router

import (
	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/carelink-app/backend/internal/access"
	"github.com/carelink-app/backend/internal/handlers"
	"github.com/carelink-app/backend/internal/middleware"
	"github.com/carelink-app/backend/internal/models"
	"github.com/carelink-app/backend/internal/notify"
	"github.com/carelink-app/backend/internal/repositories"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, logger *logrus.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.RequestLogger(logger))
}

// SetupRoutes configures all application routes and injects dependencies.
// messagingClient and redisClient may be nil; push and the shared
// authorization cache degrade gracefully.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, redisClient *redis.Client, messagingClient *messaging.Client, logger *logrus.Logger) error {
	if err := pgdb.AutoMigrate(
		&models.User{},
		&models.Caregiver{},
		&models.Recipient{},
		&models.CareRelationship{},
		&models.Comment{},
		&models.Todo{},
		&models.Notification{},
	); err != nil {
		return err
	}
	// The partial unique index over active pairs cannot be expressed via
	// AutoMigrate; it backs the relationship store's conflict detection.
	if err := repositories.MigrateRelationshipIndexes(pgdb); err != nil {
		return err
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	relationshipRepo := repositories.NewPostgresRelationshipRepository(pgdb)
	journalRepo := repositories.NewMongoJournalRepository(mgClient.Database("carelink"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	todoRepo := repositories.NewPostgresTodoRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Access guard and notification hook ---
	var authzCache access.AuthzCache
	if redisClient != nil {
		authzCache = access.NewRedisAuthzCache(redisClient)
	} else {
		authzCache = access.NewMemoryAuthzCache()
	}
	guard := access.NewGuard(relationshipRepo, authzCache, logger)
	notifier := notify.NewNotifier(notificationRepo, userRepo, messagingClient, logger)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo, guard)
	userHandler.RegisterUserRoutes(api)

	relationshipHandler := handlers.NewRelationshipHandler(relationshipRepo, userRepo, guard, notifier)
	relationshipHandler.RegisterRelationshipRoutes(api)

	journalHandler := handlers.NewJournalHandler(journalRepo, userRepo, relationshipRepo, guard)
	journalHandler.RegisterJournalRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, journalRepo, userRepo, guard)
	commentHandler.RegisterCommentRoutes(api)

	todoHandler := handlers.NewTodoHandler(todoRepo, userRepo, guard)
	todoHandler.RegisterTodoRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	logger.Info("All routes configured.")
	return nil
}
