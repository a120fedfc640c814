package main

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/carelink-app/backend/internal/router"
	"github.com/carelink-app/backend/internal/validators"
	"github.com/carelink-app/backend/pkg/config"
	"github.com/carelink-app/backend/pkg/firebase"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg := config.Load()
	if cfg.Env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		logger.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase messaging. Push delivery is optional; without
	// credentials the notifier only writes in-app notifications.
	ctx := context.Background()
	var messagingClient *messaging.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Fatalf("Failed to initialize Firebase: %v", err)
		}
		messagingClient = firebaseApp.MessagingClient
	} else {
		logger.Warn("FIREBASE_CREDENTIALS_PATH not set, push notifications disabled")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e, logger)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Postgres, db.Mongo, db.Redis, messagingClient, logger); err != nil {
		logger.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
