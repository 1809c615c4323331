package main

import (
	"fmt"
	"os"

	"github.com/pulistar/alumni/internal/clients/sendgrid"
	"github.com/pulistar/alumni/internal/db"
	"github.com/pulistar/alumni/internal/handlers"
	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/repos"
	"github.com/pulistar/alumni/internal/server"
	"github.com/pulistar/alumni/internal/services"
	"github.com/pulistar/alumni/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	graduateRepo := repos.NewGraduateRepo(thePG, log)
	documentRepo := repos.NewGraduateDocumentRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	sendgridClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("Could not init SendGrid client, emails disabled", "error", err)
	}
	coverService, err := services.NewCoverPageService(log)
	if err != nil {
		log.Error("Could not init CoverPageService", "error", err)
		os.Exit(1)
	}
	adapter := services.NewPageSourceAdapter(log)
	assembler := services.NewAssemblyService(log)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo)
	mailService := services.NewMailService(log, sendgridClient)
	dispatcher := services.NewSideEffectDispatcher(thePG, log, graduateRepo, notificationService, mailService)
	documentService := services.NewDocumentService(
		thePG,
		log,
		graduateRepo,
		documentRepo,
		bucketService,
		adapter,
		coverService,
		assembler,
		dispatcher,
	)

	// Handlers
	log.Info("Setting up Handlers from main...")
	documentHandler := handlers.NewDocumentHandler(documentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		DocumentHandler:     documentHandler,
		NotificationHandler: notificationHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
