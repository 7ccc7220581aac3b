package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/mangatarem/tourism-backend/internal/config"
	"github.com/mangatarem/tourism-backend/internal/database"
	"github.com/mangatarem/tourism-backend/internal/handlers"
	"github.com/mangatarem/tourism-backend/internal/mailer"
	"github.com/mangatarem/tourism-backend/internal/middleware"
	"github.com/mangatarem/tourism-backend/internal/services"
	"github.com/mangatarem/tourism-backend/internal/storage"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
)

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		logger.Warn("dotenv_not_loaded", map[string]interface{}{
			"error": err.Error(),
		})
	}

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB, cfg.Seed.DataDir)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	var mail mailer.Mailer = mailer.Nop{}
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	moderationService := services.NewModerationService(db)
	mediaService := services.NewMediaService(storageClient)
	aggregationService := services.NewAggregationService(db)
	accountService := services.NewAccountService(db, mail)

	authHandler := handlers.NewAuthHandler(accountService)
	usersHandler := handlers.NewUsersHandler(db, accountService)
	attractionsHandler := handlers.NewAttractionsHandler(db, moderationService, mediaService, aggregationService)
	eventsHandler := handlers.NewEventsHandler(db, moderationService, mediaService)
	galleryHandler := handlers.NewGalleryHandler(db, moderationService, mediaService, aggregationService)
	barangaysHandler := handlers.NewBarangaysHandler(db, aggregationService)
	dashboardHandler := handlers.NewDashboardHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)

	attractionRoutes := api.Group("/attractions")
	attractionRoutes.Get("/", attractionsHandler.List)
	attractionRoutes.Get("/barangays", attractionsHandler.Barangays)
	attractionRoutes.Get("/:id", authMiddleware.OptionalAuth, attractionsHandler.Get)
	attractionRoutes.Post("/", authMiddleware.RequireAuth, attractionsHandler.Create)
	attractionRoutes.Put("/:id", authMiddleware.RequireAuth, attractionsHandler.Update)
	attractionRoutes.Delete("/:id", authMiddleware.RequireAuth, attractionsHandler.Delete)

	eventRoutes := api.Group("/events")
	eventRoutes.Get("/", eventsHandler.List)
	eventRoutes.Get("/:id", authMiddleware.OptionalAuth, eventsHandler.Get)
	eventRoutes.Post("/", authMiddleware.RequireAuth, eventsHandler.Create)
	eventRoutes.Put("/:id", authMiddleware.RequireAuth, eventsHandler.Update)
	eventRoutes.Delete("/:id", authMiddleware.RequireAuth, eventsHandler.Delete)

	galleryRoutes := api.Group("/gallery")
	galleryRoutes.Get("/", galleryHandler.List)
	galleryRoutes.Get("/barangays", galleryHandler.Barangays)
	galleryRoutes.Post("/", authMiddleware.RequireAuth, galleryHandler.Create)
	galleryRoutes.Put("/:id", authMiddleware.RequireAuth, galleryHandler.Update)
	galleryRoutes.Delete("/:id", authMiddleware.RequireAuth, galleryHandler.Delete)

	api.Get("/barangays", barangaysHandler.Directory)
	api.Get("/barangays/:name", barangaysHandler.Profile)

	contributorRoutes := api.Group("/barangay", authMiddleware.RequireAuth, middleware.ContributorOnly)
	contributorRoutes.Get("/dashboard", barangaysHandler.Dashboard)
	contributorRoutes.Get("/attractions", barangaysHandler.MyAttractions)
	contributorRoutes.Get("/events", barangaysHandler.MyEvents)
	contributorRoutes.Get("/gallery", barangaysHandler.MyGallery)
	contributorRoutes.Get("/profile", barangaysHandler.MyProfile)
	contributorRoutes.Put("/profile", barangaysHandler.UpsertProfile)

	adminRoutes := api.Group("/admin", authMiddleware.RequireAuth, middleware.AdminOnly)
	adminRoutes.Get("/dashboard", dashboardHandler.Admin)
	adminRoutes.Get("/users", usersHandler.List)
	adminRoutes.Get("/users/pending", usersHandler.Pending)
	adminRoutes.Post("/users/:id/approve", usersHandler.Approve)
	adminRoutes.Delete("/users/:id", usersHandler.Reject)
	adminRoutes.Get("/attractions/pending", attractionsHandler.Pending)
	adminRoutes.Post("/attractions/:id/approve", attractionsHandler.Approve)
	adminRoutes.Post("/attractions/:id/reject", attractionsHandler.Reject)
	adminRoutes.Get("/events/pending", eventsHandler.Pending)
	adminRoutes.Post("/events/:id/approve", eventsHandler.Approve)
	adminRoutes.Post("/events/:id/reject", eventsHandler.Reject)
	adminRoutes.Get("/gallery/pending", galleryHandler.Pending)
	adminRoutes.Post("/gallery/:id/approve", galleryHandler.Approve)
	adminRoutes.Post("/gallery/:id/reject", galleryHandler.Reject)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
