package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pasarku/internal/config"
	"pasarku/internal/handlers"
	"pasarku/internal/middleware"
	"pasarku/internal/models"
	"pasarku/internal/repositories"
	"pasarku/internal/services"
	"pasarku/pkg/assetstore"
	"pasarku/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Asset store ---
	assets, err := assetstore.NewS3Store(context.Background(), assetstore.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.AssetPublicURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize asset store: %v", err)
	}

	// --- RabbitMQ ---
	// Event publication is best-effort, so a missing broker degrades
	// rather than preventing startup.
	var events services.EventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, registration events disabled: %v", err)
	} else {
		defer mqClient.Close()
		events = mqClient
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)

	// --- Services ---
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokenService, assets, events)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, cfg.UploadTmpDir)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, authService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public authentication routes
	authHandler.RegisterRoutes(apiV1)

	// Protected routes behind the token gate
	protected := apiV1.Group("", middleware.AuthRequired(tokenService))
	authHandler.RegisterProfileRoutes(protected)
	productHandler.RegisterRoutes(protected)
	cartHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for user events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received user event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				// Downstream processing (welcome email, analytics) hooks in here.
				return nil
			}
			if consumerErr := mqClient.ConsumeUserEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
