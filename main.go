package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"nilai/internal/database"
	"nilai/internal/handlers"
	"nilai/internal/middleware"
	"nilai/internal/repositories"
	"nilai/internal/services"
	"nilai/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":5000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASS", "")
	viper.SetDefault("DB_NAME", "nilai")
	viper.SetDefault("DB_SSL", false)
	viper.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// --- RabbitMQ (optional) ---
	// When RABBITMQ_URL is unset the services run without event
	// publication.
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	var events services.EventPublisher
	if mqClient != nil {
		events = mqClient
	}

	// --- Database ---
	db, err := database.Connect(buildDSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret, events)
	userService := services.NewUserService(userRepo, storeRepo, ratingRepo)
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo)
	ratingService := services.NewRatingService(ratingRepo, storeRepo, events)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(userService, storeService)
	userHandler := handlers.NewUserHandler(ratingService, authService)
	storeHandler := handlers.NewStoreHandler(storeService)

	// --- Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     viper.GetString("CORS_ORIGIN"),
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
	}))
	app.Use(logger.New())

	// Global fixed window: 100 requests per 15 minutes per client.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, try again later",
			})
		},
	}))

	// --- API Routes ---
	authMW := middleware.Authenticate(authService)
	api := app.Group("/api")

	authHandler.RegisterRoutes(api, authMW)
	adminHandler.RegisterRoutes(api, authMW)
	userHandler.RegisterRoutes(api, authMW)
	storeHandler.RegisterRoutes(api, authMW)

	// --- Health Check Endpoint ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "API is running",
		})
	})

	// --- Start Event Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for domain events...")
			err := mqClient.ConsumeEvents(func(msg amqp.Delivery) error {
				log.Printf("Received %s event (tag %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			})
			if err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
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

// buildDSN assembles the PostgreSQL connection string from the
// environment.
func buildDSN() string {
	sslMode := "disable"
	if viper.GetBool("DB_SSL") {
		sslMode = "require"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		viper.GetString("DB_HOST"),
		viper.GetString("DB_USER"),
		viper.GetString("DB_PASS"),
		viper.GetString("DB_NAME"),
		viper.GetString("DB_PORT"),
		sslMode,
	)
}
