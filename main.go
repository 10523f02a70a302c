package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"shopapi/internal/config"
	"shopapi/internal/database"
	"shopapi/internal/handlers"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
	"shopapi/pkg/mailer"
	"shopapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error().Err(err).Msg("error closing database")
		}
	}()

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	seedProducts(productRepo, logger)

	// --- Notifier ---
	// With RabbitMQ configured, signup enqueues welcome messages and a
	// consumer goroutine delivers them over SMTP. Without it the mailer
	// runs behind an async decorator; either way signup never waits on
	// the SMTP round trip.
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	var notifier services.Notifier = services.NewAsyncNotifier(mail, logger)
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Logger: logger})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()

		if err := mqClient.ConsumeWelcomeMessages(func(msg rabbitmq.WelcomeMessage) error {
			return mail.SendWelcome(msg.Email, msg.Username)
		}); err != nil {
			logger.Fatal().Err(err).Msg("failed to start welcome message consumer")
		}
		notifier = mqClient
	}

	// --- Services ---
	productService := services.NewProductService(productRepo)
	userService := services.NewUserService(userRepo, notifier, logger)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)

	// --- Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	// --- API Routes ---
	productHandler.RegisterRoutes(app)
	userHandler.RegisterRoutes(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	logger.Info().Str("port", cfg.AppPort).Msg("starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	logger.Info().Msg("shutting down server")

	if err := app.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server gracefully stopped")
}

// seedProducts inserts the sample catalog on first run against an empty
// products table.
func seedProducts(repo repositories.ProductRepository, logger zerolog.Logger) {
	existing, err := repo.GetAll()
	if err != nil {
		logger.Warn().Err(err).Msg("skipping product seeding")
		return
	}
	if len(existing) > 0 {
		return
	}

	products := []models.Product{
		{
			Title:       "Premium Bag",
			Price:       2000,
			Img:         "https://res.cloudinary.com/dhdepk5ib/image/upload/v1757696461/samples/ecommerce/leather-bag-gray.jpg",
			Description: "High-quality leather bag",
			Category:    "Bags",
			CreatedAt:   time.Now(),
		},
		{
			Title:       "Luxury Chair",
			Price:       10000,
			Img:         "https://res.cloudinary.com/dhdepk5ib/image/upload/v1757696469/samples/chair-and-coffee-table.jpg",
			Description: "Comfortable modern chair",
			Category:    "Furniture",
			CreatedAt:   time.Now(),
		},
		{
			Title:       "Analog Watch",
			Price:       30000,
			Img:         "https://res.cloudinary.com/dhdepk5ib/image/upload/v1757696459/samples/ecommerce/analog-classic.jpg",
			Description: "Classic wristwatch",
			Category:    "Watches",
			CreatedAt:   time.Now(),
		},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			logger.Warn().Err(err).Str("title", products[i].Title).Msg("failed to seed product")
		} else {
			logger.Info().Str("title", products[i].Title).Str("id", products[i].ID).Msg("seeded product")
		}
	}
}
