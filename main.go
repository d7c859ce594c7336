package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"laundrypoint/internal/handlers"
	"laundrypoint/internal/middleware"
	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"
	"laundrypoint/internal/services"
	"laundrypoint/pkg/events"
	"laundrypoint/pkg/kvstore"
	"laundrypoint/pkg/places"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// Viper reads from environment variables with sensible local defaults.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "laundrypoint.db")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RAZORPAY_KEY_ID", "rzp_test_1DP5mmOlF5G5ag")
	viper.SetDefault("UPI_PAYEE_VPA", "laundrypoint@upi")
	viper.SetDefault("UPI_PAYEE_NAME", "LaundryPoint")
	viper.SetDefault("GOOGLE_PLACES_API_KEY", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Persistent Key-Value Store ---
	// All durable state (orders, users, addresses, profile, recent
	// locations) lives as JSON blobs in one table.
	store, err := kvstore.Open(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		log.Fatalf("Failed to open kv store: %v", err)
	}

	// --- Events Client (optional) ---
	// An empty RABBITMQ_URL disables event publication entirely; the
	// services treat a nil client as "no broker configured".
	var eventsClient *events.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		eventsClient, err = events.NewClient(events.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize events client: %v", err)
		}
		defer eventsClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, event publication disabled")
	}

	// --- Initialize Repositories ---
	orderRepo := repositories.NewKVOrderRepository(store)
	userRepo := repositories.NewKVUserRepository(store)
	addressRepo := repositories.NewKVAddressRepository(store)
	profileRepo := repositories.NewKVProfileRepository(store)
	locationRepo := repositories.NewKVLocationRepository(store)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	if err := authService.LoadSession(context.Background()); err != nil {
		log.Printf("Warning: could not restore session: %v", err)
	}

	catalogService := seedCatalog()
	orderService := services.NewOrderService(orderRepo, eventsClient)
	paymentService := services.NewPaymentService(orderRepo, eventsClient, services.PaymentConfig{
		RazorpayKeyID: viper.GetString("RAZORPAY_KEY_ID"),
		Currency:      "INR",
		MerchantName:  "LaundryPoint",
		UPIPayeeVPA:   viper.GetString("UPI_PAYEE_VPA"),
		UPIPayeeName:  viper.GetString("UPI_PAYEE_NAME"),
	})
	placesClient := places.NewClient(viper.GetString("GOOGLE_PLACES_API_KEY"))
	locationService := services.NewLocationService(placesClient, locationRepo)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService, catalogService, authService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	addressHandler := handlers.NewAddressHandler(addressRepo, profileRepo)
	locationHandler := handlers.NewLocationHandler(locationService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public routes: auth, the catalog, and order creation (which answers
	// 401 with a sign-in prompt on its own).
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)

	// Protected routes require a valid session token.
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	orderHandler.RegisterRoutes(apiV1, protected)
	paymentHandler.RegisterRoutes(protected)
	addressHandler.RegisterRoutes(protected)
	locationHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start Events Consumer in a Goroutine ---
	if eventsClient != nil {
		go func() {
			log.Println("Starting order-events consumer...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := eventsClient.Consume(messageHandler); consumerErr != nil {
				log.Printf("Failed to start events consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
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

// seedCatalog builds the read-only storefront reference data: service
// centers, service categories, and per-piece services with their prices.
func seedCatalog() *services.CatalogService {
	shops := []models.Shop{
		{ID: "shop-1", Name: "Clean & Press", Address: "Koramangala", Distance: "0.8 km", Rating: 4.6},
		{ID: "shop-2", Name: "The Laundry Room", Address: "Indiranagar", Distance: "1.2 km", Rating: 4.4},
		{ID: "shop-3", Name: "Quick Wash", Address: "HSR Layout", Distance: "2.1 km", Rating: 4.2},
		{ID: "shop-4", Name: "Fresh Fold", Address: "Whitefield", Distance: "3.4 km", Rating: 4.5},
		{ID: "shop-5", Name: "Spotless Laundry", Address: "Jayanagar", Distance: "4.0 km", Rating: 4.3},
	}

	categories := []models.ServiceCategory{
		{ID: "cat-1", Name: "Washing"},
		{ID: "cat-2", Name: "Ironing"},
		{ID: "cat-3", Name: "Wash & Fold"},
		{ID: "cat-4", Name: "Premium Dry Clean"},
	}

	catalogServices := []models.Service{
		{ID: "svc-1", Name: "Shirts", Price: 30, Unit: "piece"},
		{ID: "svc-2", Name: "Pants", Price: 25, Unit: "piece"},
		{ID: "svc-3", Name: "Saree", Price: 40, Unit: "piece"},
		{ID: "svc-4", Name: "Suit", Price: 50, Unit: "piece"},
		{ID: "svc-5", Name: "Dress", Price: 45, Unit: "piece"},
		{ID: "svc-6", Name: "Bedsheet", Price: 35, Unit: "piece"},
		{ID: "svc-7", Name: "Kurta", Price: 28, Unit: "piece"},
	}

	log.Printf("Seeded catalog: %d shops, %d categories, %d services",
		len(shops), len(categories), len(catalogServices))
	return services.NewCatalogService(shops, categories, catalogServices)
}
