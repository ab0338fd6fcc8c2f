package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/rbac"
	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/Tesseract-Nexus/go-shared/tracing"

	"github.com/cseshahriar/products/internal/config"
	"github.com/cseshahriar/products/internal/events"
	"github.com/cseshahriar/products/internal/handlers"
	"github.com/cseshahriar/products/internal/middleware"
	"github.com/cseshahriar/products/internal/repository"
)

// @title Product Catalog Admin API
// @version 1.0.0
// @description Product catalog administration: variants, products with variant and image rows, filtered listing and export
// @termsOfService http://swagger.io/terms/

// @contact.name Products API Support
// @contact.url http://www.example.com/support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8087
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	// Set Redis password from GCP Secret Manager
	redisOpts.Password = secrets.GetRedisPassword()
	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Initialize repository
	catalogRepo := repository.NewCatalogRepository(db, redisClient)

	// Initialize event publisher for audit trail only if NATS_URL is set
	var eventsPublisher *events.Publisher
	natsURL := os.Getenv("NATS_URL")
	if natsURL != "" {
		var err error
		eventsPublisher, err = events.NewPublisher(logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("NATS_URL not set, skipping event publishing initialization")
	}
	defer func() {
		if eventsPublisher != nil {
			eventsPublisher.Close()
		}
	}()

	// Initialize handlers with event publisher (may be nil if NATS not configured)
	variantsHandler := handlers.NewVariantsHandler(catalogRepo, logger)
	productsHandler := handlers.NewProductsHandler(catalogRepo, eventsPublisher, logger)
	imagesHandler := handlers.NewImagesHandler(catalogRepo, cfg.DocumentServiceURL, logger)
	exportHandler := handlers.NewExportHandler(catalogRepo, logger)

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.Environment == "production" {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig("products"))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig("products"))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	// Initialize Prometheus metrics
	metrics := gosharedmw.InitGlobalMetrics("tesseract", "products")
	log.Println("✓ Prometheus metrics initialized")

	// Initialize RBAC middleware
	rbacMw := rbac.NewMiddlewareWithURL(cfg.StaffServiceURL, nil)
	log.Println("✓ RBAC middleware initialized")

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Add observability middleware (metrics + tracing)
	router.Use(metrics.Middleware())
	router.Use(tracing.GinMiddleware("products"))
	router.Use(gosharedmw.CompressionMiddleware())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)
	router.GET("/metrics", gosharedmw.Handler())

	// Protected API routes
	api := router.Group("/api/v1")

	// Initialize Istio auth middleware for Keycloak JWT validation
	// During migration, AllowLegacyHeaders enables fallback to X-* headers from auth-bff
	istioAuthLogger := logrus.NewEntry(logger).WithField("component", "istio_auth")
	istioAuth := gosharedmw.IstioAuth(gosharedmw.IstioAuthConfig{
		RequireAuth:        true,
		AllowLegacyHeaders: true, // Allow X-User-ID, X-Tenant-ID during migration
		Logger:             istioAuthLogger,
	})

	// Authentication middleware
	// In development: use DevelopmentAuthMiddleware for local testing
	// In production: use IstioAuth which reads x-jwt-claim-* headers from Istio
	//                or falls back to X-* headers from auth-bff during migration
	if cfg.Environment == "development" {
		api.Use(middleware.DevelopmentAuthMiddleware())
		api.Use(middleware.TenantMiddleware()) // Still needed in dev mode
	} else {
		api.Use(istioAuth)
		// Vendor isolation for marketplace mode
		api.Use(gosharedmw.VendorScopeFilter())
	}

	// Every admin page requires an authenticated, active account before the
	// per-route permission check runs.
	api.Use(middleware.RequireActiveAccount())

	v1 := api.Group("")
	{
		variants := v1.Group("/variants")
		{
			variants.GET("", rbacMw.RequirePermission(rbac.PermissionProductsRead), variantsHandler.ListVariants)
			variants.GET("/:id", rbacMw.RequirePermission(rbac.PermissionProductsRead), variantsHandler.GetVariant)
			variants.POST("", rbacMw.RequirePermission(rbac.PermissionProductsCreate), variantsHandler.CreateVariant)
			variants.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), variantsHandler.UpdateVariant)
		}

		products := v1.Group("/products")
		{
			products.GET("", rbacMw.RequirePermission(rbac.PermissionProductsRead), productsHandler.ListProducts)
			products.GET("/new", rbacMw.RequirePermission(rbac.PermissionProductsRead), productsHandler.NewProduct)
			products.GET("/:id/edit", rbacMw.RequirePermission(rbac.PermissionProductsRead), productsHandler.EditProduct)
			products.POST("", rbacMw.RequirePermission(rbac.PermissionProductsCreate), productsHandler.CreateProduct)
			products.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), productsHandler.UpdateProduct)

			products.POST("/images/upload", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), imagesHandler.UploadProductImage)
			products.GET("/export", rbacMw.RequirePermission(rbac.PermissionProductsExport), exportHandler.ExportProducts)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server
	port := cfg.Port

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Products service starting on port %s", port)
		if err := router.Run(":" + port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down products service...")

	// Shutdown tracer provider
	if tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}

	log.Println("Products service stopped")
}
