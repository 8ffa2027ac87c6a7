package main

import (
	"log"
	"os"

	"github.com/fixpoint-works/repairdesk-api/internal/database"
	"github.com/fixpoint-works/repairdesk-api/internal/handler"
	"github.com/fixpoint-works/repairdesk-api/internal/invoice"
	"github.com/fixpoint-works/repairdesk-api/internal/middleware"
	"github.com/fixpoint-works/repairdesk-api/internal/repository"
	"github.com/fixpoint-works/repairdesk-api/internal/service"
	"github.com/fixpoint-works/repairdesk-api/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           RepairDesk API
// @version         1.0
// @description     Device repair and spare parts storefront API with on-the-fly invoice PDF generation.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Shop identity printed on invoice headers and footers
	shop := invoice.ShopInfo{
		Name:          os.Getenv("SHOP_NAME"),
		ContactNumber: os.Getenv("SHOP_CONTACT"),
	}
	if shop.Name == "" {
		shop.Name = "FixPoint Repairs"
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	partRepo := repository.NewPartRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	refs := invoice.NewReferenceGenerator(nil, nil)
	generator := invoice.NewGenerator(shop, refs)

	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(partRepo, movementRepo, auditRepo, txManager, wsHub)
	customerService := service.NewCustomerService(customerRepo)
	bookingService := service.NewBookingService(bookingRepo, customerRepo, auditRepo, txManager, refs)
	invoiceService := service.NewInvoiceService(partRepo, customerRepo, auditRepo, generator)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	partHandler := handler.NewPartHandler(catalogService)
	customerHandler := handler.NewCustomerHandler(customerService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for live stock updates
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	partHandler.RegisterRoutes(api)
	customerHandler.RegisterRoutes(api)
	bookingHandler.RegisterRoutes(api)
	invoiceHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
