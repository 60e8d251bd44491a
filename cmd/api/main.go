package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/ai"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Procurement Management API
// @version         1.0
// @description     Vendor, tender, contract and purchase lifecycle management with staged approvals.
// @host            localhost:8080
// @BasePath        /api/v1
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

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	workflowStore := repository.NewWorkflowStore(db)
	userRepo := repository.NewUserRepository(db)

	riskScorer := ai.NewScorer(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))

	notificationService := service.NewNotificationService(db, wsHub)
	workflowService := service.NewWorkflowService(db, workflowStore, txManager, notificationService)
	userService := service.NewUserService(userRepo)
	vendorService := service.NewVendorService(db, txManager)
	ddService := service.NewDDService(db, txManager, riskScorer)
	tenderService := service.NewTenderService(db, txManager)
	contractService := service.NewContractService(db, txManager)
	poService := service.NewPurchaseOrderService(db, txManager)
	invoiceService := service.NewInvoiceService(db, txManager)
	resourceService := service.NewResourceService(db, txManager)
	srService := service.NewServiceRequestService(db, txManager)
	assetService := service.NewAssetService(db, txManager)
	deliverableService := service.NewDeliverableService(db, txManager)
	auditService := service.NewAuditService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	vendorHandler := handler.NewVendorHandler(vendorService, workflowService)
	ddHandler := handler.NewDDHandler(ddService, workflowService)
	tenderHandler := handler.NewTenderHandler(tenderService, workflowService)
	contractHandler := handler.NewContractHandler(contractService, workflowService)
	poHandler := handler.NewPurchaseOrderHandler(poService, workflowService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, workflowService)
	resourceHandler := handler.NewResourceHandler(resourceService, workflowService)
	srHandler := handler.NewServiceRequestHandler(srService, workflowService)
	assetHandler := handler.NewAssetHandler(assetService, workflowService)
	deliverableHandler := handler.NewDeliverableHandler(deliverableService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api/v1")
	userHandler.RegisterRoutes(api)
	vendorHandler.RegisterRoutes(api)
	ddHandler.RegisterRoutes(api)
	tenderHandler.RegisterRoutes(api)
	contractHandler.RegisterRoutes(api)
	poHandler.RegisterRoutes(api)
	invoiceHandler.RegisterRoutes(api)
	resourceHandler.RegisterRoutes(api)
	srHandler.RegisterRoutes(api)
	assetHandler.RegisterRoutes(api)
	deliverableHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)
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
