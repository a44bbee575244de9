package main

import (
	"context"
	"os"
	"strconv"

	_ "restaurant-pos/api/swagger" // swagger docs
	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/handler"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/service"
	"restaurant-pos/internal/websocket"
	"restaurant-pos/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Restaurant POS API
// @version         1.0
// @description     Restaurant point-of-sale backend: staff accounts with role-based permissions, menu, order lifecycle, tables, inventory and billing.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		logger.Info.Info("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "restaurant_pos")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		logger.Error.Fatalf("Database connection failed: %v", err)
	}
	logger.Info.Info("Connected to PostgreSQL successfully")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	billRepo := repository.NewBillRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	resolver := auth.NewResolver(roleRepo)
	middleware.InitPermissionMiddleware(resolver)

	userService := service.NewUserService(userRepo, roleRepo)
	roleService := service.NewRoleService(roleRepo, resolver, txManager)
	menuService := service.NewMenuService(menuRepo)
	orderService := service.NewOrderService(orderRepo, billRepo, menuRepo, txManager, wsHub)
	inventoryService := service.NewInventoryService(inventoryRepo, wsHub)

	tableCount, _ := strconv.Atoi(envOr("TABLE_COUNT", "12"))
	tableService := service.NewTableService(orderRepo, billRepo, wsHub, tableCount)

	ctx := context.Background()
	if err := roleService.SeedDefaults(ctx); err != nil {
		logger.Error.Fatalf("Failed to seed roles and permissions: %v", err)
	}
	if err := userService.EnsureBootstrapAdmin(ctx, envOr("ADMIN_USERNAME", "admin"), envOr("ADMIN_PASSWORD", "admin123")); err != nil {
		logger.Error.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	menuHandler := handler.NewMenuHandler(menuService)
	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	tableHandler := handler.NewTableHandler(tableService)
	billingHandler := handler.NewBillingHandler()

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check pings the database so load balancers see storage loss.
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(503, gin.H{"status": "DEGRADED"})
			return
		}
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API routes
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	roleHandler.RegisterRoutes(root)
	menuHandler.RegisterRoutes(root)
	orderHandler.RegisterRoutes(root)
	inventoryHandler.RegisterRoutes(root)
	tableHandler.RegisterRoutes(root)
	billingHandler.RegisterRoutes(root)

	port := envOr("PORT", "8080")
	logger.Info.Infof("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logger.Error.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
