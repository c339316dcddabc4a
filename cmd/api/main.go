package main

import (
	"fmt"
	"net/http"
	"os"

	"budgetbook/internal/config"
	"budgetbook/internal/database"
	"budgetbook/internal/handlers"
	"budgetbook/internal/logger"
	"budgetbook/internal/middleware"
	"budgetbook/internal/services"
	"budgetbook/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "budgetbook/internal/docs" // Import swagger docs
)

// @title           Budgetbook API
// @version         1.0
// @description     Budgetbook is a personal budgeting application: users create budgets with allocated amounts, add expense items against them, and view aggregate spending.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name session_id
// @description Opaque session token issued at login.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Initialize database configuration (also loads .env)
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(db, appConfig.SessionLifetime)
	budgetService := services.NewBudgetService(db)
	itemService := services.NewItemService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	itemHandler := handlers.NewItemHandler(itemService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth routes. Logout deliberately skips the session check: a
	// request without a cookie still succeeds.
	auth := router.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// Session-protected auth routes
	authProtected := auth.Group("")
	authProtected.Use(middleware.SessionAuth(sessionService))
	authProtected.GET("/me", authHandler.Me)
	authProtected.PATCH("/update-user", authHandler.UpdateUser)
	authProtected.PATCH("/update-password", authHandler.UpdatePassword)
	authProtected.DELETE("/deactivate", authHandler.Deactivate)

	// Budget routes
	budgets := router.Group("/budget")
	budgets.Use(middleware.SessionAuth(sessionService))
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PATCH("", budgetHandler.UpdateBudget)
	budgets.DELETE("", budgetHandler.DeleteBudget)

	// Item routes
	items := router.Group("/item")
	items.Use(middleware.SessionAuth(sessionService))
	items.POST("", itemHandler.CreateItem)
	items.GET("", itemHandler.GetItems)
	items.GET("/all", itemHandler.GetAllItems)
	items.PATCH("", itemHandler.UpdateItem)
	items.DELETE("", itemHandler.DeleteItem)

	// Protected page paths: coarse redirect gate for direct navigation
	pages := router.Group("")
	pages.Use(middleware.PageGate(sessionService))
	for _, path := range []string{"/dashboard", "/profile", "/settings"} {
		pages.GET(path, servePage)
		pages.GET(path+"/*sub", servePage)
	}

	log.Infof("Starting budgetbook server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// servePage stands in for the page-rendering frontend: the API only gates
// navigation, it does not render.
func servePage(c *gin.Context) {
	c.Status(http.StatusOK)
}
