package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Wahiduz89/spendsmart/internal/config"
	"github.com/Wahiduz89/spendsmart/internal/database"
	"github.com/Wahiduz89/spendsmart/internal/handlers"
	"github.com/Wahiduz89/spendsmart/internal/logger"
	"github.com/Wahiduz89/spendsmart/internal/middleware"
	"github.com/Wahiduz89/spendsmart/internal/receipt"
	"github.com/Wahiduz89/spendsmart/internal/services"
	"github.com/Wahiduz89/spendsmart/internal/validator"

	_ "github.com/Wahiduz89/spendsmart/internal/docs" // Import swagger docs
)

// @title           SpendSmart API
// @version         1.0
// @description     SpendSmart is a personal expense tracking application with budgets, alerts, receipt scanning, and spending reports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
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

	// Register custom request validators
	validator.Register()

	// Receipt storage and text recognition
	blobStore, err := receipt.NewLocalStore(appConfig.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	recognizer := receipt.NewCommandRecognizer(appConfig.OCRBinary)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	preferenceService := services.NewPreferenceService(db)
	budgetService := services.NewBudgetService(db, expenseService, preferenceService)
	notificationService := services.NewNotificationService(db)
	reportService := services.NewReportService(db)
	receiptService := services.NewReceiptService(db, appConfig, blobStore, recognizer)
	emailService := services.NewEmailService(appConfig)
	monitorService := services.NewMonitorService(db, appConfig, userService, expenseService, preferenceService, notificationService, emailService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, categoryService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, monitorService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService)
	receiptHandler := handlers.NewReceiptHandler(receiptService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Periodic budget monitoring
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go runBudgetMonitor(monitorCtx, monitorService, appConfig.AlertCheckInterval)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

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

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("/check", budgetHandler.RunBudgetCheck)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.DELETE("/read", notificationHandler.DeleteRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)

	// Preference routes
	preferences := protected.Group("/preferences")
	preferences.GET("", preferenceHandler.GetPreferences)
	preferences.PUT("", preferenceHandler.UpdatePreferences)

	// Receipt routes
	receipts := protected.Group("/receipts")
	receipts.POST("/scan", receiptHandler.ScanReceipt)
	receipts.GET("/:id", receiptHandler.GetReceipt)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/export", reportHandler.ExportReport)

	log.Infof("Starting SpendSmart backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// runBudgetMonitor runs budget monitoring passes on a fixed interval until
// the context is cancelled.
func runBudgetMonitor(ctx context.Context, monitor services.MonitorServicer, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := monitor.RunBudgetCheck(ctx); err != nil {
				logger.Get().Errorw("scheduled budget check failed", "error", err)
			}
		}
	}
}
