package app

import (
	"database/sql"
	"fmt"
	"log"

	"crmhub/internal/config"
	"crmhub/internal/handlers"
	"crmhub/internal/middleware"
	"crmhub/internal/pdf"
	"crmhub/internal/repositories"
	"crmhub/internal/routes"
	"crmhub/internal/services"
	"crmhub/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "crmhub/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to the database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close the database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	leadRepo := repositories.NewLeadRepository(db)

	// === Services ===
	authService := services.NewAuthService()

	// mock mode captures messages in an in-process outbox instead of dialing out
	var outbox repositories.OutboxRepository
	var emailService services.EmailService
	if cfg.Email.Mock {
		outbox = repositories.NewOutboxRepository()
		emailService = services.NewMockEmailService(outbox)
		log.Printf("[app] email in mock mode, messages captured in outbox")
	} else {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	smsClient := utils.NewSMSClient(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.Sender, cfg.SMS.DryRun)
	smsService := services.NewSMSService(smsClient, outbox)

	userService := services.NewUserService(userRepo, emailService, smsService, authService, cfg.Server.LoginURL)

	// Telegram notifier is optional; nil disables it
	telegramService, err := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("[app] telegram disabled: %v", err)
		telegramService = nil
	}
	var notifier services.TaskNotifier
	if telegramService != nil {
		notifier = telegramService
	}

	taskService := services.NewTaskService(taskRepo, userRepo, notifier)
	leadService := services.NewLeadService(leadRepo)
	reportService := services.NewReportService(userRepo, taskRepo, leadRepo)
	pdfGen := pdf.NewReportGenerator("CRM Hub")

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService, userService)
	leadHandler := handlers.NewLeadHandler(leadService)
	reportHandler := handlers.NewReportHandler(reportService, pdfGen)

	var outboxHandler *handlers.OutboxHandler
	if outbox != nil {
		outboxHandler = handlers.NewOutboxHandler(outbox)
	}

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		taskHandler,
		leadHandler,
		reportHandler,
		outboxHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
