package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/ai"
	"github.com/campus-helpdesk/backend/internal/api/handlers"
	"github.com/campus-helpdesk/backend/internal/auth"
	"github.com/campus-helpdesk/backend/internal/cache/memory"
	"github.com/campus-helpdesk/backend/internal/cache/redis"
	"github.com/campus-helpdesk/backend/internal/chat"
	"github.com/campus-helpdesk/backend/internal/engine"
	"github.com/campus-helpdesk/backend/internal/guardrail"
	"github.com/campus-helpdesk/backend/internal/metrics"
	"github.com/campus-helpdesk/backend/internal/middleware/adminauth"
	"github.com/campus-helpdesk/backend/internal/middleware/ratelimit"
	"github.com/campus-helpdesk/backend/internal/middleware/security"
	"github.com/campus-helpdesk/backend/internal/storage/jsonstore"
	"github.com/campus-helpdesk/backend/internal/storage/sqlite"
	"github.com/campus-helpdesk/backend/pkg/config"
	appLogger "github.com/campus-helpdesk/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Campus Helpdesk API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var authStore auth.Store
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		authStore = redisClient
	} else {
		appLogger.Info("Redis disabled, using in-memory auth store")
		authStore = memory.NewStore()
	}

	kbStore := jsonstore.NewKnowledgeBaseStore(cfg.Data.KnowledgeBasePath)
	adminDataStore := jsonstore.NewAdminDataStore(cfg.Data.AdminDataPath)

	guard := guardrail.NewFilter(cfg.Guardrail)
	ruleEngine := engine.NewEngine(kbStore, adminDataStore, cfg.Engine.SimilarityThreshold)

	adapter, err := ai.NewAdapter(
		cfg.LLM,
		cfg.College.Name,
		cfg.Guardrail.Messages.Fallback,
		cfg.Guardrail.Messages.OffTopic,
	)
	if err != nil {
		appLogger.Fatal("Failed to create AI adapter", zap.Error(err))
	}

	dispatcher := chat.NewDispatcher(guard, ruleEngine, adapter, sqliteClient, cfg.Guardrail.Messages.Empty)
	authenticator := auth.NewAuthenticator(cfg.Auth, authStore)

	limiter := ratelimit.New(cfg.RateLimit.MaxRequestsPerMinute)
	defer limiter.Stop()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Server.IsDevelopment(),
	}))

	chatHandler := handlers.NewChatHandler(dispatcher, sqliteClient)
	wsHandler := handlers.NewWebSocketHandler(dispatcher)
	studentHandler := handlers.NewStudentHandler(adminDataStore)
	adminHandler := handlers.NewAdminHandler(authenticator, adminDataStore)

	api := app.Group("/api/v1")

	api.Post("/chat", limiter.Middleware(), chatHandler.HandleChat)
	api.Post("/feedback", chatHandler.SubmitFeedback)
	api.Get("/student-data", studentHandler.GetStudentData)

	admin := api.Group("/admin")
	admin.Post("/login", adminHandler.Login)
	admin.Post("/verify-otp", adminHandler.VerifyOTP)

	protected := admin.Group("", adminauth.Middleware(authenticator))
	protected.Post("/logout", adminHandler.Logout)
	protected.Get("/data", adminHandler.GetData)
	protected.Post("/data", adminHandler.SaveData)
	protected.Get("/history", chatHandler.GetChatHistory)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"message": "Chatbot is running!",
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
