package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cs-agent/internal/api"
	"cs-agent/internal/api/handlers"
	"cs-agent/internal/knowledge"
	"cs-agent/internal/repository"
	"cs-agent/internal/service"
	"cs-agent/pkg/config"
	"cs-agent/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting CS Agent service",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// Load tenant knowledge base
	kb, err := knowledge.Load(cfg.Knowledge.TenantFile)
	if err != nil {
		appLogger.Fatal("Failed to load knowledge base", zap.Error(err))
	}
	appLogger.Info("Knowledge base loaded", zap.String("company", kb.CompanyName()))

	// Initialize repositories
	zendeskRepo := repository.NewZendeskRepository(&cfg.Zendesk, appLogger)
	outlookRepo := repository.NewOutlookRepository(&cfg.Graph, appLogger)

	// Initialize services
	ctx := context.Background()
	llmService, err := service.NewLLMService(ctx, &cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	engine := service.NewEngineService(llmService, kb, &cfg.GigaChat, appLogger)

	// Initialize handlers
	systemHandler := handlers.NewSystemHandler(cfg, zendeskRepo, outlookRepo, engine, appLogger)
	ticketHandler := handlers.NewTicketHandler(zendeskRepo, engine, appLogger)
	emailHandler := handlers.NewEmailHandler(outlookRepo, zendeskRepo, engine, appLogger)
	customerHandler := handlers.NewCustomerHandler(zendeskRepo, engine, appLogger)

	// Setup router
	app := api.SetupRouter(cfg, systemHandler, ticketHandler, emailHandler, customerHandler, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
