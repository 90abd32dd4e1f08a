package api

import (
	"cs-agent/internal/api/handlers"
	"cs-agent/pkg/config"
	"cs-agent/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func SetupRouter(
	cfg *config.Config,
	systemHandler *handlers.SystemHandler,
	ticketHandler *handlers.TicketHandler,
	emailHandler *handlers.EmailHandler,
	customerHandler *handlers.CustomerHandler,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key",
	}))
	app.Use(logger.New())

	// Unauthenticated info endpoints
	app.Get("/", systemHandler.Root)
	app.Get("/health", systemHandler.Health)

	// Everything below is gated when SERVER_API_KEY is set.
	app.Use(middleware.APIKeyMiddleware(cfg.Server.APIKey, appLogger))

	app.Get("/demo", systemHandler.Demo)
	app.Get("/api/demo", systemHandler.Demo)

	tickets := app.Group("/tickets")
	tickets.Get("/", ticketHandler.ListTickets)
	// /search must register before /:id so "search" is not read as an ID.
	tickets.Get("/search", ticketHandler.SearchTickets)
	tickets.Get("/:id", ticketHandler.GetTicket)
	tickets.Post("/:id/classify", ticketHandler.ClassifyTicket)
	tickets.Post("/:id/respond", ticketHandler.RespondToTicket)
	tickets.Put("/:id/update", ticketHandler.UpdateTicket)

	emails := app.Group("/emails")
	emails.Get("/unread", emailHandler.ListUnread)
	emails.Get("/:id", emailHandler.GetEmail)
	emails.Post("/:id/process", emailHandler.ProcessEmail)
	emails.Post("/:id/send", emailHandler.SendEmail)

	app.Get("/customers/:email/history", customerHandler.History)

	return app
}
