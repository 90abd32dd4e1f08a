package handlers

import (
	"fmt"

	"cs-agent/internal/models"
	"cs-agent/internal/repository"
	"cs-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	zendesk *repository.ZendeskRepository
	engine  *service.EngineService
	logger  *zap.Logger
}

func NewCustomerHandler(zendesk *repository.ZendeskRepository, engine *service.EngineService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		zendesk: zendesk,
		engine:  engine,
		logger:  logger,
	}
}

// History fetches all tickets a customer has opened and returns an
// AI-generated relationship summary.
func (h *CustomerHandler) History(c *fiber.Ctx) error {
	email := c.Params("email")

	user, err := h.zendesk.FindUserByEmail(c.Context(), email)
	if err != nil {
		h.logger.Error("Failed to look up user", zap.String("email", email), zap.Error(err))
		return upstreamError(c, "Zendesk", err)
	}
	if user == nil {
		return c.JSON(models.CustomerHistorySummary{
			RequesterEmail: email,
			AvgSentiment:   models.SentimentNeutral,
			TopCategories:  []string{},
			Summary:        fmt.Sprintf("No support user found for %s.", email),
		})
	}

	tickets, err := h.zendesk.GetTicketsByRequester(c.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to fetch requester tickets", zap.String("email", email), zap.Error(err))
		return upstreamError(c, "Zendesk", err)
	}

	summary, degraded, err := h.engine.SummarizeCustomerHistory(c.Context(), email, tickets)
	if err != nil {
		return aiError(c, err)
	}
	c.Set("X-AI-Degraded", boolHeader(degraded))
	return c.JSON(summary)
}
