package handlers

import (
	"cs-agent/internal/dto"
	"cs-agent/internal/models"
	"cs-agent/internal/repository"
	"cs-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TicketHandler struct {
	zendesk *repository.ZendeskRepository
	engine  *service.EngineService
	logger  *zap.Logger
}

func NewTicketHandler(zendesk *repository.ZendeskRepository, engine *service.EngineService, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{
		zendesk: zendesk,
		engine:  engine,
		logger:  logger,
	}
}

// ListTickets returns tickets filtered by status.
func (h *TicketHandler) ListTickets(c *fiber.Ctx) error {
	status := c.Query("status", "open")
	perPage := min(c.QueryInt("per_page", 25), 100)
	page := max(c.QueryInt("page", 1), 1)

	tickets, err := h.zendesk.ListTickets(c.Context(), status, perPage, page)
	if err != nil {
		h.logger.Error("Failed to list tickets", zap.Error(err))
		return upstreamError(c, "Zendesk", err)
	}
	return c.JSON(tickets)
}

// SearchTickets runs a ticket search with Zendesk query syntax.
func (h *TicketHandler) SearchTickets(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter 'q' is required",
		})
	}
	perPage := min(c.QueryInt("per_page", 25), 100)

	tickets, err := h.zendesk.SearchTickets(c.Context(), query, perPage)
	if err != nil {
		h.logger.Error("Failed to search tickets", zap.Error(err))
		return upstreamError(c, "Zendesk", err)
	}
	return c.JSON(tickets)
}

// GetTicket returns a single ticket.
func (h *TicketHandler) GetTicket(c *fiber.Ctx) error {
	ticketID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid ticket id",
		})
	}

	ticket, err := h.zendesk.GetTicket(c.Context(), int64(ticketID))
	if err != nil {
		h.logger.Error("Failed to get ticket", zap.Int("ticket_id", ticketID), zap.Error(err))
		return upstreamError(c, "Zendesk", err)
	}
	return c.JSON(ticket)
}

// ClassifyTicket runs AI classification on a ticket.
func (h *TicketHandler) ClassifyTicket(c *fiber.Ctx) error {
	ticketID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid ticket id",
		})
	}

	ticket, err := h.zendesk.GetTicket(c.Context(), int64(ticketID))
	if err != nil {
		return upstreamError(c, "Zendesk", err)
	}

	classification, degraded, err := h.engine.ClassifyTicket(c.Context(), ticket)
	if err != nil {
		return aiError(c, err)
	}
	c.Set("X-AI-Degraded", boolHeader(degraded))
	return c.JSON(classification)
}

// RespondToTicket classifies the ticket, drafts a reply and, on
// auto_send, posts it as a public comment and applies the suggested
// status.
func (h *TicketHandler) RespondToTicket(c *fiber.Ctx) error {
	ticketID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid ticket id",
		})
	}

	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	ticket, err := h.zendesk.GetTicket(c.Context(), int64(ticketID))
	if err != nil {
		return upstreamError(c, "Zendesk", err)
	}

	// Requester name is best-effort; the response falls back to the
	// email local part when the user lookup fails.
	var requesterName string
	if ticket.RequesterID != 0 {
		if user, err := h.zendesk.GetUser(c.Context(), ticket.RequesterID); err == nil {
			requesterName = user.Name
		}
	}

	classification, _, err := h.engine.ClassifyTicket(c.Context(), ticket)
	if err != nil {
		return aiError(c, err)
	}
	response, degraded, err := h.engine.SuggestTicketResponse(c.Context(), ticket, classification, requesterName)
	if err != nil {
		return aiError(c, err)
	}

	if req.AutoSend {
		comment := models.TicketComment{
			TicketID: int64(ticketID),
			Body:     response.Body,
			Public:   true,
		}
		if err := h.zendesk.AddComment(c.Context(), comment); err != nil {
			h.logger.Error("Failed to post response to ticket", zap.Int("ticket_id", ticketID), zap.Error(err))
			return upstreamError(c, "Zendesk", err)
		}
		if response.SuggestedStatus != "" {
			if _, err := h.zendesk.UpdateTicket(c.Context(), int64(ticketID), response.SuggestedStatus, "", nil); err != nil {
				return upstreamError(c, "Zendesk", err)
			}
		}
		h.logger.Info("Auto-posted response to ticket", zap.Int("ticket_id", ticketID))
	}

	c.Set("X-AI-Degraded", boolHeader(degraded))
	return c.JSON(response)
}

// UpdateTicket updates status/priority/tags and optionally adds a comment.
func (h *TicketHandler) UpdateTicket(c *fiber.Ctx) error {
	ticketID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid ticket id",
		})
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	var status models.TicketStatus
	if req.Status != "" {
		parsed, ok := models.ParseTicketStatus(req.Status)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid status: " + req.Status,
			})
		}
		status = parsed
	}
	var priority models.TicketPriority
	if req.Priority != "" {
		parsed, ok := models.ParseTicketPriority(req.Priority)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid priority: " + req.Priority,
			})
		}
		priority = parsed
	}

	if req.Comment != "" {
		comment := models.TicketComment{
			TicketID: int64(ticketID),
			Body:     req.Comment,
			Public:   req.IsPublicComment(),
		}
		if err := h.zendesk.AddComment(c.Context(), comment); err != nil {
			h.logger.Error("Failed to add comment", zap.Int("ticket_id", ticketID), zap.Error(err))
			return upstreamError(c, "Zendesk", err)
		}
	}

	updated, err := h.zendesk.UpdateTicket(c.Context(), int64(ticketID), status, priority, req.Tags)
	if err != nil {
		h.logger.Error("Failed to update ticket", zap.Int("ticket_id", ticketID), zap.Error(err))
		return upstreamError(c, "Zendesk", err)
	}
	return c.JSON(updated)
}

func boolHeader(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
