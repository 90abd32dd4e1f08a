package handlers

import (
	"fmt"
	"strings"

	"cs-agent/internal/dto"
	"cs-agent/internal/models"
	"cs-agent/internal/repository"
	"cs-agent/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EmailHandler struct {
	outlook *repository.OutlookRepository
	zendesk *repository.ZendeskRepository
	engine  *service.EngineService
	logger  *zap.Logger
}

func NewEmailHandler(outlook *repository.OutlookRepository, zendesk *repository.ZendeskRepository, engine *service.EngineService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{
		outlook: outlook,
		zendesk: zendesk,
		engine:  engine,
		logger:  logger,
	}
}

// ListUnread returns unread messages from the monitored mailbox.
func (h *EmailHandler) ListUnread(c *fiber.Ctx) error {
	top := min(c.QueryInt("top", 20), 50)

	emails, err := h.outlook.ListUnreadEmails(c.Context(), top)
	if err != nil {
		h.logger.Error("Failed to list unread emails", zap.Error(err))
		return upstreamError(c, "Graph API", err)
	}
	return c.JSON(emails)
}

// GetEmail returns a single message by ID.
func (h *EmailHandler) GetEmail(c *fiber.Ctx) error {
	messageID := c.Params("id")

	email, err := h.outlook.GetEmail(c.Context(), messageID)
	if err != nil {
		h.logger.Error("Failed to get email", zap.String("message_id", messageID), zap.Error(err))
		return upstreamError(c, "Graph API", err)
	}
	return c.JSON(email)
}

// ProcessEmail fetches an inbound email, classifies it, drafts a reply,
// and looks for an existing open ticket from the sender. With auto_reply
// the draft is sent and the email marked read; a send failure is reported
// in the payload rather than failing the whole request.
func (h *EmailHandler) ProcessEmail(c *fiber.Ctx) error {
	messageID := c.Params("id")

	var req dto.ProcessEmailRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	email, err := h.outlook.GetEmail(c.Context(), messageID)
	if err != nil {
		return upstreamError(c, "Graph API", err)
	}

	// Classify the email as if it were a fresh ticket.
	pseudoTicket := models.Ticket{
		Subject:     email.Subject,
		Description: email.BodyText,
		Status:      models.StatusNew,
	}
	classification, clsDegraded, err := h.engine.ClassifyTicket(c.Context(), pseudoTicket)
	if err != nil {
		return aiError(c, err)
	}
	draft, draftDegraded, err := h.engine.SuggestEmailResponse(c.Context(), email, &classification)
	if err != nil {
		return aiError(c, err)
	}

	// Existing-ticket lookup is non-fatal; the draft stands on its own.
	var existing *models.Ticket
	query := fmt.Sprintf("requester:%q status:open", email.SenderEmail)
	if results, err := h.zendesk.SearchTickets(c.Context(), query, 5); err == nil && len(results) > 0 {
		existing = &results[0]
	}

	result := dto.ProcessEmailResponse{
		Email:          email,
		Classification: classification,
		Degraded:       clsDegraded || draftDegraded,
		DraftResponse:  draft,
		ExistingTicket: existing,
	}

	if req.AutoReply {
		outbound := models.OutboundEmail{
			To:               []string{email.SenderEmail},
			Subject:          draft.Subject,
			BodyHTML:         strings.ReplaceAll(draft.Body, "\n", "<br>"),
			ReplyToMessageID: messageID,
		}
		if err := h.outlook.SendEmail(c.Context(), outbound); err != nil {
			h.logger.Error("Auto-reply failed", zap.String("message_id", messageID), zap.Error(err))
			result.AutoReplyError = err.Error()
		} else {
			if err := h.outlook.MarkEmailRead(c.Context(), messageID); err != nil {
				h.logger.Warn("Failed to mark email read", zap.String("message_id", messageID), zap.Error(err))
			}
			result.AutoReplied = true
		}
	}

	return c.JSON(result)
}

// SendEmail sends a manually reviewed reply and marks the original read.
func (h *EmailHandler) SendEmail(c *fiber.Ctx) error {
	messageID := c.Params("id")

	var req dto.SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if len(req.To) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one recipient is required",
		})
	}

	outbound := models.OutboundEmail{
		To:               req.To,
		Subject:          req.Subject,
		BodyHTML:         req.Body,
		ReplyToMessageID: messageID,
	}
	if err := h.outlook.SendEmail(c.Context(), outbound); err != nil {
		h.logger.Error("Failed to send email", zap.String("message_id", messageID), zap.Error(err))
		return upstreamError(c, "Graph API", err)
	}
	if err := h.outlook.MarkEmailRead(c.Context(), messageID); err != nil {
		h.logger.Warn("Failed to mark email read", zap.String("message_id", messageID), zap.Error(err))
	}

	return c.JSON(dto.SendEmailResponse{
		Status: "sent",
		To:     strings.Join(req.To, ", "),
	})
}
