package handlers

import (
	"time"

	"cs-agent/internal/dto"
	"cs-agent/internal/models"
	"cs-agent/internal/repository"
	"cs-agent/internal/service"
	"cs-agent/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SystemHandler struct {
	cfg     *config.Config
	zendesk *repository.ZendeskRepository
	outlook *repository.OutlookRepository
	engine  *service.EngineService
	logger  *zap.Logger
}

func NewSystemHandler(cfg *config.Config, zendesk *repository.ZendeskRepository, outlook *repository.OutlookRepository, engine *service.EngineService, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		cfg:     cfg,
		zendesk: zendesk,
		outlook: outlook,
		engine:  engine,
		logger:  logger,
	}
}

// Root returns basic API info.
func (h *SystemHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.InfoResponse{
		Name:        h.cfg.App.Name,
		Version:     h.cfg.App.Version,
		Environment: h.cfg.App.Environment,
		Health:      "/health",
		Demo:        "/api/demo",
	})
}

// Health checks connectivity to all external services. Always returns
// 200; partial failure shows up as "degraded". The model key is only
// checked for presence, a real completion is not worth the tokens here.
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	zendeskOK := h.zendesk.CheckConnection(c.Context())
	graphOK := h.outlook.CheckConnection(c.Context())
	aiOK := h.cfg.GigaChat.APIKey != ""

	status := "ok"
	if !zendeskOK || !graphOK || !aiOK {
		status = "degraded"
	}

	return c.JSON(dto.HealthResponse{
		Status:      status,
		Version:     h.cfg.App.Version,
		Environment: h.cfg.App.Environment,
		Services: map[string]string{
			"zendesk":         serviceStatus(zendeskOK, "unavailable"),
			"microsoft_graph": serviceStatus(graphOK, "unavailable"),
			"ai_engine":       serviceStatus(aiOK, "no_api_key"),
		},
	})
}

func serviceStatus(ok bool, failure string) string {
	if ok {
		return "ok"
	}
	return failure
}

// Demo runs the full pipeline against fixed sample data so the service
// can be shown without ticketing or mailbox credentials. When the model
// is unreachable the endpoint answers with canned results instead of
// failing.
func (h *SystemHandler) Demo(c *fiber.Ctx) error {
	now := time.Now().UTC()

	mockTicket := models.Ticket{
		ID:      10042,
		Subject: "Incorrect charge on my November invoice — $850 over what I agreed",
		Description: "Hi,\n\n" +
			"I just received my November invoice and there's a charge of $2,350 " +
			"but my agreement clearly states $1,500/month for our ERP support engagement. " +
			"This is the SECOND time this has happened. I'm extremely frustrated. " +
			"If this isn't resolved by end of week, I'll be looking at other options. " +
			"I have a signed service agreement I can forward.\n\n" +
			"— Marcus Chen\n" +
			"  TechVentures Inc.\n" +
			"  marcus.chen@techventures.io",
		Status:      models.StatusOpen,
		Priority:    models.PriorityNormal,
		RequesterID: 88201,
		Tags:        []string{"billing", "overcharge"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mockEmail := models.InboundEmail{
		MessageID:   "demo-msg-001",
		Subject:     "ERP integration inquiry — P21 to Salesforce",
		SenderName:  "Sarah Park",
		SenderEmail: "s.park@designstudio.co",
		BodyText: "Hi,\n\n" +
			"We're evaluating ERP consulting partners for a P21 to Salesforce integration. " +
			"Do you offer a discovery session before scoping the project? Also, do you " +
			"have experience with automated data syncs between the two platforms?\n\n" +
			"Thanks,\nSarah",
		ReceivedAt: now,
	}

	resp, err := h.liveDemo(c, mockTicket, mockEmail)
	if err != nil {
		h.logger.Warn("AI unavailable for demo, using mock results", zap.Error(err))
		resp = mockDemo(mockTicket, mockEmail)
	}
	return c.JSON(resp)
}

func (h *SystemHandler) liveDemo(c *fiber.Ctx, mockTicket models.Ticket, mockEmail models.InboundEmail) (dto.DemoResponse, error) {
	classification, _, err := h.engine.ClassifyTicket(c.Context(), mockTicket)
	if err != nil {
		return dto.DemoResponse{}, err
	}
	suggested, _, err := h.engine.SuggestTicketResponse(c.Context(), mockTicket, classification, "Marcus")
	if err != nil {
		return dto.DemoResponse{}, err
	}

	emailTicket := models.Ticket{
		Subject:     mockEmail.Subject,
		Description: mockEmail.BodyText,
		Status:      models.StatusNew,
	}
	emailClassification, _, err := h.engine.ClassifyTicket(c.Context(), emailTicket)
	if err != nil {
		return dto.DemoResponse{}, err
	}
	emailDraft, _, err := h.engine.SuggestEmailResponse(c.Context(), mockEmail, &emailClassification)
	if err != nil {
		return dto.DemoResponse{}, err
	}

	return dto.DemoResponse{
		DemoTicket:        mockTicket,
		Classification:    classification,
		SuggestedResponse: suggested,
		DemoEmail:         mockEmail,
		EmailDraft:        emailDraft,
		Message: "Live demo running. Classification and responses generated in real-time " +
			"from the Conveyance365 knowledge base.",
	}, nil
}

func mockDemo(mockTicket models.Ticket, mockEmail models.InboundEmail) dto.DemoResponse {
	return dto.DemoResponse{
		DemoTicket: mockTicket,
		Classification: models.TicketClassification{
			TicketID:         mockTicket.ID,
			Priority:         models.PriorityHigh,
			Category:         models.CategoryBilling,
			Sentiment:        models.SentimentFrustrated,
			Confidence:       0.95,
			Summary:          "Client reports being overcharged $850 on November invoice. Second occurrence. Threatening to leave.",
			ShouldEscalate:   true,
			EscalationReason: "Repeat billing error with flight risk language",
		},
		SuggestedResponse: models.SuggestedResponse{
			TicketID: mockTicket.ID,
			Subject:  "Re: Incorrect charge on my November invoice",
			Body: "Hi Marcus,\n\nThank you for bringing this to our attention. I sincerely apologize " +
				"for the billing discrepancy — this should not have happened, especially a second time. " +
				"I've flagged your account for immediate review and our billing team will issue a credit " +
				"for the $850 overcharge within 24 hours. I'll personally follow up to ensure this is " +
				"resolved and it doesn't happen again.\n\nBest regards,\nThe Conveyance365 Team",
			SuggestedStatus: models.StatusPending,
		},
		DemoEmail: mockEmail,
		EmailDraft: models.SuggestedResponse{
			Subject: "Re: ERP integration inquiry — P21 to Salesforce",
			Body: "Hi Sarah,\n\nThank you for reaching out! Yes, we absolutely offer a discovery " +
				"session before scoping — it's actually how we start every engagement. We have deep " +
				"experience with P21 to Salesforce integrations, including automated data syncs.\n\n" +
				"Would you be available for a 30-minute discovery call this week?\n\n" +
				"Best regards,\nThe Conveyance365 Team",
			SuggestedStatus: models.StatusOpen,
		},
		Message: "Demo running with mock AI results. Set GIGACHAT_API_KEY for live classification and responses.",
	}
}
