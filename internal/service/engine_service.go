package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cs-agent/internal/knowledge"
	"cs-agent/internal/models"
	"cs-agent/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxHistoryTickets caps how many tickets are rendered into the summarize
// prompt to keep the context bounded.
const maxHistoryTickets = 30

// Completer is the single-call model gateway the engine talks to.
// *LLMService satisfies it; tests substitute a stub.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts CallOptions) (string, error)
}

// EngineService runs the four triage operations: classify a ticket, draft a
// ticket response, draft an email response, summarize a customer's history.
// Each operation is one knowledge-scoping step, one model call, and one
// parse-or-fallback step; the engine holds no per-request state and is safe
// for concurrent use.
type EngineService struct {
	llm      Completer
	kb       *knowledge.Store
	contract *ResponseContract
	cfg      *config.GigaChatConfig
	logger   *zap.Logger
}

func NewEngineService(llm Completer, kb *knowledge.Store, cfg *config.GigaChatConfig, logger *zap.Logger) *EngineService {
	return &EngineService{
		llm:      llm,
		kb:       kb,
		contract: NewResponseContract(logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// ClassifyTicket classifies category, priority, sentiment and escalation for
// one ticket. The degraded flag marks a fallback result after malformed
// model output; gateway errors (missing credential, provider failure)
// propagate instead.
func (e *EngineService) ClassifyTicket(ctx context.Context, ticket models.Ticket) (models.TicketClassification, bool, error) {
	traceID := uuid.NewString()

	user := fmt.Sprintf(`Classify this %s support ticket.

TICKET ID: %d
SUBJECT: %s
DESCRIPTION:
%s

EXISTING PRIORITY: %s
EXISTING STATUS: %s
TAGS: %s

KNOWLEDGE BASE CONTEXT:
%s`,
		e.kb.CompanyName(),
		ticket.ID,
		ticket.Subject,
		orPlaceholder(ticket.Description, "(no description provided)"),
		orPlaceholder(string(ticket.Priority), "none"),
		ticket.Status,
		orPlaceholder(strings.Join(ticket.Tags, ", "), "none"),
		e.kb.Context(nil),
	)

	raw, err := e.llm.Complete(ctx, classifySystemPrompt(e.kb), user, CallOptions{Model: e.cfg.ModelClassify})
	if err != nil {
		return models.TicketClassification{}, false, err
	}

	cls, degraded := e.contract.ParseClassification(raw, ticket.ID)
	e.logger.Info("Ticket classified",
		zap.String("trace_id", traceID),
		zap.Int64("ticket_id", ticket.ID),
		zap.String("category", string(cls.Category)),
		zap.String("priority", string(cls.Priority)),
		zap.Bool("should_escalate", cls.ShouldEscalate),
		zap.Bool("degraded", degraded),
	)
	return cls, degraded, nil
}

// SuggestTicketResponse drafts a reply to a classified ticket. The knowledge
// context is scoped to the classification's category; when the ticket should
// escalate, the prompt instructs the model to acknowledge urgency and
// promise a senior hand-off.
func (e *EngineService) SuggestTicketResponse(ctx context.Context, ticket models.Ticket, cls models.TicketClassification, requesterName string) (models.SuggestedResponse, bool, error) {
	traceID := uuid.NewString()

	escalationNote := ""
	if cls.ShouldEscalate {
		escalationNote = "\nIMPORTANT: This ticket should be escalated. Acknowledge the urgency and let the client know you are connecting them with a senior team member."
	}

	user := fmt.Sprintf(`Generate a customer service response for this %s support ticket.

TICKET ID: %d
SUBJECT: %s
FROM: %s
DESCRIPTION:
%s

CLASSIFICATION:
- Category: %s
- Priority: %s
- Sentiment: %s
- Should Escalate: %t
- Summary: %s

ESCALATION CONTACT (if needed): %s

KNOWLEDGE BASE:
%s

Write a response that directly addresses the client's issue.%s`,
		e.kb.CompanyName(),
		ticket.ID,
		ticket.Subject,
		orPlaceholder(requesterName, "Member"),
		orPlaceholder(ticket.Description, "(no description provided)"),
		cls.Category, cls.Priority, cls.Sentiment, cls.ShouldEscalate, cls.Summary,
		e.kb.EscalationContact(),
		e.kb.Context([]string{string(cls.Category)}),
		escalationNote,
	)

	raw, err := e.llm.Complete(ctx, respondSystemPrompt(e.kb), user, CallOptions{})
	if err != nil {
		return models.SuggestedResponse{}, false, err
	}

	resp, degraded := e.contract.ParseSuggestedResponse(raw, ResponseFallback{
		TicketID:    ticket.ID,
		Subject:     ticket.Subject,
		Recipient:   requesterName,
		CompanyName: e.kb.CompanyName(),
		Receipt: fmt.Sprintf("Thank you for reaching out to %s. We have received your message and a member of our team will be in touch shortly.",
			e.kb.CompanyName()),
	})
	e.logger.Info("Ticket response drafted",
		zap.String("trace_id", traceID),
		zap.Int64("ticket_id", ticket.ID),
		zap.String("suggested_status", string(resp.SuggestedStatus)),
		zap.Bool("degraded", degraded),
	)
	return resp, degraded, nil
}

// SuggestEmailResponse drafts a reply to an inbound email. A nil
// classification leaves the knowledge context unscoped.
func (e *EngineService) SuggestEmailResponse(ctx context.Context, email models.InboundEmail, cls *models.TicketClassification) (models.SuggestedResponse, bool, error) {
	traceID := uuid.NewString()

	var categories []string
	classificationNote := ""
	if cls != nil {
		categories = []string{string(cls.Category)}
		if encoded, err := json.Marshal(cls); err == nil {
			classificationNote = "CLASSIFICATION: " + string(encoded) + "\n\n"
		}
	}

	user := fmt.Sprintf(`Generate a customer service email response for this inbound message to %s.

FROM: %s
SUBJECT: %s
MESSAGE:
%s

%sKNOWLEDGE BASE:
%s

Write a warm, professional email response addressing the inquiry directly.`,
		e.kb.CompanyName(),
		orPlaceholder(email.SenderName, email.SenderEmail),
		email.Subject,
		orPlaceholder(email.BodyText, "(no message body)"),
		classificationNote,
		e.kb.Context(categories),
	)

	raw, err := e.llm.Complete(ctx, respondSystemPrompt(e.kb), user, CallOptions{})
	if err != nil {
		return models.SuggestedResponse{}, false, err
	}

	resp, degraded := e.contract.ParseSuggestedResponse(raw, ResponseFallback{
		Subject:     email.Subject,
		Recipient:   firstName(email.SenderName),
		CompanyName: e.kb.CompanyName(),
		Receipt: fmt.Sprintf("Thank you for contacting %s. We have received your message and will respond within 4 business hours.",
			e.kb.CompanyName()),
	})
	e.logger.Info("Email response drafted",
		zap.String("trace_id", traceID),
		zap.String("message_id", email.MessageID),
		zap.Bool("degraded", degraded),
	)
	return resp, degraded, nil
}

// SummarizeCustomerHistory produces an AI profile of one requester's ticket
// history. Total and open counts are computed locally and are never
// overwritten by the model. An empty history short-circuits to a zero-state
// summary without any model call.
func (e *EngineService) SummarizeCustomerHistory(ctx context.Context, requesterEmail string, tickets []models.Ticket) (models.CustomerHistorySummary, bool, error) {
	if len(tickets) == 0 {
		return models.CustomerHistorySummary{
			RequesterEmail: requesterEmail,
			TotalTickets:   0,
			OpenTickets:    0,
			AvgSentiment:   models.SentimentNeutral,
			TopCategories:  []string{},
			Summary:        "No ticket history found for this client.",
		}, false, nil
	}

	traceID := uuid.NewString()

	openCount := 0
	for _, t := range tickets {
		if t.Status.IsOpen() {
			openCount++
		}
	}

	prompted := tickets
	if len(prompted) > maxHistoryTickets {
		prompted = prompted[:maxHistoryTickets]
	}
	var lines []string
	for _, t := range prompted {
		lines = append(lines, fmt.Sprintf("- [%d] %s | status=%s | priority=%s",
			t.ID, t.Subject, t.Status, orPlaceholder(string(t.Priority), "none")))
	}

	user := fmt.Sprintf(`Summarize the ticket history for this %s client.

EMAIL: %s
TOTAL TICKETS: %d
OPEN TICKETS: %d

TICKET LIST:
%s

Provide an honest assessment of their experience and flag if they should be treated as VIP.`,
		e.kb.CompanyName(),
		requesterEmail,
		len(tickets),
		openCount,
		strings.Join(lines, "\n"),
	)

	raw, err := e.llm.Complete(ctx, historySystemPrompt(e.kb), user, CallOptions{})
	if err != nil {
		return models.CustomerHistorySummary{}, false, err
	}

	summary, degraded := e.contract.ParseHistorySummary(raw, SummaryFallback{
		RequesterEmail: requesterEmail,
		TotalTickets:   len(tickets),
		OpenTickets:    openCount,
	})
	e.logger.Info("Customer history summarized",
		zap.String("trace_id", traceID),
		zap.String("requester", requesterEmail),
		zap.Int("total_tickets", summary.TotalTickets),
		zap.Int("open_tickets", summary.OpenTickets),
		zap.Bool("degraded", degraded),
	)
	return summary, degraded, nil
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
