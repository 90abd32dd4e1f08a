package dto

import "cs-agent/internal/models"

type InfoResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Health      string `json:"health"`
	Demo        string `json:"demo"`
}

// HealthResponse reports per-service connectivity. Partial failure is
// reported as degraded, never as an HTTP error.
type HealthResponse struct {
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Services    map[string]string `json:"services"`
}

// ProcessEmailResponse is the result of classifying an inbound email and
// drafting a reply.
type ProcessEmailResponse struct {
	Email          models.InboundEmail         `json:"email"`
	Classification models.TicketClassification `json:"classification"`
	Degraded       bool                        `json:"degraded"`
	DraftResponse  models.SuggestedResponse    `json:"draft_response"`
	ExistingTicket *models.Ticket              `json:"existing_ticket,omitempty"`
	AutoReplied    bool                        `json:"auto_replied"`
	AutoReplyError string                      `json:"auto_reply_error,omitempty"`
}

type SendEmailResponse struct {
	Status string `json:"status"`
	To     string `json:"to"`
}

// DemoResponse exercises the full pipeline against fixed sample data so
// the service can be shown without Zendesk or Graph credentials.
type DemoResponse struct {
	DemoTicket        models.Ticket               `json:"demo_ticket"`
	Classification    models.TicketClassification `json:"classification"`
	SuggestedResponse models.SuggestedResponse    `json:"suggested_response"`
	DemoEmail         models.InboundEmail         `json:"demo_email"`
	EmailDraft        models.SuggestedResponse    `json:"email_draft"`
	Message           string                      `json:"message"`
}
