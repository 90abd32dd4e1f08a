package models

// TicketClassification is the engine's judgment on a single ticket or email.
// A degraded classification carries Confidence 0.0 and neutral defaults so
// downstream automation can tell "the model failed" from "low urgency".
type TicketClassification struct {
	TicketID         int64          `json:"ticket_id,omitempty"`
	Category         TicketCategory `json:"category"`
	Priority         TicketPriority `json:"priority"`
	Sentiment        SentimentLabel `json:"sentiment"`
	ShouldEscalate   bool           `json:"should_escalate"`
	EscalationReason string         `json:"escalation_reason,omitempty"`
	Confidence       float64        `json:"confidence"`
	Summary          string         `json:"summary"`
}

// SuggestedResponse is a draft reply for a ticket or email, pending agent
// review unless the caller requested auto-send.
type SuggestedResponse struct {
	TicketID        int64        `json:"ticket_id,omitempty"`
	Subject         string       `json:"subject"`
	Body            string       `json:"body"`
	SuggestedStatus TicketStatus `json:"suggested_status"`
	SuggestedTags   []string     `json:"suggested_tags,omitempty"`
	InternalNotes   string       `json:"internal_notes,omitempty"`
}

// CustomerHistorySummary aggregates one requester's ticket history.
// TotalTickets and OpenTickets are computed locally and are authoritative;
// the model contributes only the narrative fields.
type CustomerHistorySummary struct {
	RequesterEmail string         `json:"requester_email"`
	TotalTickets   int            `json:"total_tickets"`
	OpenTickets    int            `json:"open_tickets"`
	AvgSentiment   SentimentLabel `json:"avg_sentiment"`
	TopCategories  []string       `json:"top_categories"`
	Summary        string         `json:"summary"`
	VIPFlag        bool           `json:"vip_flag"`
}
