package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"cs-agent/internal/models"

	"go.uber.org/zap"
)

// rawExcerptLimit bounds how much model text is logged on a parse failure.
const rawExcerptLimit = 300

// ResponseContract converts free-form model text into validated, typed
// results. Malformed output is an expected branch, not an exceptional one:
// every operation has a deterministic fallback built only from inputs the
// caller already had, and failures are reported through the degraded flag.
// The contract never returns an error for bad model text.
type ResponseContract struct {
	logger *zap.Logger
}

func NewResponseContract(logger *zap.Logger) *ResponseContract {
	return &ResponseContract{logger: logger}
}

// extractObject pulls a single JSON object out of model text. Surrounding
// whitespace is trimmed, markdown fence lines are dropped when the reply
// starts fenced, and the substring from the first '{' to the last '}' is
// decoded as a string-keyed object.
func extractObject(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if strings.HasPrefix(line, "```") {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &data); err != nil {
		return nil, fmt.Errorf("decode JSON object: %w", err)
	}
	return data, nil
}

// ParseClassification validates classification output. On any failure the
// fallback carries neutral defaults and confidence 0.0 so consumers can
// detect a failed classification unambiguously.
func (c *ResponseContract) ParseClassification(raw string, ticketID int64) (models.TicketClassification, bool) {
	fallback := models.TicketClassification{
		TicketID:   ticketID,
		Category:   models.CategoryGeneral,
		Priority:   models.PriorityNormal,
		Sentiment:  models.SentimentNeutral,
		Confidence: 0.0,
		Summary:    "Classification failed — manual review required.",
	}

	data, err := extractObject(raw)
	if err != nil {
		c.fail("classification", err, raw)
		return fallback, true
	}

	category, ok := models.ParseTicketCategory(stringField(data, "category"))
	if !ok {
		c.fail("classification", fmt.Errorf("unknown category %q", stringField(data, "category")), raw)
		return fallback, true
	}
	priority, ok := models.ParseTicketPriority(stringField(data, "priority"))
	if !ok {
		c.fail("classification", fmt.Errorf("unknown priority %q", stringField(data, "priority")), raw)
		return fallback, true
	}
	sentiment, ok := models.ParseSentimentLabel(stringField(data, "sentiment"))
	if !ok {
		c.fail("classification", fmt.Errorf("unknown sentiment %q", stringField(data, "sentiment")), raw)
		return fallback, true
	}
	shouldEscalate, ok := data["should_escalate"].(bool)
	if !ok {
		c.fail("classification", fmt.Errorf("missing or non-boolean should_escalate"), raw)
		return fallback, true
	}
	summary := stringField(data, "summary")
	if summary == "" {
		c.fail("classification", fmt.Errorf("missing summary"), raw)
		return fallback, true
	}

	return models.TicketClassification{
		TicketID:         ticketID,
		Category:         category,
		Priority:         priority,
		Sentiment:        sentiment,
		ShouldEscalate:   shouldEscalate,
		EscalationReason: stringField(data, "escalation_reason"),
		Confidence:       clamp01(confidenceField(data, 0.85)),
		Summary:          summary,
	}, false
}

// ResponseFallback carries the caller-side inputs the draft fallback is
// built from.
type ResponseFallback struct {
	TicketID    int64
	Subject     string
	Recipient   string // requester first name; empty falls back to "Member"
	CompanyName string
	Receipt     string // operation-specific acknowledgment sentence
}

// ParseSuggestedResponse validates draft-reply output. The fallback is a
// short templated acknowledgment with the tenant sign-off and status
// pending.
func (c *ResponseContract) ParseSuggestedResponse(raw string, fb ResponseFallback) (models.SuggestedResponse, bool) {
	recipient := fb.Recipient
	if recipient == "" {
		recipient = "Member"
	}
	fallback := models.SuggestedResponse{
		TicketID: fb.TicketID,
		Subject:  "Re: " + fb.Subject,
		Body: fmt.Sprintf("Dear %s,\n\n%s\n\nThe %s Team",
			recipient, fb.Receipt, fb.CompanyName),
		SuggestedStatus: models.StatusPending,
	}

	data, err := extractObject(raw)
	if err != nil {
		c.fail("response", err, raw)
		return fallback, true
	}

	subject := stringField(data, "subject")
	body := stringField(data, "body")
	if subject == "" || body == "" {
		c.fail("response", fmt.Errorf("missing subject or body"), raw)
		return fallback, true
	}

	status := models.StatusPending
	if rawStatus := stringField(data, "suggested_status"); rawStatus != "" {
		parsed, ok := models.ParseTicketStatus(rawStatus)
		if !ok {
			c.fail("response", fmt.Errorf("unknown suggested_status %q", rawStatus), raw)
			return fallback, true
		}
		status = parsed
	}

	tags, err := stringSliceField(data, "suggested_tags")
	if err != nil {
		c.fail("response", err, raw)
		return fallback, true
	}

	return models.SuggestedResponse{
		TicketID:        fb.TicketID,
		Subject:         subject,
		Body:            body,
		SuggestedStatus: status,
		SuggestedTags:   tags,
		InternalNotes:   stringField(data, "internal_notes"),
	}, false
}

// SummaryFallback carries the counts the caller computed locally. They are
// authoritative in both the success and the fallback path.
type SummaryFallback struct {
	RequesterEmail string
	TotalTickets   int
	OpenTickets    int
}

// ParseHistorySummary validates history-summary output. Only the narrative
// fields come from the model; counts always come from the caller.
func (c *ResponseContract) ParseHistorySummary(raw string, fb SummaryFallback) (models.CustomerHistorySummary, bool) {
	fallback := models.CustomerHistorySummary{
		RequesterEmail: fb.RequesterEmail,
		TotalTickets:   fb.TotalTickets,
		OpenTickets:    fb.OpenTickets,
		AvgSentiment:   models.SentimentNeutral,
		TopCategories:  []string{},
		Summary:        "Summary generation failed — manual review of ticket history recommended.",
	}

	data, err := extractObject(raw)
	if err != nil {
		c.fail("history summary", err, raw)
		return fallback, true
	}

	summary := stringField(data, "summary")
	if summary == "" {
		c.fail("history summary", fmt.Errorf("missing summary"), raw)
		return fallback, true
	}

	sentiment := models.SentimentNeutral
	if rawSentiment := stringField(data, "avg_sentiment"); rawSentiment != "" {
		parsed, ok := models.ParseSentimentLabel(rawSentiment)
		if !ok {
			c.fail("history summary", fmt.Errorf("unknown avg_sentiment %q", rawSentiment), raw)
			return fallback, true
		}
		sentiment = parsed
	}

	categories, err := stringSliceField(data, "top_categories")
	if err != nil {
		c.fail("history summary", err, raw)
		return fallback, true
	}
	if categories == nil {
		categories = []string{}
	}

	vip, _ := data["vip_flag"].(bool)

	return models.CustomerHistorySummary{
		RequesterEmail: fb.RequesterEmail,
		TotalTickets:   fb.TotalTickets,
		OpenTickets:    fb.OpenTickets,
		AvgSentiment:   sentiment,
		TopCategories:  categories,
		Summary:        summary,
		VIPFlag:        vip,
	}, false
}

func (c *ResponseContract) fail(operation string, err error, raw string) {
	c.logger.Error("Failed to parse model output, falling back",
		zap.String("operation", operation),
		zap.Error(err),
		zap.String("raw", excerpt(raw)),
	)
}

// excerpt truncates to the nearest rune boundary at or below the limit so
// the logged diagnostic is always valid UTF-8.
func excerpt(raw string) string {
	if len(raw) <= rawExcerptLimit {
		return raw
	}
	cut := rawExcerptLimit
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return raw[:cut]
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// confidenceField coerces a confidence-like value to a float. JSON numbers
// decode as float64; numeric strings are tolerated too.
func confidenceField(data map[string]any, def float64) float64 {
	switch v := data["confidence"].(type) {
	case float64:
		return v
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f
		}
	}
	return def
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func stringSliceField(data map[string]any, key string) ([]string, error) {
	raw, present := data[key]
	if !present || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is not an array", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s contains a non-string element", key)
		}
		out = append(out, s)
	}
	return out, nil
}
