package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cs-agent/internal/knowledge"
	"cs-agent/internal/models"
	"cs-agent/pkg/config"

	"go.uber.org/zap"
)

// stubCompleter returns a canned reply and records the prompts it saw.
type stubCompleter struct {
	reply   string
	err     error
	calls   int
	systems []string
	users   []string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string, _ CallOptions) (string, error) {
	s.calls++
	s.systems = append(s.systems, system)
	s.users = append(s.users, user)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testEngine(t *testing.T, llm Completer) *EngineService {
	t.Helper()
	kb, err := knowledge.Load("")
	if err != nil {
		t.Fatalf("load knowledge: %v", err)
	}
	cfg := &config.GigaChatConfig{ModelClassify: "GigaChat", ModelRespond: "GigaChat-Pro"}
	return NewEngineService(llm, kb, cfg, zap.NewNop())
}

func sampleTicket() models.Ticket {
	return models.Ticket{
		ID:      40098,
		Subject: "Integration sync failing — EDI 856 ASN",
		Description: "Our EDI 856 ASN documents are not syncing to P21 since Tuesday. " +
			"The middleware log shows a 401 from the API gateway.",
		Status:      models.StatusOpen,
		Priority:    models.PriorityHigh,
		RequesterID: 9002,
		Tags:        []string{"edi", "integration"},
	}
}

func TestClassifyTicket(t *testing.T) {
	stub := &stubCompleter{reply: `{
		"category": "maintenance",
		"priority": "high",
		"sentiment": "frustrated",
		"should_escalate": false,
		"confidence": 0.9,
		"summary": "EDI 856 sync failing with auth errors."
	}`}
	engine := testEngine(t, stub)

	cls, degraded, err := engine.ClassifyTicket(context.Background(), sampleTicket())
	if err != nil {
		t.Fatalf("ClassifyTicket: %v", err)
	}
	if degraded {
		t.Error("valid model output marked degraded")
	}
	if cls.TicketID != 40098 {
		t.Errorf("TicketID = %d, want 40098", cls.TicketID)
	}
	if cls.Category != models.CategoryMaintenance || cls.Priority != models.PriorityHigh {
		t.Errorf("category/priority = %s/%s", cls.Category, cls.Priority)
	}

	// Prompt must carry the ticket and the knowledge context.
	if stub.calls != 1 {
		t.Fatalf("model calls = %d, want 1", stub.calls)
	}
	prompt := stub.users[0]
	for _, want := range []string{"EDI 856", "KNOWLEDGE BASE CONTEXT:", "COMPANY OVERVIEW:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestClassifyTicketDegradedOnGarbage(t *testing.T) {
	stub := &stubCompleter{reply: "I cannot help with that."}
	engine := testEngine(t, stub)

	cls, degraded, err := engine.ClassifyTicket(context.Background(), sampleTicket())
	if err != nil {
		t.Fatalf("ClassifyTicket: %v", err)
	}
	if !degraded {
		t.Fatal("garbage output not marked degraded")
	}
	if cls.Confidence != 0.0 || cls.Category != models.CategoryGeneral {
		t.Errorf("fallback = %+v", cls)
	}
}

func TestClassifyTicketPropagatesGatewayError(t *testing.T) {
	stub := &stubCompleter{err: ErrNotConfigured}
	engine := testEngine(t, stub)

	_, _, err := engine.ClassifyTicket(context.Background(), sampleTicket())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSuggestTicketResponseScopesAndEscalates(t *testing.T) {
	stub := &stubCompleter{reply: `{"subject": "Re: EDI sync", "body": "Hi James, we found the cause."}`}
	engine := testEngine(t, stub)

	cls := models.TicketClassification{
		TicketID:       40098,
		Category:       models.CategoryBilling,
		Priority:       models.PriorityUrgent,
		Sentiment:      models.SentimentAngry,
		ShouldEscalate: true,
		Summary:        "Billing dispute.",
	}
	resp, degraded, err := engine.SuggestTicketResponse(context.Background(), sampleTicket(), cls, "James Whitfield")
	if err != nil {
		t.Fatalf("SuggestTicketResponse: %v", err)
	}
	if degraded {
		t.Error("valid model output marked degraded")
	}
	if resp.TicketID != 40098 {
		t.Errorf("TicketID = %d, want 40098", resp.TicketID)
	}

	prompt := stub.users[0]
	if !strings.Contains(prompt, "IMPORTANT: This ticket should be escalated.") {
		t.Error("escalation note missing from prompt")
	}
	// Context is scoped to the classified category: the billing policy
	// appears, unrelated policies do not.
	if !strings.Contains(prompt, "billing:") {
		t.Error("billing policy missing from scoped context")
	}
	if strings.Contains(prompt, "nda:") {
		t.Error("unrelated policy leaked into scoped context")
	}
}

func TestSuggestTicketResponseFallbackSignOff(t *testing.T) {
	stub := &stubCompleter{reply: "```json\n{\"subject\": \"Re: x\"\n```"} // truncated
	engine := testEngine(t, stub)

	resp, degraded, err := engine.SuggestTicketResponse(context.Background(), sampleTicket(), models.TicketClassification{
		Category: models.CategoryGeneral,
	}, "James")
	if err != nil {
		t.Fatalf("SuggestTicketResponse: %v", err)
	}
	if !degraded {
		t.Fatal("malformed output not marked degraded")
	}
	if !strings.HasPrefix(resp.Body, "Dear James,") {
		t.Errorf("Body = %q", resp.Body)
	}
	if !strings.HasSuffix(resp.Body, "The Conveyance365 Team") {
		t.Errorf("Body missing tenant sign-off: %q", resp.Body)
	}
	if resp.SuggestedStatus != models.StatusPending {
		t.Errorf("SuggestedStatus = %s, want pending", resp.SuggestedStatus)
	}
}

func TestSuggestEmailResponse(t *testing.T) {
	stub := &stubCompleter{reply: `{"subject": "Re: inquiry", "body": "Hi Sarah, yes we do."}`}
	engine := testEngine(t, stub)

	email := models.InboundEmail{
		MessageID:   "MSG-1",
		Subject:     "ERP integration inquiry",
		SenderName:  "Sarah Park",
		SenderEmail: "s.park@designstudio.co",
		BodyText:    "Do you offer discovery sessions?",
	}
	cls := &models.TicketClassification{Category: models.CategoryGeneral, Priority: models.PriorityNormal}

	resp, degraded, err := engine.SuggestEmailResponse(context.Background(), email, cls)
	if err != nil {
		t.Fatalf("SuggestEmailResponse: %v", err)
	}
	if degraded {
		t.Error("valid model output marked degraded")
	}
	if resp.Subject != "Re: inquiry" {
		t.Errorf("Subject = %q", resp.Subject)
	}
	if !strings.Contains(stub.users[0], `CLASSIFICATION: {"category":"general"`) {
		t.Errorf("classification not inlined in prompt:\n%s", stub.users[0])
	}
}

func TestSuggestEmailResponseFallbackUsesFirstName(t *testing.T) {
	stub := &stubCompleter{reply: "no json here"}
	engine := testEngine(t, stub)

	email := models.InboundEmail{
		Subject:     "Anything",
		SenderName:  "Sarah Park",
		SenderEmail: "s.park@designstudio.co",
		BodyText:    "Hello",
	}
	resp, degraded, err := engine.SuggestEmailResponse(context.Background(), email, nil)
	if err != nil {
		t.Fatalf("SuggestEmailResponse: %v", err)
	}
	if !degraded {
		t.Fatal("malformed output not marked degraded")
	}
	if !strings.HasPrefix(resp.Body, "Dear Sarah,") {
		t.Errorf("Body = %q, want first-name greeting", resp.Body)
	}
	if !strings.Contains(resp.Body, "4 business hours") {
		t.Errorf("Body missing email acknowledgment: %q", resp.Body)
	}
}

func TestSummarizeCustomerHistoryEmptySkipsModel(t *testing.T) {
	stub := &stubCompleter{reply: "should never be called"}
	engine := testEngine(t, stub)

	summary, degraded, err := engine.SummarizeCustomerHistory(context.Background(), "a@b.c", nil)
	if err != nil {
		t.Fatalf("SummarizeCustomerHistory: %v", err)
	}
	if degraded {
		t.Error("zero-state summary marked degraded")
	}
	if stub.calls != 0 {
		t.Errorf("model calls = %d, want 0 for empty history", stub.calls)
	}
	if summary.Summary != "No ticket history found for this client." {
		t.Errorf("Summary = %q", summary.Summary)
	}
	if summary.TotalTickets != 0 || summary.OpenTickets != 0 {
		t.Errorf("counts = %d/%d, want 0/0", summary.TotalTickets, summary.OpenTickets)
	}
}

func TestSummarizeCustomerHistoryCounts(t *testing.T) {
	stub := &stubCompleter{reply: `{"summary": "Stable client.", "avg_sentiment": "neutral"}`}
	engine := testEngine(t, stub)

	tickets := []models.Ticket{
		{ID: 1, Subject: "a", Status: models.StatusNew},
		{ID: 2, Subject: "b", Status: models.StatusOpen},
		{ID: 3, Subject: "c", Status: models.StatusPending},
		{ID: 4, Subject: "d", Status: models.StatusHold},
		{ID: 5, Subject: "e", Status: models.StatusSolved},
		{ID: 6, Subject: "f", Status: models.StatusClosed},
	}
	summary, degraded, err := engine.SummarizeCustomerHistory(context.Background(), "a@b.c", tickets)
	if err != nil {
		t.Fatalf("SummarizeCustomerHistory: %v", err)
	}
	if degraded {
		t.Error("valid model output marked degraded")
	}
	// new/open/pending count as open; hold/solved/closed do not.
	if summary.TotalTickets != 6 || summary.OpenTickets != 3 {
		t.Errorf("counts = %d/%d, want 6/3", summary.TotalTickets, summary.OpenTickets)
	}
	if !strings.Contains(stub.users[0], "TOTAL TICKETS: 6") || !strings.Contains(stub.users[0], "OPEN TICKETS: 3") {
		t.Errorf("prompt missing locally computed counts:\n%s", stub.users[0])
	}
}

func TestSummarizeCustomerHistoryTruncatesPrompt(t *testing.T) {
	stub := &stubCompleter{reply: `{"summary": "Busy client."}`}
	engine := testEngine(t, stub)

	tickets := make([]models.Ticket, 45)
	for i := range tickets {
		tickets[i] = models.Ticket{ID: int64(i + 1), Subject: "t", Status: models.StatusClosed}
	}
	summary, _, err := engine.SummarizeCustomerHistory(context.Background(), "a@b.c", tickets)
	if err != nil {
		t.Fatalf("SummarizeCustomerHistory: %v", err)
	}
	// Counts reflect the full set even though the prompt is capped.
	if summary.TotalTickets != 45 {
		t.Errorf("TotalTickets = %d, want 45", summary.TotalTickets)
	}
	if strings.Count(stub.users[0], "\n- [") != maxHistoryTickets {
		t.Errorf("prompt lines = %d, want %d", strings.Count(stub.users[0], "\n- ["), maxHistoryTickets)
	}
}
