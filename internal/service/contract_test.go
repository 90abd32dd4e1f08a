package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"cs-agent/internal/models"

	"go.uber.org/zap"
)

func testContract() *ResponseContract {
	return NewResponseContract(zap.NewNop())
}

const validClassification = `{
	"category": "billing",
	"priority": "high",
	"sentiment": "frustrated",
	"should_escalate": true,
	"escalation_reason": "Repeat billing error",
	"confidence": 0.92,
	"summary": "Customer disputes a duplicate invoice charge."
}`

func TestParseClassificationValid(t *testing.T) {
	cls, degraded := testContract().ParseClassification(validClassification, 42)
	if degraded {
		t.Fatal("valid output marked degraded")
	}
	if cls.TicketID != 42 {
		t.Errorf("TicketID = %d, want 42", cls.TicketID)
	}
	if cls.Category != models.CategoryBilling || cls.Priority != models.PriorityHigh {
		t.Errorf("category/priority = %s/%s, want billing/high", cls.Category, cls.Priority)
	}
	if cls.Sentiment != models.SentimentFrustrated || !cls.ShouldEscalate {
		t.Errorf("sentiment/escalate = %s/%v, want frustrated/true", cls.Sentiment, cls.ShouldEscalate)
	}
	if cls.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", cls.Confidence)
	}
}

func TestParseClassificationFencedEqualsUnfenced(t *testing.T) {
	fenced := "```json\n" + validClassification + "\n```"
	prose := "Sure, here is the classification:\n\n" + validClassification + "\n\nLet me know if you need anything else."

	plain, d1 := testContract().ParseClassification(validClassification, 42)
	fromFenced, d2 := testContract().ParseClassification(fenced, 42)
	fromProse, d3 := testContract().ParseClassification(prose, 42)

	if d1 || d2 || d3 {
		t.Fatal("wrapped output marked degraded")
	}
	if plain != fromFenced || plain != fromProse {
		t.Errorf("wrapped parses diverge:\nplain  %+v\nfenced %+v\nprose  %+v", plain, fromFenced, fromProse)
	}
}

func TestParseClassificationFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no JSON at all", "I am unable to classify this ticket."},
		{"truncated JSON", `{"category": "billing", "priority":`},
		{"unknown category", strings.Replace(validClassification, `"billing"`, `"gardening"`, 1)},
		{"unknown priority", strings.Replace(validClassification, `"high"`, `"critical"`, 1)},
		{"unknown sentiment", strings.Replace(validClassification, `"frustrated"`, `"elated"`, 1)},
		{"non-boolean should_escalate", strings.Replace(validClassification, "true", `"yes"`, 1)},
		{"missing summary", `{"category": "billing", "priority": "high", "sentiment": "neutral", "should_escalate": false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, degraded := testContract().ParseClassification(tt.raw, 7)
			if !degraded {
				t.Fatal("expected degraded flag")
			}
			want := models.TicketClassification{
				TicketID:   7,
				Category:   models.CategoryGeneral,
				Priority:   models.PriorityNormal,
				Sentiment:  models.SentimentNeutral,
				Confidence: 0.0,
				Summary:    "Classification failed — manual review required.",
			}
			if cls != want {
				t.Errorf("fallback = %+v, want %+v", cls, want)
			}
		})
	}
}

func TestParseClassificationConfidence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"absent defaults", strings.Replace(validClassification, `"confidence": 0.92,`, "", 1), 0.85},
		{"numeric string", strings.Replace(validClassification, `0.92`, `"0.4"`, 1), 0.4},
		{"clamped high", strings.Replace(validClassification, `0.92`, `3.5`, 1), 1.0},
		{"clamped low", strings.Replace(validClassification, `0.92`, `-0.5`, 1), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, degraded := testContract().ParseClassification(tt.raw, 1)
			if degraded {
				t.Fatal("unexpected degraded flag")
			}
			if cls.Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", cls.Confidence, tt.want)
			}
		})
	}
}

func TestParseSuggestedResponseValid(t *testing.T) {
	raw := `{
		"subject": "Re: Invoice question",
		"body": "Hi Maria,\n\nWe reviewed the invoice...",
		"suggested_status": "solved",
		"suggested_tags": ["billing", "resolved"],
		"internal_notes": "Credit memo issued."
	}`
	resp, degraded := testContract().ParseSuggestedResponse(raw, ResponseFallback{TicketID: 9})
	if degraded {
		t.Fatal("valid output marked degraded")
	}
	if resp.SuggestedStatus != models.StatusSolved {
		t.Errorf("SuggestedStatus = %s, want solved", resp.SuggestedStatus)
	}
	if len(resp.SuggestedTags) != 2 || resp.InternalNotes == "" {
		t.Errorf("tags/notes not carried through: %+v", resp)
	}
}

func TestParseSuggestedResponseStatusDefaultsPending(t *testing.T) {
	raw := `{"subject": "Re: hello", "body": "Thanks for writing in."}`
	resp, degraded := testContract().ParseSuggestedResponse(raw, ResponseFallback{})
	if degraded {
		t.Fatal("valid output marked degraded")
	}
	if resp.SuggestedStatus != models.StatusPending {
		t.Errorf("SuggestedStatus = %s, want pending", resp.SuggestedStatus)
	}
}

func TestParseSuggestedResponseFallback(t *testing.T) {
	fb := ResponseFallback{
		TicketID:    40112,
		Subject:     "P21 report not generating",
		Recipient:   "Maria",
		CompanyName: "Conveyance365",
		Receipt:     "We have received your request and a member of our team will be in touch shortly.",
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"empty reply", ""},
		{"missing body", `{"subject": "Re: something"}`},
		{"invalid status", `{"subject": "Re: x", "body": "y", "suggested_status": "archived"}`},
		{"non-string tag", `{"subject": "Re: x", "body": "y", "suggested_tags": ["ok", 5]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, degraded := testContract().ParseSuggestedResponse(tt.raw, fb)
			if !degraded {
				t.Fatal("expected degraded flag")
			}
			if resp.Subject != "Re: P21 report not generating" {
				t.Errorf("Subject = %q", resp.Subject)
			}
			if !strings.HasPrefix(resp.Body, "Dear Maria,") {
				t.Errorf("Body does not address recipient: %q", resp.Body)
			}
			if !strings.Contains(resp.Body, fb.Receipt) {
				t.Errorf("Body missing acknowledgment: %q", resp.Body)
			}
			if !strings.HasSuffix(resp.Body, "The Conveyance365 Team") {
				t.Errorf("Body missing sign-off: %q", resp.Body)
			}
			if resp.SuggestedStatus != models.StatusPending {
				t.Errorf("SuggestedStatus = %s, want pending", resp.SuggestedStatus)
			}
		})
	}
}

func TestParseSuggestedResponseFallbackRecipientDefault(t *testing.T) {
	resp, degraded := testContract().ParseSuggestedResponse("garbage", ResponseFallback{
		Subject:     "Anything",
		CompanyName: "Acme",
		Receipt:     "We are on it.",
	})
	if !degraded {
		t.Fatal("expected degraded flag")
	}
	if !strings.HasPrefix(resp.Body, "Dear Member,") {
		t.Errorf("Body = %q, want Dear Member greeting", resp.Body)
	}
}

func TestParseHistorySummaryValid(t *testing.T) {
	raw := `{
		"summary": "Long-standing client with recurring EDI issues.",
		"avg_sentiment": "frustrated",
		"top_categories": ["maintenance", "billing"],
		"vip_flag": true
	}`
	fb := SummaryFallback{RequesterEmail: "j.whitfield@northstarlogistics.com", TotalTickets: 12, OpenTickets: 3}

	summary, degraded := testContract().ParseHistorySummary(raw, fb)
	if degraded {
		t.Fatal("valid output marked degraded")
	}
	if summary.TotalTickets != 12 || summary.OpenTickets != 3 {
		t.Errorf("counts = %d/%d, want caller-supplied 12/3", summary.TotalTickets, summary.OpenTickets)
	}
	if summary.AvgSentiment != models.SentimentFrustrated || !summary.VIPFlag {
		t.Errorf("sentiment/vip = %s/%v", summary.AvgSentiment, summary.VIPFlag)
	}
}

func TestParseHistorySummaryCountsAreAuthoritative(t *testing.T) {
	// Model-reported counts must be ignored even when present.
	raw := `{"summary": "ok", "total_tickets": 999, "open_tickets": 999}`
	fb := SummaryFallback{RequesterEmail: "a@b.c", TotalTickets: 4, OpenTickets: 1}

	summary, degraded := testContract().ParseHistorySummary(raw, fb)
	if degraded {
		t.Fatal("valid output marked degraded")
	}
	if summary.TotalTickets != 4 || summary.OpenTickets != 1 {
		t.Errorf("counts = %d/%d, want 4/1", summary.TotalTickets, summary.OpenTickets)
	}
}

func TestParseHistorySummaryFallback(t *testing.T) {
	fb := SummaryFallback{RequesterEmail: "a@b.c", TotalTickets: 8, OpenTickets: 2}

	summary, degraded := testContract().ParseHistorySummary("not json", fb)
	if !degraded {
		t.Fatal("expected degraded flag")
	}
	if summary.Summary != "Summary generation failed — manual review of ticket history recommended." {
		t.Errorf("Summary = %q", summary.Summary)
	}
	if summary.TotalTickets != 8 || summary.OpenTickets != 2 {
		t.Errorf("counts = %d/%d, want 8/2", summary.TotalTickets, summary.OpenTickets)
	}
	if summary.AvgSentiment != models.SentimentNeutral {
		t.Errorf("AvgSentiment = %s, want neutral", summary.AvgSentiment)
	}
	if summary.TopCategories == nil || len(summary.TopCategories) != 0 {
		t.Errorf("TopCategories = %v, want empty non-nil", summary.TopCategories)
	}
}

func TestExcerptKeepsRuneBoundary(t *testing.T) {
	// A three-byte rune straddling the limit must be dropped whole.
	raw := strings.Repeat("a", rawExcerptLimit-1) + "日本語"
	got := excerpt(raw)
	if !utf8.ValidString(got) {
		t.Errorf("excerpt produced invalid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) != rawExcerptLimit-1 {
		t.Errorf("len(excerpt) = %d, want %d", len(got), rawExcerptLimit-1)
	}

	multibyte := strings.Repeat("й", rawExcerptLimit)
	if !utf8.ValidString(excerpt(multibyte)) {
		t.Error("excerpt of multi-byte text produced invalid UTF-8")
	}

	short := "short reply"
	if excerpt(short) != short {
		t.Errorf("excerpt(%q) truncated a short string", short)
	}
}

func TestExtractObjectSurroundingProse(t *testing.T) {
	raw := "Here you go:\n```json\n{\"a\": 1}\n```\nHope that helps!"
	data, err := extractObject(raw)
	if err != nil {
		t.Fatalf("extractObject: %v", err)
	}
	if data["a"] != float64(1) {
		t.Errorf("data = %v", data)
	}
}
