package repository

import (
	"context"
	"testing"
	"time"

	"cs-agent/internal/models"
	"cs-agent/pkg/config"

	"go.uber.org/zap"
)

func demoZendesk() *ZendeskRepository {
	cfg := &config.ZendeskConfig{DemoMode: true, Timeout: 5 * time.Second}
	return NewZendeskRepository(cfg, zap.NewNop())
}

func TestListTicketsFiltersByStatus(t *testing.T) {
	repo := demoZendesk()

	open, err := repo.ListTickets(context.Background(), "open", 25, 1)
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(open) == 0 {
		t.Fatal("no open demo tickets")
	}
	for _, ticket := range open {
		if ticket.Status != models.StatusOpen {
			t.Errorf("ticket %d has status %s, want open", ticket.ID, ticket.Status)
		}
	}

	closed, err := repo.ListTickets(context.Background(), "closed", 25, 1)
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	for _, ticket := range closed {
		if ticket.Status != models.StatusClosed {
			t.Errorf("ticket %d has status %s, want closed", ticket.ID, ticket.Status)
		}
	}
}

func TestGetTicket(t *testing.T) {
	repo := demoZendesk()

	ticket, err := repo.GetTicket(context.Background(), 40112)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.Subject != "P21 report not generating" {
		t.Errorf("Subject = %q", ticket.Subject)
	}
	if ticket.Priority != models.PriorityUrgent {
		t.Errorf("Priority = %s, want urgent", ticket.Priority)
	}

	if _, err := repo.GetTicket(context.Background(), 99999); err == nil {
		t.Error("expected error for unknown ticket")
	}
}

func TestSearchTickets(t *testing.T) {
	repo := demoZendesk()

	results, err := repo.SearchTickets(context.Background(), "edi", 25)
	if err != nil {
		t.Fatalf("SearchTickets: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results for 'edi'")
	}
	found := false
	for _, ticket := range results {
		if ticket.ID == 40098 {
			found = true
		}
	}
	if !found {
		t.Error("ticket 40098 not matched by 'edi' search")
	}
}

func TestGetTicketsByRequester(t *testing.T) {
	repo := demoZendesk()

	tickets, err := repo.GetTicketsByRequester(context.Background(), 9002)
	if err != nil {
		t.Fatalf("GetTicketsByRequester: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("tickets = %d, want 2", len(tickets))
	}
	for _, ticket := range tickets {
		if ticket.RequesterID != 9002 {
			t.Errorf("ticket %d has requester %d", ticket.ID, ticket.RequesterID)
		}
	}
}

func TestUpdateTicketAppendsTags(t *testing.T) {
	repo := demoZendesk()

	updated, err := repo.UpdateTicket(context.Background(), 40112, models.StatusPending, "", []string{"ai-reviewed"})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.Status != models.StatusPending {
		t.Errorf("Status = %s, want pending", updated.Status)
	}
	// Original priority untouched when no priority given.
	if updated.Priority != models.PriorityUrgent {
		t.Errorf("Priority = %s, want urgent", updated.Priority)
	}
	found := false
	for _, tag := range updated.Tags {
		if tag == "ai-reviewed" {
			found = true
		}
	}
	if !found {
		t.Errorf("tag not appended: %v", updated.Tags)
	}
}

func TestGetUserAndFindByEmail(t *testing.T) {
	repo := demoZendesk()

	user, err := repo.GetUser(context.Background(), 9001)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Name != "Maria Gonzalez" {
		t.Errorf("Name = %q", user.Name)
	}

	// Unknown users resolve to a placeholder, not an error.
	unknown, err := repo.GetUser(context.Background(), 123456)
	if err != nil {
		t.Fatalf("GetUser unknown: %v", err)
	}
	if unknown.Name != "Unknown User" {
		t.Errorf("unknown Name = %q", unknown.Name)
	}

	byEmail, err := repo.FindUserByEmail(context.Background(), "priya@tektonparts.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != 9003 {
		t.Errorf("byEmail = %+v, want ID 9003", byEmail)
	}

	missing, err := repo.FindUserByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("FindUserByEmail missing: %v", err)
	}
	if missing != nil {
		t.Errorf("missing = %+v, want nil", missing)
	}
}

func TestGetTicketComments(t *testing.T) {
	repo := demoZendesk()

	comments, err := repo.GetTicketComments(context.Background(), 40112)
	if err != nil {
		t.Fatalf("GetTicketComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(comments))
	}
	if comments[1].AuthorID != 5001 {
		t.Errorf("second comment author = %d, want agent 5001", comments[1].AuthorID)
	}
}

func TestCreateTicketDefaults(t *testing.T) {
	repo := demoZendesk()

	ticket, err := repo.CreateTicket(context.Background(), "New inquiry", "body", "new@client.com", "", "", nil)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Status != models.StatusNew {
		t.Errorf("Status = %s, want new", ticket.Status)
	}
	if ticket.Priority != models.PriorityNormal {
		t.Errorf("Priority = %s, want normal default", ticket.Priority)
	}
	if len(ticket.Tags) != 2 || ticket.Tags[0] != "ai-created" {
		t.Errorf("Tags = %v, want default tagging", ticket.Tags)
	}
}

func TestParseTicketDefaults(t *testing.T) {
	parsed := parseTicket(zendeskTicket{ID: 1, Status: "weird-status"})
	if parsed.Subject != "(no subject)" {
		t.Errorf("Subject = %q", parsed.Subject)
	}
	if parsed.Status != models.StatusOpen {
		t.Errorf("Status = %s, want open fallback", parsed.Status)
	}
	if parsed.Priority != "" {
		t.Errorf("Priority = %q, want empty", parsed.Priority)
	}
}
