package repository

import (
	"time"

	"cs-agent/internal/models"
)

// Demo fixtures returned when Zendesk demo mode is on. Timestamps are
// relative to now so the data always looks fresh.

func demoTickets() []models.Ticket {
	now := time.Now().UTC()
	return []models.Ticket{
		{
			ID:      40112,
			Subject: "P21 report not generating",
			Description: "We're trying to run the Inventory Valuation report in P21 " +
				"and it hangs at 80% then times out. Started happening after " +
				"last weekend's server patch. Urgent — month-end close depends on this.",
			Status:      models.StatusOpen,
			Priority:    models.PriorityUrgent,
			RequesterID: 9001,
			AssigneeID:  5001,
			Tags:        []string{"p21", "reporting", "month-end"},
			CreatedAt:   now.Add(-6 * time.Hour),
			UpdatedAt:   now.Add(-2 * time.Hour),
		},
		{
			ID:      40098,
			Subject: "Integration sync failing — EDI 856 ASN",
			Description: "Our EDI 856 ASN documents are not syncing to P21 since Tuesday. " +
				"The middleware log shows a 401 from the API gateway. We re-entered " +
				"the credentials but it keeps failing. 14 shipments stuck.",
			Status:      models.StatusOpen,
			Priority:    models.PriorityHigh,
			RequesterID: 9002,
			AssigneeID:  5001,
			Tags:        []string{"edi", "integration", "p21", "edi-856"},
			CreatedAt:   now.Add(-3 * 24 * time.Hour),
			UpdatedAt:   now.Add(-8 * time.Hour),
		},
		{
			ID:      40087,
			Subject: "Need help with AI agent configuration",
			Description: "We want to enable the auto-classification feature on our CS agent " +
				"but the 'AI Settings' tab is greyed out. We are on the Professional " +
				"plan. Can someone walk us through the setup?",
			Status:      models.StatusPending,
			Priority:    models.PriorityNormal,
			RequesterID: 9003,
			AssigneeID:  5002,
			Tags:        []string{"ai-agent", "configuration", "onboarding"},
			CreatedAt:   now.Add(-5 * 24 * time.Hour),
			UpdatedAt:   now.Add(-24 * time.Hour),
		},
		{
			ID:      40071,
			Subject: "Invoice discrepancy Q4 — PO 7892",
			Description: "Invoice #INV-2026-0412 doesn't match PO 7892. The PO shows " +
				"480 units at $12.50 but the invoice billed 480 units at $13.75. " +
				"Difference is $600. Need a revised invoice or credit memo.",
			Status:      models.StatusOpen,
			Priority:    models.PriorityHigh,
			RequesterID: 9004,
			AssigneeID:  5003,
			Tags:        []string{"billing", "invoice", "po-mismatch"},
			CreatedAt:   now.Add(-8 * 24 * time.Hour),
			UpdatedAt:   now.Add(-2 * 24 * time.Hour),
		},
		{
			ID:      40063,
			Subject: "Data migration status update",
			Description: "Checking in on the status of our data migration from legacy " +
				"on-prem to the hosted environment. Last update was two weeks ago " +
				"and we're targeting a March 15 go-live. Please advise.",
			Status:      models.StatusPending,
			Priority:    models.PriorityNormal,
			RequesterID: 9005,
			AssigneeID:  5001,
			Tags:        []string{"migration", "onboarding", "follow-up"},
			CreatedAt:   now.Add(-14 * 24 * time.Hour),
			UpdatedAt:   now.Add(-3 * 24 * time.Hour),
		},
		{
			ID:      40045,
			Subject: "Warehouse label printer not pulling item data",
			Description: "The Zebra ZD421 on Pick Station 3 prints blank labels. It was " +
				"working fine until the P21 update last Friday. The other two " +
				"stations are fine. We've restarted the print spooler twice.",
			Status:      models.StatusSolved,
			Priority:    models.PriorityNormal,
			RequesterID: 9006,
			AssigneeID:  5002,
			Tags:        []string{"warehouse", "printing", "p21"},
			CreatedAt:   now.Add(-18 * 24 * time.Hour),
			UpdatedAt:   now.Add(-10 * 24 * time.Hour),
		},
		{
			ID:      40029,
			Subject: "SSO login loop after Azure AD update",
			Description: "After our Azure AD tenant update, users hit a redirect loop " +
				"when trying to SSO into the Conveyance365 portal. Clearing cookies " +
				"doesn't fix it. Affects all Chrome users, Edge works fine.",
			Status:      models.StatusClosed,
			Priority:    models.PriorityHigh,
			RequesterID: 9002,
			AssigneeID:  5003,
			Tags:        []string{"sso", "azure-ad", "authentication"},
			CreatedAt:   now.Add(-25 * 24 * time.Hour),
			UpdatedAt:   now.Add(-20 * 24 * time.Hour),
		},
	}
}

func demoUsers() map[int64]models.TicketUser {
	return map[int64]models.TicketUser{
		9001: {ID: 9001, Name: "Maria Gonzalez", Email: "maria.gonzalez@acmedist.com", Role: "end-user"},
		9002: {ID: 9002, Name: "James Whitfield", Email: "j.whitfield@northstarlogistics.com", Role: "end-user"},
		9003: {ID: 9003, Name: "Priya Sharma", Email: "priya@tektonparts.com", Role: "end-user"},
		9004: {ID: 9004, Name: "Robert Chen", Email: "rchen@precisionmfg.com", Role: "end-user"},
		9005: {ID: 9005, Name: "Angela Torres", Email: "angela.torres@summitsupply.com", Role: "end-user"},
		9006: {ID: 9006, Name: "Kevin Draper", Email: "kdraper@greatlakesind.com", Role: "end-user"},
		5001: {ID: 5001, Name: "Conveyance365 Support — Tier 1", Email: "support@conveyance365.com", Role: "agent"},
		5002: {ID: 5002, Name: "Conveyance365 Support — Tier 2", Email: "tier2@conveyance365.com", Role: "agent"},
		5003: {ID: 5003, Name: "Conveyance365 Support — Billing", Email: "billing@conveyance365.com", Role: "agent"},
	}
}

func demoComments() map[int64][]models.CommentRecord {
	now := time.Now().UTC()
	return map[int64][]models.CommentRecord{
		40112: {
			{
				ID: 80001,
				Body: "We're trying to run the Inventory Valuation report in P21 " +
					"and it hangs at 80% then times out.",
				AuthorID:  9001,
				Public:    true,
				CreatedAt: now.Add(-6 * time.Hour),
			},
			{
				ID: 80002,
				Body: "Hi Maria, we're looking into the report timeout now. " +
					"Can you confirm which P21 version you're on? " +
					"Also, was any SQL maintenance run over the weekend?",
				AuthorID:  5001,
				Public:    true,
				CreatedAt: now.Add(-4 * time.Hour),
			},
		},
		40098: {
			{
				ID:        80010,
				Body:      "EDI 856 sync broken since Tuesday. 401 on API gateway.",
				AuthorID:  9002,
				Public:    true,
				CreatedAt: now.Add(-3 * 24 * time.Hour),
			},
		},
	}
}
