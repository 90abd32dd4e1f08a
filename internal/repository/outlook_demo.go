package repository

import (
	"time"

	"cs-agent/internal/models"
)

// Demo inbox returned when Graph demo mode is on.
func demoEmails() []models.InboundEmail {
	now := time.Now().UTC()
	return []models.InboundEmail{
		{
			MessageID:   "MSG-DEMO-001",
			Subject:     "RE: P21 Inventory Valuation report timeout",
			SenderName:  "Maria Gonzalez",
			SenderEmail: "maria.gonzalez@acmedist.com",
			BodyText: "Hi team,\n\n" +
				"Following up on ticket #40112. The report is still timing out " +
				"after the server patch. We tried increasing the SQL timeout to " +
				"600 seconds but no change. Month-end close is Friday.\n\n" +
				"Can we get a call scheduled today?\n\n" +
				"Thanks,\nMaria",
			ReceivedAt: now.Add(-2 * time.Hour),
			ThreadID:   "THREAD-DEMO-001",
		},
		{
			MessageID:   "MSG-DEMO-002",
			Subject:     "EDI 856 ASN sync — still down",
			SenderName:  "James Whitfield",
			SenderEmail: "j.whitfield@northstarlogistics.com",
			BodyText: "Support,\n\n" +
				"This is day 4 of the EDI 856 sync failure. We now have 22 " +
				"shipments that haven't posted to P21. Our warehouse team is " +
				"doing manual entry which is error-prone and slow.\n\n" +
				"The middleware log shows:\n" +
				"  ERROR 401 Unauthorized — POST /api/v1/edi/inbound\n" +
				"  Token refresh failed: invalid_client\n\n" +
				"We regenerated the client secret yesterday but same result. " +
				"Is there a cached token somewhere that needs to be cleared?\n\n" +
				"James Whitfield\nNorthStar Logistics",
			ReceivedAt: now.Add(-5 * time.Hour),
			ThreadID:   "THREAD-DEMO-002",
		},
		{
			MessageID:   "MSG-DEMO-003",
			Subject:     "Question about AI agent auto-classification setup",
			SenderName:  "Priya Sharma",
			SenderEmail: "priya@tektonparts.com",
			BodyText: "Hello,\n\n" +
				"We're on the Professional plan and want to enable the AI " +
				"auto-classification feature. The settings tab appears greyed " +
				"out in our admin panel. Is there an additional license needed " +
				"or a feature flag we need to request?\n\n" +
				"Appreciate the help.\n\n" +
				"Best,\nPriya Sharma\nTekton Parts Inc.",
			ReceivedAt: now.Add(-12 * time.Hour),
			ThreadID:   "THREAD-DEMO-003",
		},
		{
			MessageID:   "MSG-DEMO-004",
			Subject:     "Invoice mismatch — PO 7892 vs INV-2026-0412",
			SenderName:  "Robert Chen",
			SenderEmail: "rchen@precisionmfg.com",
			BodyText: "Hi Billing,\n\n" +
				"PO 7892 was for 480 units at $12.50/unit ($6,000 total). " +
				"Invoice INV-2026-0412 shows 480 units at $13.75/unit ($6,600). " +
				"That's a $600 discrepancy.\n\n" +
				"I've attached a screenshot of both documents. Please issue a " +
				"credit memo or revised invoice ASAP so we can process payment.\n\n" +
				"Robert Chen\nPrecision Manufacturing",
			ReceivedAt: now.Add(-24 * time.Hour),
			ThreadID:   "THREAD-DEMO-004",
		},
		{
			MessageID:   "MSG-DEMO-005",
			Subject:     "RE: Data migration — go-live timeline check",
			SenderName:  "Angela Torres",
			SenderEmail: "angela.torres@summitsupply.com",
			BodyText: "Peter,\n\n" +
				"Just checking in on the migration status. Our go-live target " +
				"is March 15 and we haven't received an update in two weeks. " +
				"Can you share:\n" +
				"  1. Current migration completion percentage\n" +
				"  2. Any blockers\n" +
				"  3. Revised timeline if needed\n\n" +
				"We have a board meeting March 10 and need to report status.\n\n" +
				"Thanks,\nAngela Torres\nSummit Supply Co.",
			ReceivedAt: now.Add(-2 * 24 * time.Hour),
			ThreadID:   "THREAD-DEMO-005",
		},
		{
			MessageID:   "MSG-DEMO-006",
			Subject:     "New user provisioning request — 3 users",
			SenderName:  "Kevin Draper",
			SenderEmail: "kdraper@greatlakesind.com",
			BodyText: "Hi Support,\n\n" +
				"We need three new users provisioned in the C365 portal:\n\n" +
				"  1. Sarah Mitchell — sarah.m@greatlakesind.com — Warehouse role\n" +
				"  2. Tom Alvarez — tom.a@greatlakesind.com — Purchasing role\n" +
				"  3. Diana Reyes — diana.r@greatlakesind.com — Admin role\n\n" +
				"All three should have SSO enabled via our Azure AD tenant.\n\n" +
				"Thanks,\nKevin Draper\nGreat Lakes Industries",
			ReceivedAt: now.Add(-3 * 24 * time.Hour),
			ThreadID:   "THREAD-DEMO-006",
		},
		{
			MessageID:   "MSG-DEMO-007",
			Subject:     "RE: Warehouse label printer issue — resolved",
			SenderName:  "Kevin Draper",
			SenderEmail: "kdraper@greatlakesind.com",
			BodyText: "Hey team,\n\n" +
				"Just wanted to confirm the label printer issue on Pick Station 3 " +
				"is resolved. The fix from your Tier 2 team (updating the ODBC " +
				"driver) worked. All three stations printing correctly now.\n\n" +
				"Thanks for the quick turnaround.\n\n" +
				"Kevin",
			ReceivedAt: now.Add(-10 * 24 * time.Hour),
			ThreadID:   "THREAD-DEMO-007",
		},
	}
}
