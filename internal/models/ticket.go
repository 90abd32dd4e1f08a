package models

import "time"

type TicketPriority string

const (
	PriorityUrgent TicketPriority = "urgent"
	PriorityHigh   TicketPriority = "high"
	PriorityNormal TicketPriority = "normal"
	PriorityLow    TicketPriority = "low"
)

type TicketStatus string

const (
	StatusNew     TicketStatus = "new"
	StatusOpen    TicketStatus = "open"
	StatusPending TicketStatus = "pending"
	StatusHold    TicketStatus = "hold"
	StatusSolved  TicketStatus = "solved"
	StatusClosed  TicketStatus = "closed"
)

type TicketCategory string

const (
	CategoryBilling     TicketCategory = "billing"
	CategoryAccess      TicketCategory = "access"
	CategoryMaintenance TicketCategory = "maintenance"
	CategoryBooking     TicketCategory = "booking"
	CategoryLease       TicketCategory = "lease"
	CategoryAmenities   TicketCategory = "amenities"
	CategoryOrders      TicketCategory = "orders"
	CategoryWarranty    TicketCategory = "warranty"
	CategoryGeneral     TicketCategory = "general"
	CategoryEscalation  TicketCategory = "escalation"
)

type SentimentLabel string

const (
	SentimentPositive   SentimentLabel = "positive"
	SentimentNeutral    SentimentLabel = "neutral"
	SentimentFrustrated SentimentLabel = "frustrated"
	SentimentAngry      SentimentLabel = "angry"
)

// ParseTicketPriority maps a wire string to a priority. The second return
// reports whether the value is a known member; callers decide what a miss
// means instead of relying on a panic or a silent zero value.
func ParseTicketPriority(s string) (TicketPriority, bool) {
	switch TicketPriority(s) {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return TicketPriority(s), true
	}
	return "", false
}

func ParseTicketStatus(s string) (TicketStatus, bool) {
	switch TicketStatus(s) {
	case StatusNew, StatusOpen, StatusPending, StatusHold, StatusSolved, StatusClosed:
		return TicketStatus(s), true
	}
	return "", false
}

func ParseTicketCategory(s string) (TicketCategory, bool) {
	switch TicketCategory(s) {
	case CategoryBilling, CategoryAccess, CategoryMaintenance, CategoryBooking,
		CategoryLease, CategoryAmenities, CategoryOrders, CategoryWarranty,
		CategoryGeneral, CategoryEscalation:
		return TicketCategory(s), true
	}
	return "", false
}

func ParseSentimentLabel(s string) (SentimentLabel, bool) {
	switch SentimentLabel(s) {
	case SentimentPositive, SentimentNeutral, SentimentFrustrated, SentimentAngry:
		return SentimentLabel(s), true
	}
	return "", false
}

// IsOpen reports whether a ticket in this status still needs work.
// new/open/pending count as open for history summaries.
func (s TicketStatus) IsOpen() bool {
	return s == StatusNew || s == StatusOpen || s == StatusPending
}

// Ticket is a support ticket as returned by the ticketing platform.
// ID 0 marks an ephemeral record built from an inbound email.
type Ticket struct {
	ID          int64          `json:"id"`
	Subject     string         `json:"subject"`
	Description string         `json:"description,omitempty"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority,omitempty"`
	RequesterID int64          `json:"requester_id,omitempty"`
	AssigneeID  int64          `json:"assignee_id,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

type TicketComment struct {
	TicketID int64  `json:"ticket_id"`
	Body     string `json:"body"`
	Public   bool   `json:"public"`
	AuthorID int64  `json:"author_id,omitempty"`
}

// CommentRecord is one entry of a ticket's conversation as returned by
// the ticketing system.
type CommentRecord struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	AuthorID  int64     `json:"author_id"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
