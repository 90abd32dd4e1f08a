package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cs-agent/internal/models"
	"cs-agent/pkg/config"

	"go.uber.org/zap"
)

// ZendeskRepository wraps the Zendesk ticket API. Authentication is basic
// auth with "{email}/token:{api_token}". In demo mode every operation is
// served from a fixed set of realistic tickets with no network I/O.
type ZendeskRepository struct {
	cfg        *config.ZendeskConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewZendeskRepository(cfg *config.ZendeskConfig, logger *zap.Logger) *ZendeskRepository {
	return &ZendeskRepository{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// zendeskTicket is the wire shape of a ticket.
type zendeskTicket struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	RequesterID int64     `json:"requester_id"`
	AssigneeID  int64     `json:"assignee_id"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func parseTicket(raw zendeskTicket) models.Ticket {
	subject := raw.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	status, ok := models.ParseTicketStatus(raw.Status)
	if !ok {
		status = models.StatusOpen
	}
	priority, _ := models.ParseTicketPriority(raw.Priority)

	return models.Ticket{
		ID:          raw.ID,
		Subject:     subject,
		Description: raw.Description,
		Status:      status,
		Priority:    priority,
		RequesterID: raw.RequesterID,
		AssigneeID:  raw.AssigneeID,
		Tags:        raw.Tags,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
	}
}

func (r *ZendeskRepository) baseURL() string {
	return fmt.Sprintf("https://%s.zendesk.com/api/v2", r.cfg.Subdomain)
}

func (r *ZendeskRepository) authHeader() string {
	credentials := fmt.Sprintf("%s/token:%s", r.cfg.Email, r.cfg.APIToken)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

// do issues one API request and decodes the JSON reply into out (when out
// is non-nil).
func (r *ZendeskRepository) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	endpoint := r.baseURL() + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", r.authHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zendesk request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("zendesk %s %s: status %d: %s", method, path, resp.StatusCode, excerptBytes(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode zendesk response: %w", err)
		}
	}
	return nil
}

// ListTickets lists tickets filtered by status.
func (r *ZendeskRepository) ListTickets(ctx context.Context, status string, perPage, page int) ([]models.Ticket, error) {
	if r.cfg.DemoMode {
		var out []models.Ticket
		for _, t := range demoTickets() {
			if string(t.Status) == status {
				out = append(out, t)
			}
		}
		return out, nil
	}

	params := url.Values{}
	params.Set("status", status)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	var result struct {
		Tickets []zendeskTicket `json:"tickets"`
	}
	if err := r.do(ctx, http.MethodGet, "/tickets", params, nil, &result); err != nil {
		return nil, err
	}
	tickets := make([]models.Ticket, 0, len(result.Tickets))
	for _, t := range result.Tickets {
		tickets = append(tickets, parseTicket(t))
	}
	return tickets, nil
}

// GetTicket fetches a single ticket by ID.
func (r *ZendeskRepository) GetTicket(ctx context.Context, ticketID int64) (models.Ticket, error) {
	if r.cfg.DemoMode {
		for _, t := range demoTickets() {
			if t.ID == ticketID {
				return t, nil
			}
		}
		return models.Ticket{}, fmt.Errorf("demo ticket %d not found", ticketID)
	}

	var result struct {
		Ticket zendeskTicket `json:"ticket"`
	}
	if err := r.do(ctx, http.MethodGet, fmt.Sprintf("/tickets/%d", ticketID), nil, nil, &result); err != nil {
		return models.Ticket{}, err
	}
	return parseTicket(result.Ticket), nil
}

// SearchTickets runs a Zendesk search scoped to tickets, for example
// `status:open subject:"billing"`.
func (r *ZendeskRepository) SearchTickets(ctx context.Context, query string, perPage int) ([]models.Ticket, error) {
	if r.cfg.DemoMode {
		q := strings.ToLower(query)
		var out []models.Ticket
		for _, t := range demoTickets() {
			if strings.Contains(strings.ToLower(t.Subject), q) ||
				strings.Contains(strings.ToLower(t.Description), q) ||
				tagMatches(t.Tags, q) {
				out = append(out, t)
			}
		}
		return out, nil
	}

	params := url.Values{}
	params.Set("query", "type:ticket "+query)
	params.Set("per_page", strconv.Itoa(perPage))

	var result struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := r.do(ctx, http.MethodGet, "/search", params, nil, &result); err != nil {
		return nil, err
	}

	var tickets []models.Ticket
	for _, rawResult := range result.Results {
		var typed struct {
			zendeskTicket
			ResultType string `json:"result_type"`
		}
		if err := json.Unmarshal(rawResult, &typed); err != nil {
			continue
		}
		if typed.ResultType == "ticket" {
			tickets = append(tickets, parseTicket(typed.zendeskTicket))
		}
	}
	return tickets, nil
}

// GetTicketsByRequester fetches all tickets opened by one user.
func (r *ZendeskRepository) GetTicketsByRequester(ctx context.Context, requesterID int64) ([]models.Ticket, error) {
	if r.cfg.DemoMode {
		var out []models.Ticket
		for _, t := range demoTickets() {
			if t.RequesterID == requesterID {
				out = append(out, t)
			}
		}
		return out, nil
	}

	var result struct {
		Tickets []zendeskTicket `json:"tickets"`
	}
	path := fmt.Sprintf("/users/%d/tickets/requested", requesterID)
	if err := r.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	tickets := make([]models.Ticket, 0, len(result.Tickets))
	for _, t := range result.Tickets {
		tickets = append(tickets, parseTicket(t))
	}
	return tickets, nil
}

// GetTicketComments fetches the full conversation of a ticket.
func (r *ZendeskRepository) GetTicketComments(ctx context.Context, ticketID int64) ([]models.CommentRecord, error) {
	if r.cfg.DemoMode {
		return demoComments()[ticketID], nil
	}

	var result struct {
		Comments []models.CommentRecord `json:"comments"`
	}
	path := fmt.Sprintf("/tickets/%d/comments", ticketID)
	if err := r.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Comments, nil
}

// GetUser fetches a user by ID.
func (r *ZendeskRepository) GetUser(ctx context.Context, userID int64) (models.TicketUser, error) {
	if r.cfg.DemoMode {
		if u, ok := demoUsers()[userID]; ok {
			return u, nil
		}
		return models.TicketUser{ID: userID, Name: "Unknown User", Email: "unknown@example.com"}, nil
	}

	var result struct {
		User models.TicketUser `json:"user"`
	}
	if err := r.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil, nil, &result); err != nil {
		return models.TicketUser{}, err
	}
	return result.User, nil
}

// FindUserByEmail looks a user up by address. A nil result with nil error
// means no match.
func (r *ZendeskRepository) FindUserByEmail(ctx context.Context, email string) (*models.TicketUser, error) {
	if r.cfg.DemoMode {
		for _, u := range demoUsers() {
			if u.Email == email {
				user := u
				return &user, nil
			}
		}
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", email)

	var result struct {
		Users []models.TicketUser `json:"users"`
	}
	if err := r.do(ctx, http.MethodGet, "/users/search", params, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Users) == 0 {
		return nil, nil
	}
	return &result.Users[0], nil
}

// UpdateTicket updates ticket metadata. Zero-valued fields are left
// untouched.
func (r *ZendeskRepository) UpdateTicket(ctx context.Context, ticketID int64, status models.TicketStatus, priority models.TicketPriority, tagsAdd []string) (models.Ticket, error) {
	if r.cfg.DemoMode {
		ticket, err := r.GetTicket(ctx, ticketID)
		if err != nil {
			return models.Ticket{}, err
		}
		if status != "" {
			ticket.Status = status
		}
		if priority != "" {
			ticket.Priority = priority
		}
		ticket.Tags = append(ticket.Tags, tagsAdd...)
		ticket.UpdatedAt = time.Now().UTC()
		r.logger.Info("[DEMO] Updated ticket", zap.Int64("ticket_id", ticketID))
		return ticket, nil
	}

	payload := map[string]any{}
	if status != "" {
		payload["status"] = status
	}
	if priority != "" {
		payload["priority"] = priority
	}
	if len(tagsAdd) > 0 {
		payload["additional_tags"] = tagsAdd
	}

	var result struct {
		Ticket zendeskTicket `json:"ticket"`
	}
	path := fmt.Sprintf("/tickets/%d", ticketID)
	if err := r.do(ctx, http.MethodPut, path, nil, map[string]any{"ticket": payload}, &result); err != nil {
		return models.Ticket{}, err
	}
	return parseTicket(result.Ticket), nil
}

// AddComment posts a comment on a ticket. Public comments move the ticket
// to pending (awaiting customer); internal notes move it to open.
func (r *ZendeskRepository) AddComment(ctx context.Context, comment models.TicketComment) error {
	newStatus := models.StatusPending
	if !comment.Public {
		newStatus = models.StatusOpen
	}

	if r.cfg.DemoMode {
		r.logger.Info("[DEMO] Comment added to ticket",
			zap.Int64("ticket_id", comment.TicketID),
			zap.Bool("public", comment.Public),
			zap.String("body", excerptString(comment.Body, 80)),
		)
		return nil
	}

	commentPayload := map[string]any{
		"body":   comment.Body,
		"public": comment.Public,
	}
	if comment.AuthorID != 0 {
		commentPayload["author_id"] = comment.AuthorID
	}
	payload := map[string]any{
		"ticket": map[string]any{
			"status":  newStatus,
			"comment": commentPayload,
		},
	}

	path := fmt.Sprintf("/tickets/%d", comment.TicketID)
	return r.do(ctx, http.MethodPut, path, nil, payload, nil)
}

// CreateTicket opens a new ticket, used when an inbound email has no
// existing ticket.
func (r *ZendeskRepository) CreateTicket(ctx context.Context, subject, body, requesterEmail, requesterName string, priority models.TicketPriority, tags []string) (models.Ticket, error) {
	if len(tags) == 0 {
		tags = []string{"ai-created", "email-inbound"}
	}
	if priority == "" {
		priority = models.PriorityNormal
	}

	if r.cfg.DemoMode {
		now := time.Now().UTC()
		ticket := models.Ticket{
			ID:          50001,
			Subject:     subject,
			Description: body,
			Status:      models.StatusNew,
			Priority:    priority,
			RequesterID: 9099,
			Tags:        tags,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		r.logger.Info("[DEMO] Created ticket", zap.Int64("ticket_id", ticket.ID), zap.String("subject", subject))
		return ticket, nil
	}

	if requesterName == "" {
		requesterName = requesterEmail
	}
	payload := map[string]any{
		"ticket": map[string]any{
			"subject":   subject,
			"comment":   map[string]any{"body": body},
			"requester": map[string]any{"email": requesterEmail, "name": requesterName},
			"priority":  priority,
			"tags":      tags,
		},
	}

	var result struct {
		Ticket zendeskTicket `json:"ticket"`
	}
	if err := r.do(ctx, http.MethodPost, "/tickets", nil, payload, &result); err != nil {
		return models.Ticket{}, err
	}
	return parseTicket(result.Ticket), nil
}

// CheckConnection verifies credentials and connectivity.
func (r *ZendeskRepository) CheckConnection(ctx context.Context) bool {
	if r.cfg.DemoMode {
		return true
	}
	if err := r.do(ctx, http.MethodGet, "/tickets/count", nil, nil, nil); err != nil {
		r.logger.Warn("Zendesk health check failed", zap.Error(err))
		return false
	}
	return true
}

func tagMatches(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(tag, q) {
			return true
		}
	}
	return false
}

func excerptBytes(b []byte) string {
	return excerptString(string(b), 200)
}

func excerptString(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
