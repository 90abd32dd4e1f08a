package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"cs-agent/internal/models"
	"cs-agent/pkg/config"

	"go.uber.org/zap"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// OutlookRepository reads and sends mail through the Microsoft Graph API
// using app-only client-credentials auth. Tokens are cached in-process
// until shortly before expiry. Demo mode serves a fixed inbox with no
// network I/O.
type OutlookRepository struct {
	cfg        *config.GraphConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewOutlookRepository(cfg *config.GraphConfig, logger *zap.Logger) *OutlookRepository {
	return &OutlookRepository{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// accessToken returns a cached Graph token, fetching a fresh one via the
// OAuth2 client-credentials grant when the cache is empty or stale.
func (r *OutlookRepository) accessToken(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != "" && time.Now().Before(r.tokenExpiry) {
		return r.token, nil
	}

	tokenURL := fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", r.cfg.TenantID)
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", r.cfg.ClientID)
	form.Set("client_secret", r.cfg.ClientSecret)
	form.Set("scope", r.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("graph token request failed: %w", err)
	}
	defer resp.Body.Close()

	var tokenResp struct {
		AccessToken      string `json:"access_token"`
		ExpiresIn        int    `json:"expires_in"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		reason := tokenResp.ErrorDescription
		if reason == "" {
			reason = tokenResp.Error
		}
		return "", fmt.Errorf("failed to acquire graph token: %s", reason)
	}

	r.token = tokenResp.AccessToken
	r.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - time.Minute)
	return r.token, nil
}

// do issues one Graph request against the monitored mailbox.
func (r *OutlookRepository) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	token, err := r.accessToken(ctx)
	if err != nil {
		return err
	}

	endpoint := graphBaseURL + path
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
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("graph %s %s: status %d: %s", method, path, resp.StatusCode, excerptBytes(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode graph response: %w", err)
		}
	}
	return nil
}

func (r *OutlookRepository) mailboxPath(suffix string) string {
	return fmt.Sprintf("/users/%s%s", r.cfg.Mailbox, suffix)
}

// graphMessage is the wire shape of a Graph mail message.
type graphMessage struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    struct {
		EmailAddress struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"from"`
	Body struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
	ReceivedDateTime time.Time `json:"receivedDateTime"`
	ConversationID   string    `json:"conversationId"`
}

var (
	brTagRe    = regexp.MustCompile(`(?i)<br\s*/?>`)
	pOpenRe    = regexp.MustCompile(`(?i)<p[^>]*>`)
	pCloseRe   = regexp.MustCompile(`(?i)</p>`)
	anyTagRe   = regexp.MustCompile(`<[^>]+>`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// htmlToText is a lightweight HTML-to-text conversion for email bodies.
func htmlToText(s string) string {
	text := brTagRe.ReplaceAllString(s, "\n")
	text = pOpenRe.ReplaceAllString(text, "\n")
	text = pCloseRe.ReplaceAllString(text, "\n")
	text = anyTagRe.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(blankRunRe.ReplaceAllString(text, "\n\n"))
}

func parseMessage(msg graphMessage) models.InboundEmail {
	subject := msg.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	var bodyText, bodyHTML string
	if strings.EqualFold(msg.Body.ContentType, "html") {
		bodyHTML = msg.Body.Content
		bodyText = htmlToText(bodyHTML)
	} else {
		bodyText = msg.Body.Content
	}

	return models.InboundEmail{
		MessageID:   msg.ID,
		Subject:     subject,
		SenderName:  msg.From.EmailAddress.Name,
		SenderEmail: msg.From.EmailAddress.Address,
		BodyText:    bodyText,
		BodyHTML:    bodyHTML,
		ReceivedAt:  msg.ReceivedDateTime,
		ThreadID:    msg.ConversationID,
	}
}

const messageSelectFields = "id,subject,from,body,receivedDateTime,conversationId"

// ListUnreadEmails fetches unread messages from the monitored inbox,
// newest first.
func (r *OutlookRepository) ListUnreadEmails(ctx context.Context, top int) ([]models.InboundEmail, error) {
	if r.cfg.DemoMode {
		emails := demoEmails()
		if top < len(emails) {
			emails = emails[:top]
		}
		return emails, nil
	}

	params := url.Values{}
	params.Set("$filter", "isRead eq false")
	params.Set("$top", strconv.Itoa(top))
	params.Set("$orderby", "receivedDateTime desc")
	params.Set("$select", messageSelectFields+",isRead")

	var result struct {
		Value []graphMessage `json:"value"`
	}
	if err := r.do(ctx, http.MethodGet, r.mailboxPath("/mailFolders/Inbox/messages"), params, nil, &result); err != nil {
		return nil, err
	}
	emails := make([]models.InboundEmail, 0, len(result.Value))
	for _, m := range result.Value {
		emails = append(emails, parseMessage(m))
	}
	return emails, nil
}

// GetEmail fetches a single message by ID.
func (r *OutlookRepository) GetEmail(ctx context.Context, messageID string) (models.InboundEmail, error) {
	if r.cfg.DemoMode {
		for _, email := range demoEmails() {
			if email.MessageID == messageID {
				return email, nil
			}
		}
		return models.InboundEmail{}, fmt.Errorf("demo email %s not found", messageID)
	}

	params := url.Values{}
	params.Set("$select", messageSelectFields)

	var msg graphMessage
	if err := r.do(ctx, http.MethodGet, r.mailboxPath("/messages/"+messageID), params, nil, &msg); err != nil {
		return models.InboundEmail{}, err
	}
	return parseMessage(msg), nil
}

// GetThreadMessages fetches all messages in a conversation, oldest first.
func (r *OutlookRepository) GetThreadMessages(ctx context.Context, conversationID string, top int) ([]models.InboundEmail, error) {
	if r.cfg.DemoMode {
		var thread []models.InboundEmail
		for _, email := range demoEmails() {
			if email.ThreadID == conversationID {
				thread = append(thread, email)
			}
		}
		if top < len(thread) {
			thread = thread[:top]
		}
		return thread, nil
	}

	params := url.Values{}
	params.Set("$filter", fmt.Sprintf("conversationId eq '%s'", conversationID))
	params.Set("$top", strconv.Itoa(top))
	params.Set("$orderby", "receivedDateTime asc")
	params.Set("$select", messageSelectFields)

	var result struct {
		Value []graphMessage `json:"value"`
	}
	if err := r.do(ctx, http.MethodGet, r.mailboxPath("/messages"), params, nil, &result); err != nil {
		return nil, err
	}
	emails := make([]models.InboundEmail, 0, len(result.Value))
	for _, m := range result.Value {
		emails = append(emails, parseMessage(m))
	}
	return emails, nil
}

func outboundMessagePayload(email models.OutboundEmail) map[string]any {
	recipients := make([]map[string]any, 0, len(email.To))
	for _, addr := range email.To {
		recipients = append(recipients, map[string]any{
			"emailAddress": map[string]any{"address": addr},
		})
	}
	return map[string]any{
		"subject": email.Subject,
		"body": map[string]any{
			"contentType": "HTML",
			"content":     email.BodyHTML,
		},
		"toRecipients": recipients,
	}
}

// SendEmail delivers a message from the monitored mailbox. When
// ReplyToMessageID is set the message is attached to the original
// conversation instead of starting a new one.
func (r *OutlookRepository) SendEmail(ctx context.Context, email models.OutboundEmail) error {
	if r.cfg.DemoMode {
		r.logger.Info("[DEMO] Email sent",
			zap.Strings("to", email.To),
			zap.String("subject", email.Subject),
		)
		return nil
	}

	message := outboundMessagePayload(email)

	if email.ReplyToMessageID != "" {
		path := r.mailboxPath("/messages/" + email.ReplyToMessageID + "/reply")
		return r.do(ctx, http.MethodPost, path, nil, map[string]any{"message": message}, nil)
	}

	payload := map[string]any{
		"message":         message,
		"saveToSentItems": true,
	}
	return r.do(ctx, http.MethodPost, r.mailboxPath("/sendMail"), nil, payload, nil)
}

// MarkEmailRead flags a processed message as read.
func (r *OutlookRepository) MarkEmailRead(ctx context.Context, messageID string) error {
	if r.cfg.DemoMode {
		r.logger.Info("[DEMO] Marked email as read", zap.String("message_id", messageID))
		return nil
	}
	path := r.mailboxPath("/messages/" + messageID)
	return r.do(ctx, http.MethodPatch, path, nil, map[string]any{"isRead": true}, nil)
}

// Draft is a created-but-unsent message, kept for human review before an
// AI-generated reply goes out.
type Draft struct {
	ID      string   `json:"id"`
	Subject string   `json:"subject"`
	To      []string `json:"to"`
	Body    string   `json:"body"`
}

// CreateDraft stores a draft reply without sending it.
func (r *OutlookRepository) CreateDraft(ctx context.Context, email models.OutboundEmail) (Draft, error) {
	if r.cfg.DemoMode {
		r.logger.Info("[DEMO] Draft created",
			zap.Strings("to", email.To),
			zap.String("subject", email.Subject),
		)
		return Draft{
			ID:      "DRAFT-DEMO-001",
			Subject: email.Subject,
			To:      email.To,
			Body:    email.BodyHTML,
		}, nil
	}

	var created graphMessage
	if err := r.do(ctx, http.MethodPost, r.mailboxPath("/messages"), nil, outboundMessagePayload(email), &created); err != nil {
		return Draft{}, err
	}
	return Draft{
		ID:      created.ID,
		Subject: created.Subject,
		To:      email.To,
		Body:    created.Body.Content,
	}, nil
}

// CheckConnection verifies credentials and Graph reachability.
func (r *OutlookRepository) CheckConnection(ctx context.Context) bool {
	if r.cfg.DemoMode {
		return true
	}

	params := url.Values{}
	params.Set("$top", "1")
	params.Set("$select", "id")
	if err := r.do(ctx, http.MethodGet, r.mailboxPath("/messages"), params, nil, nil); err != nil {
		r.logger.Warn("Graph health check failed", zap.Error(err))
		return false
	}
	return true
}
