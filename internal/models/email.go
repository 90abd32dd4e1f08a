package models

import "time"

// InboundEmail is a message pulled from the monitored support mailbox.
type InboundEmail struct {
	MessageID   string    `json:"message_id"`
	Subject     string    `json:"subject"`
	SenderName  string    `json:"sender_name,omitempty"`
	SenderEmail string    `json:"sender_email"`
	BodyText    string    `json:"body_text"`
	BodyHTML    string    `json:"body_html,omitempty"`
	ReceivedAt  time.Time `json:"received_at,omitempty"`
	ThreadID    string    `json:"thread_id,omitempty"`
}

type OutboundEmail struct {
	To               []string `json:"to"`
	Subject          string   `json:"subject"`
	BodyHTML         string   `json:"body_html"`
	ReplyToMessageID string   `json:"reply_to_message_id,omitempty"`
}
