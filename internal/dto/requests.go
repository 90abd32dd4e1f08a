package dto

// RespondRequest controls AI response generation for a ticket.
type RespondRequest struct {
	// AutoSend posts the generated body as a public comment and applies
	// the suggested status.
	AutoSend bool `json:"auto_send"`
}

// ProcessEmailRequest controls inbound email processing.
type ProcessEmailRequest struct {
	// AutoReply sends the drafted reply and marks the email read.
	AutoReply bool `json:"auto_reply"`
}

// UpdateTicketRequest updates ticket metadata and/or adds a comment.
// Empty fields are left untouched. An omitted public_comment means
// public: agents replying through this route are talking to the
// customer unless they say otherwise.
type UpdateTicketRequest struct {
	Status        string   `json:"status,omitempty"`
	Priority      string   `json:"priority,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	PublicComment *bool    `json:"public_comment,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// IsPublicComment resolves the public_comment field, defaulting to true
// when the request leaves it out.
func (r UpdateTicketRequest) IsPublicComment() bool {
	if r.PublicComment == nil {
		return true
	}
	return *r.PublicComment
}

// SendEmailRequest is a manually reviewed outbound reply.
type SendEmailRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body_html"`
}
