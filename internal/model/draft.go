package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Draft is an outgoing message written in the compose view or as a reply.
// Drafts are never delivered; they only reach the debug log.
type Draft struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	InReplyTo int       `json:"in_reply_to,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDraft returns a draft with a fresh ID.
func NewDraft(to, subject, body string) Draft {
	return Draft{
		ID:        uuid.New().String(),
		To:        strings.TrimSpace(to),
		Subject:   strings.TrimSpace(subject),
		Body:      body,
		CreatedAt: time.Now(),
	}
}

// ReplyTo returns a draft answering m.
func ReplyTo(m Mail, body string) Draft {
	d := NewDraft(m.Sender, "re: "+m.Subject, body)
	d.InReplyTo = m.ID
	return d
}

// Empty reports whether the draft has no content worth logging.
func (d Draft) Empty() bool {
	return strings.TrimSpace(d.Body) == "" && d.Subject == ""
}
