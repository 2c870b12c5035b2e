// Package mail defines the email collaborator contracts the orchestration
// core is driven by: normalized email records, the fetch/send interfaces a
// protocol implementation must satisfy, the IMAP/SMTP configuration loader
// and the prebuilt assistant actions (classification, reply drafting,
// keyword extraction). Protocol handling itself is out of scope; any
// IMAP/SMTP client can be adapted to Fetcher and Sender.
package mail

import (
	"context"
	"time"
)

// Email is a normalized email record produced by a Fetcher.
type Email struct {
	UID       uint32    `json:"uid"`
	Date      time.Time `json:"date"`
	From      string    `json:"from"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	HTML      string    `json:"html,omitempty"`
	MessageID string    `json:"message_id"`
	Flags     []string  `json:"flags,omitempty"`
}

// SendRequest describes an outgoing email.
type SendRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject,omitempty"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
	User    string   `json:"user,omitempty"`
}

// SendResult reports the delivery outcome for a SendRequest.
type SendResult struct {
	MessageID string   `json:"message_id"`
	Accepted  []string `json:"accepted"`
	Rejected  []string `json:"rejected"`
}

// Fetcher yields normalized email records from a mailbox.
type Fetcher interface {
	// Fetch returns up to limit unread emails. limit <= 0 means no limit.
	Fetch(ctx context.Context, limit int) ([]Email, error)
}

// Sender delivers an email and reports acceptance per recipient.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
