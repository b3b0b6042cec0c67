// Package mail delivers outbound notifications for provisioning workflows.
package mail

import "context"

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Result describes the outcome the downstream delivery reported.
type Result struct {
	Delivered bool   `json:"delivered"`
	Detail    string `json:"detail,omitempty"`
}

// Sender delivers messages. A returned error is a non-success response from
// the delivery collaborator and callers treat it as terminal.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
