// Package notify delivers match alerts to users when new compatible
// travellers appear for their active search.
package notify

import "context"

// Notification is one match alert.
type Notification struct {
	// UserID is the recipient.
	UserID string

	// Email is the recipient address, when email delivery is in use.
	Email string

	// Subject and Body are the rendered alert content.
	Subject string
	Body    string
}

// Sender delivers notifications. Implementations are selected at startup:
// email in production, log output in development.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}
