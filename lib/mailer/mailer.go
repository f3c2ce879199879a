// Package mailer sends transactional email.
package mailer

import (
	"context"
	"log"
)

// Message is a single HTML email
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer prints messages instead of sending them, for local development
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("📧 Mail to %s: %s\n%s", msg.To, msg.Subject, msg.HTML)
	return nil
}
