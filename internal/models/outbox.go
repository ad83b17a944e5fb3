package models

import "time"

// OutboxKind distinguishes mock deliveries held in the outbox.
type OutboxKind string

const (
	OutboxEmail OutboxKind = "email"
	OutboxSMS   OutboxKind = "sms"
)

// OutboxMessage is a message captured instead of being delivered, for
// inspection in development and tests.
type OutboxMessage struct {
	ID        string     `json:"id"`
	Kind      OutboxKind `json:"kind"`
	To        string     `json:"to"`
	Subject   string     `json:"subject,omitempty"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
}
