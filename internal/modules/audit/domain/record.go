package domain

import "time"

// Record is one audited message-group evaluation.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Group     string    `json:"group"`
	ChatID    int64     `json:"chat_id"`
	MessageID int64     `json:"message_id"`
	Alias     string    `json:"alias,omitempty"`
	Matched   bool      `json:"matched"`
	Text      string    `json:"text"`
}

// Sink persists audit records. Append must write a record atomically or not at all.
type Sink interface {
	Append(rec Record) error
	Close() error
}

// Reader returns the most recent records, newest first.
type Reader interface {
	Recent(limit int) ([]Record, error)
}
