package domain

import (
	"encoding/json"
	"time"
)

// Expense is a typed convenience shape for building request bodies. The
// client itself treats expenses as opaque JSON and never requires this type.
type Expense struct {
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"`
	Amount       float64  `json:"amount" yaml:"amount"`
	Date         string   `json:"date" yaml:"date"`
	YearMonth    string   `json:"yearMonth,omitempty" yaml:"yearMonth,omitempty"`
	Category     string   `json:"category,omitempty" yaml:"category,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Currency     string   `json:"currency,omitempty" yaml:"currency,omitempty"`
	Consolidated bool     `json:"consolidated" yaml:"consolidated"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	User         string   `json:"user,omitempty" yaml:"user,omitempty"`
}

// JournalEntry records one mutating call made through the client.
type JournalEntry struct {
	ID            string    `json:"id"`
	Operation     string    `json:"operation"`
	Method        string    `json:"method"`
	Path          string    `json:"path"`
	Succeeded     bool      `json:"succeeded"`
	StatusCode    int       `json:"status_code,omitempty"`
	Error         string    `json:"error,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	At            time.Time `json:"at"`
}

// MutationEvent is the payload published downstream after a mutating call.
type MutationEvent struct {
	Operation     string          `json:"operation"`
	Method        string          `json:"method"`
	Path          string          `json:"path"`
	Succeeded     bool            `json:"succeeded"`
	StatusCode    int             `json:"status_code,omitempty"`
	Error         string          `json:"error,omitempty"`
	Response      json.RawMessage `json:"response,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
