package model

import (
	"time"
)

const (
	JobKindEmail = "email"

	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusRetry   = "retry"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// NotificationJob is one queued notification intent.
type NotificationJob struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	Payload     string    `db:"payload"` // JSON
	Status      string    `db:"status"`
	Attempts    int       `db:"attempts"`
	MaxAttempts int       `db:"max_attempts"`
	NextTryAt   time.Time `db:"next_try_at"`
	LastError   *string   `db:"last_error"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// EmailMessage is the payload of an email job.
type EmailMessage struct {
	Type    string   `json:"type"` // e.g. "inquiry_internal", used in logs
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html,omitempty"`
}
