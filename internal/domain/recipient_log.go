package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_recipient_log_repository.go -package mocks github.com/schoolcast/schoolcast/internal/domain RecipientLogRepository

// RecipientStatus is the delivery state of one address within a send
type RecipientStatus string

const (
	RecipientStatusSent        RecipientStatus = "sent"
	RecipientStatusDelivered   RecipientStatus = "delivered"
	RecipientStatusFailed      RecipientStatus = "failed"
	RecipientStatusUndelivered RecipientStatus = "undelivered"
	RecipientStatusQueued      RecipientStatus = "queued"
)

// RecipientLog is one row per individual address per message.
// Invariant: the logs of a message, summed, equal the message's
// aggregate counts.
type RecipientLog struct {
	ID           string          `json:"id"`
	MessageID    string          `json:"message_id"`
	Address      string          `json:"address"` // normalized phone or email
	ExternalID   *string         `json:"external_id,omitempty"`
	Status       RecipientStatus `json:"status"`
	ErrorCode    *string         `json:"error_code,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Succeeded reports whether the recipient counts toward the success
// side of the aggregate.
func (l *RecipientLog) Succeeded() bool {
	switch l.Status {
	case RecipientStatusFailed, RecipientStatusUndelivered:
		return false
	default:
		return true
	}
}

// RecipientLogRepository defines persistence for per-recipient
// outcomes. Rows are append-only audit history.
type RecipientLogRepository interface {
	// CreateBatch bulk-inserts the logs of one message
	CreateBatch(ctx context.Context, logs []*RecipientLog) error

	// CreateBatchIfAbsent inserts logs skipping any (message_id,
	// address) pair that already exists. Used by the repair-on-read
	// path so repeated reads never duplicate backfilled rows.
	CreateBatchIfAbsent(ctx context.Context, logs []*RecipientLog) error

	// ListByMessage returns all logs for a message
	ListByMessage(ctx context.Context, messageID string) ([]*RecipientLog, error)
}
