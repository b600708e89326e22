package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/schoolcast/schoolcast/internal/domain"
)

type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new PostgreSQL message repository
func NewMessageRepository(db *sql.DB) domain.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message domain.Message) error {
	record := message.Record()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	payload, err := message.MarshalPayload()
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	query := `
		INSERT INTO messages (id, channel, recipient_type, group_ids, recipients, payload,
			status, total_count, success_count, fail_count, sent_by, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.Channel,
		record.RecipientType,
		record.GroupIDs,
		record.Recipients,
		payload,
		record.Status,
		record.TotalCount,
		record.SuccessCount,
		record.FailCount,
		record.SentBy,
		record.SentAt,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) Get(ctx context.Context, id string) (domain.Message, error) {
	query := `
		SELECT id, channel, recipient_type, group_ids, recipients, payload,
			status, total_count, success_count, fail_count, sent_by, sent_at, created_at
		FROM messages
		WHERE id = $1
	`

	message, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "message", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return message, nil
}

func (r *messageRepository) List(ctx context.Context, channel domain.Channel, limit, offset int) ([]domain.Message, int, error) {
	if limit <= 0 {
		limit = 20
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM messages WHERE channel = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, channel).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `
		SELECT id, channel, recipient_type, group_ids, recipients, payload,
			status, total_count, success_count, fail_count, sent_by, sent_at, created_at
		FROM messages
		WHERE channel = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, channel, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(row rowScanner) (domain.Message, error) {
	var record domain.MessageRecord
	var payload []byte

	err := row.Scan(
		&record.ID,
		&record.Channel,
		&record.RecipientType,
		&record.GroupIDs,
		&record.Recipients,
		&payload,
		&record.Status,
		&record.TotalCount,
		&record.SuccessCount,
		&record.FailCount,
		&record.SentBy,
		&record.SentAt,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return domain.UnmarshalMessage(record, payload)
}
