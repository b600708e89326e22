package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/schoolcast/schoolcast/internal/domain"
)

type scheduledMessageRepository struct {
	db *sql.DB
}

// NewScheduledMessageRepository creates a new PostgreSQL scheduled message repository
func NewScheduledMessageRepository(db *sql.DB) domain.ScheduledMessageRepository {
	return &scheduledMessageRepository{db: db}
}

func (r *scheduledMessageRepository) Create(ctx context.Context, scheduled *domain.ScheduledMessage) error {
	now := time.Now().UTC()
	scheduled.CreatedAt = now
	scheduled.UpdatedAt = now
	scheduled.Status = domain.ScheduledStatusPending

	query := `
		INSERT INTO scheduled_messages (id, channel, group_ids, manual_recipients, payload,
			scheduled_for, status, message_id, error_message, sent_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		scheduled.ID,
		scheduled.Channel,
		scheduled.GroupIDs,
		scheduled.ManualRecipients,
		[]byte(scheduled.Payload),
		scheduled.ScheduledFor,
		scheduled.Status,
		scheduled.MessageID,
		scheduled.ErrorMessage,
		scheduled.SentBy,
		scheduled.CreatedAt,
		scheduled.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduled message: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a pending record. The WHERE
// clause keeps the write conditional on the row not having been claimed
// or cancelled in the meantime.
func (r *scheduledMessageRepository) Update(ctx context.Context, scheduled *domain.ScheduledMessage) (bool, error) {
	scheduled.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE scheduled_messages
		SET channel = $1, group_ids = $2, manual_recipients = $3, payload = $4,
			scheduled_for = $5, updated_at = $6
		WHERE id = $7 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query,
		scheduled.Channel,
		scheduled.GroupIDs,
		scheduled.ManualRecipients,
		[]byte(scheduled.Payload),
		scheduled.ScheduledFor,
		scheduled.UpdatedAt,
		scheduled.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update scheduled message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *scheduledMessageRepository) Get(ctx context.Context, id string) (*domain.ScheduledMessage, error) {
	query := scheduledSelect + ` WHERE id = $1`

	scheduled, err := scanScheduledMessage(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "scheduled_message", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled message: %w", err)
	}
	return scheduled, nil
}

func (r *scheduledMessageRepository) List(ctx context.Context, limit, offset int) ([]*domain.ScheduledMessage, int, error) {
	if limit <= 0 {
		limit = 20
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scheduled_messages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count scheduled messages: %w", err)
	}

	query := scheduledSelect + ` ORDER BY scheduled_for DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list scheduled messages: %w", err)
	}
	defer rows.Close()

	scheduled, err := collectScheduledMessages(rows)
	if err != nil {
		return nil, 0, err
	}
	return scheduled, total, nil
}

// ListDue returns pending rows that have come due. SKIP LOCKED keeps
// overlapping sweeps from blocking on each other's claims.
func (r *scheduledMessageRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.ScheduledMessage, error) {
	query := scheduledSelect + `
		WHERE status = 'pending' AND scheduled_for <= $1
		ORDER BY scheduled_for ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due scheduled messages: %w", err)
	}
	defer rows.Close()

	return collectScheduledMessages(rows)
}

// Claim flips pending -> processing. Conditional on the row still being
// pending so two sweeps cannot both win.
func (r *scheduledMessageRepository) Claim(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE scheduled_messages
		SET status = 'processing', updated_at = $1
		WHERE id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to claim scheduled message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *scheduledMessageRepository) Cancel(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE scheduled_messages
		SET status = 'cancelled', updated_at = $1
		WHERE id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel scheduled message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *scheduledMessageRepository) Complete(ctx context.Context, id string, status domain.ScheduledStatus, messageID *string, errorMessage *string) error {
	query := `
		UPDATE scheduled_messages
		SET status = $1, message_id = $2, error_message = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, status, messageID, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to complete scheduled message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "scheduled_message", ID: id}
	}
	return nil
}

const scheduledSelect = `
	SELECT id, channel, group_ids, manual_recipients, payload, scheduled_for,
		status, message_id, error_message, sent_by, created_at, updated_at
	FROM scheduled_messages`

func scanScheduledMessage(row rowScanner) (*domain.ScheduledMessage, error) {
	var scheduled domain.ScheduledMessage
	var payload []byte

	err := row.Scan(
		&scheduled.ID,
		&scheduled.Channel,
		&scheduled.GroupIDs,
		&scheduled.ManualRecipients,
		&payload,
		&scheduled.ScheduledFor,
		&scheduled.Status,
		&scheduled.MessageID,
		&scheduled.ErrorMessage,
		&scheduled.SentBy,
		&scheduled.CreatedAt,
		&scheduled.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	scheduled.Payload = payload
	return &scheduled, nil
}

func collectScheduledMessages(rows *sql.Rows) ([]*domain.ScheduledMessage, error) {
	var scheduled []*domain.ScheduledMessage
	for rows.Next() {
		s, err := scanScheduledMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled message: %w", err)
		}
		scheduled = append(scheduled, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled message rows: %w", err)
	}
	return scheduled, nil
}
