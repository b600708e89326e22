package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/schoolcast/schoolcast/internal/domain"
)

type recipientLogRepository struct {
	db *sql.DB
}

// NewRecipientLogRepository creates a new PostgreSQL recipient log repository
func NewRecipientLogRepository(db *sql.DB) domain.RecipientLogRepository {
	return &recipientLogRepository{db: db}
}

func (r *recipientLogRepository) CreateBatch(ctx context.Context, logs []*domain.RecipientLog) error {
	return r.insertBatch(ctx, logs, "")
}

func (r *recipientLogRepository) CreateBatchIfAbsent(ctx context.Context, logs []*domain.RecipientLog) error {
	return r.insertBatch(ctx, logs, " ON CONFLICT (message_id, address) DO NOTHING")
}

func (r *recipientLogRepository) insertBatch(ctx context.Context, logs []*domain.RecipientLog, conflictClause string) error {
	if len(logs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Insert("recipient_logs").
		Columns("id", "message_id", "address", "external_id", "status", "error_code", "error_message", "created_at")

	for _, log := range logs {
		if log.CreatedAt.IsZero() {
			log.CreatedAt = now
		}
		builder = builder.Values(
			log.ID,
			log.MessageID,
			log.Address,
			log.ExternalID,
			log.Status,
			log.ErrorCode,
			log.ErrorMessage,
			log.CreatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build recipient log insert: %w", err)
	}
	query += conflictClause

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert recipient logs: %w", err)
	}
	return nil
}

func (r *recipientLogRepository) ListByMessage(ctx context.Context, messageID string) ([]*domain.RecipientLog, error) {
	query := `
		SELECT id, message_id, address, external_id, status, error_code, error_message, created_at
		FROM recipient_logs
		WHERE message_id = $1
		ORDER BY created_at ASC, address ASC
	`

	rows, err := r.db.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipient logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.RecipientLog
	for rows.Next() {
		var log domain.RecipientLog
		err := rows.Scan(
			&log.ID,
			&log.MessageID,
			&log.Address,
			&log.ExternalID,
			&log.Status,
			&log.ErrorCode,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipient log: %w", err)
		}
		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipient log rows: %w", err)
	}

	return logs, nil
}
