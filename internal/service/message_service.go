package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// MessageService serves the delivery ledger's read side: channel
// history listings and the per-recipient detail view.
type MessageService struct {
	messageRepo domain.MessageRepository
	logRepo     domain.RecipientLogRepository
	logger      logger.Logger
}

// NewMessageService creates a new message history service
func NewMessageService(messageRepo domain.MessageRepository, logRepo domain.RecipientLogRepository, logger logger.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		logRepo:     logRepo,
		logger:      logger,
	}
}

// List returns a channel's completed sends, newest first, with the
// total count for pagination.
func (s *MessageService) List(ctx context.Context, channel domain.Channel, limit, offset int) ([]domain.Message, int, error) {
	if !channel.IsValid() {
		return nil, 0, domain.NewValidationError("invalid channel: " + string(channel))
	}
	return s.messageRepo.List(ctx, channel, limit, offset)
}

// Get returns one completed send. Lookups are channel-scoped so an sms
// ID is not found through the email history.
func (s *MessageService) Get(ctx context.Context, channel domain.Channel, id string) (domain.Message, error) {
	message, err := s.messageRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.Record().Channel != channel {
		return nil, &domain.ErrNotFound{Entity: string(channel) + " message", ID: id}
	}
	return message, nil
}

// RecipientDetails returns the message with its per-recipient logs and
// summary counts. Messages written before the ledger carried logs, or
// whose log write was lost, are repaired here from their stored
// recipient list.
func (s *MessageService) RecipientDetails(ctx context.Context, channel domain.Channel, id string) (*domain.RecipientDetails, error) {
	message, err := s.Get(ctx, channel, id)
	if err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListByMessage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient logs: %w", err)
	}

	record := message.Record()
	if len(logs) == 0 && len(record.Recipients) > 0 {
		logs, err = s.backfillLogs(ctx, record)
		if err != nil {
			return nil, err
		}
	}

	success, fail := countLogs(logs)
	return &domain.RecipientDetails{
		Message:    message,
		Recipients: logs,
		Summary: domain.RecipientCounts{
			Total:   len(logs),
			Success: success,
			Failed:  fail,
		},
	}, nil
}

// backfillLogs reconstructs missing logs from the message's stored
// recipients and aggregate counts. Per-recipient attribution is gone,
// so the first SuccessCount addresses are marked sent and the rest
// failed, keeping the counts consistent with the aggregate. The insert
// skips existing rows so concurrent reads never duplicate the repair.
func (s *MessageService) backfillLogs(ctx context.Context, record *domain.MessageRecord) ([]*domain.RecipientLog, error) {
	reconstructed := "outcome reconstructed from aggregate counts"
	now := time.Now().UTC()

	logs := make([]*domain.RecipientLog, 0, len(record.Recipients))
	for i, address := range record.Recipients {
		log := &domain.RecipientLog{
			ID:        uuid.New().String(),
			MessageID: record.ID,
			Address:   address,
			Status:    domain.RecipientStatusSent,
			CreatedAt: now,
		}
		if i >= record.SuccessCount {
			log.Status = domain.RecipientStatusFailed
			log.ErrorMessage = &reconstructed
		}
		logs = append(logs, log)
	}

	if err := s.logRepo.CreateBatchIfAbsent(ctx, logs); err != nil {
		return nil, fmt.Errorf("failed to backfill recipient logs: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"message_id": record.ID,
		"count":      len(logs),
	}).Warn("Backfilled missing recipient logs")

	// Re-read so concurrent repairs converge on the stored rows
	stored, err := s.logRepo.ListByMessage(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload recipient logs: %w", err)
	}
	return stored, nil
}
