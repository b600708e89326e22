package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/internal/service/dispatch"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// outcomeLog converts one dispatch outcome into its ledger row.
// Gateway error codes (e.g. Twilio 21211) are preserved verbatim so
// the recipient detail view can surface the provider's diagnosis.
func outcomeLog(messageID string, outcome dispatch.Outcome, now time.Time) *domain.RecipientLog {
	log := &domain.RecipientLog{
		ID:        uuid.New().String(),
		MessageID: messageID,
		Address:   outcome.Address,
		CreatedAt: now,
	}

	if outcome.Err != nil {
		log.Status = domain.RecipientStatusFailed
		msg := outcome.Err.Error()
		log.ErrorMessage = &msg

		var gatewayErr *domain.GatewayError
		if errors.As(outcome.Err, &gatewayErr) {
			if gatewayErr.Code != "" {
				code := gatewayErr.Code
				log.ErrorCode = &code
			}
			log.ErrorMessage = &gatewayErr.Message
		}
		return log
	}

	if outcome.Result != nil {
		log.Status = outcome.Result.Status
		if outcome.Result.ExternalID != "" {
			externalID := outcome.Result.ExternalID
			log.ExternalID = &externalID
		}
		return log
	}

	log.Status = domain.RecipientStatusSent
	return log
}

// sendErrors extracts the failed outcomes for the caller-facing result.
func sendErrors(logs []*domain.RecipientLog) []domain.SendError {
	var errs []domain.SendError
	for _, log := range logs {
		if log.Succeeded() {
			continue
		}
		msg := "delivery failed"
		if log.ErrorMessage != nil {
			msg = *log.ErrorMessage
		}
		errs = append(errs, domain.SendError{Address: log.Address, Error: msg})
	}
	return errs
}

// countLogs tallies a log set into success/fail counts.
func countLogs(logs []*domain.RecipientLog) (success, fail int) {
	for _, log := range logs {
		if log.Succeeded() {
			success++
		} else {
			fail++
		}
	}
	return success, fail
}

// persistLedger writes a completed message and its per-recipient logs.
// A log-write failure is not fatal: the message row already exists and
// the detail view backfills its logs on first read.
func persistLedger(ctx context.Context, messageRepo domain.MessageRepository, logRepo domain.RecipientLogRepository, log logger.Logger, message domain.Message, logs []*domain.RecipientLog) error {
	if err := messageRepo.Create(ctx, message); err != nil {
		return fmt.Errorf("failed to persist message: %w", err)
	}
	if err := logRepo.CreateBatch(ctx, logs); err != nil {
		log.WithFields(map[string]interface{}{
			"message_id": message.Record().ID,
			"error":      err.Error(),
		}).Error("Failed to persist recipient logs")
	}
	return nil
}
