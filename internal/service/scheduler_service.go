package service

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/internal/service/dispatch"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// sweepBatchLimit caps how many due records one sweep picks up
const sweepBatchLimit = 100

// ScheduledSender executes one claimed scheduled broadcast. Each
// channel service implements it.
type ScheduledSender interface {
	SendScheduled(ctx context.Context, scheduled *domain.ScheduledMessage, dispatcher *dispatch.Dispatcher) (*domain.SendResult, error)
}

// SweepResult summarizes one sweep run for the trigger's response.
type SweepResult struct {
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Partial int `json:"partial"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// SchedulerService owns the lifecycle of deferred broadcasts: the
// periodic sweep that executes due records, plus listing and
// cancellation. Claims are conditional updates, so overlapping sweeps
// never execute the same record twice.
type SchedulerService struct {
	scheduledRepo domain.ScheduledMessageRepository
	senders       map[domain.Channel]ScheduledSender
	dispatcher    *dispatch.Dispatcher
	logger        logger.Logger
}

// NewSchedulerService creates a scheduler over the per-channel
// senders. The dispatcher is the sweep's own, sized for backlog
// draining rather than interactive sends.
func NewSchedulerService(
	scheduledRepo domain.ScheduledMessageRepository,
	sms ScheduledSender,
	email ScheduledSender,
	voice ScheduledSender,
	dispatcher *dispatch.Dispatcher,
	logger logger.Logger,
) *SchedulerService {
	return &SchedulerService{
		scheduledRepo: scheduledRepo,
		senders: map[domain.Channel]ScheduledSender{
			domain.ChannelSMS:   sms,
			domain.ChannelEmail: email,
			domain.ChannelVoice: voice,
		},
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Sweep executes every due scheduled broadcast. Records another sweep
// claimed first are skipped; one record's failure never stops the
// rest of the batch.
func (s *SchedulerService) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	due, err := s.scheduledRepo.ListDue(ctx, now, sweepBatchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due scheduled messages: %w", err)
	}

	result := &SweepResult{Due: len(due)}
	for _, scheduled := range due {
		claimed, err := s.scheduledRepo.Claim(ctx, scheduled.ID)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"scheduled_id": scheduled.ID,
				"error":        err.Error(),
			}).Error("Failed to claim scheduled message")
			result.Skipped++
			continue
		}
		if !claimed {
			result.Skipped++
			continue
		}

		switch s.executeClaimed(ctx, scheduled) {
		case domain.ScheduledStatusSent:
			result.Sent++
		case domain.ScheduledStatusPartial:
			result.Partial++
		default:
			result.Failed++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"due":     result.Due,
		"sent":    result.Sent,
		"partial": result.Partial,
		"failed":  result.Failed,
		"skipped": result.Skipped,
	}).Info("Scheduler sweep completed")

	return result, nil
}

// executeClaimed runs one claimed record to its terminal state.
func (s *SchedulerService) executeClaimed(ctx context.Context, scheduled *domain.ScheduledMessage) domain.ScheduledStatus {
	sender, ok := s.senders[scheduled.Channel]
	if !ok {
		return s.completeFailed(ctx, scheduled.ID, fmt.Sprintf("unknown channel: %s", scheduled.Channel))
	}

	result, err := sender.SendScheduled(ctx, scheduled, s.dispatcher)
	if err != nil {
		return s.completeFailed(ctx, scheduled.ID, err.Error())
	}

	status := domain.TerminalScheduledStatus(result.Status)
	if err := s.scheduledRepo.Complete(ctx, scheduled.ID, status, &result.MessageID, nil); err != nil {
		// The message and its logs exist; only the scheduled record's
		// terminal state is stale.
		s.logger.WithFields(map[string]interface{}{
			"scheduled_id": scheduled.ID,
			"message_id":   result.MessageID,
			"error":        err.Error(),
		}).Error("Failed to finalize scheduled message")
	}
	return status
}

func (s *SchedulerService) completeFailed(ctx context.Context, id, errMsg string) domain.ScheduledStatus {
	s.logger.WithFields(map[string]interface{}{
		"scheduled_id": id,
		"error":        errMsg,
	}).Error("Scheduled send failed")

	if err := s.scheduledRepo.Complete(ctx, id, domain.ScheduledStatusFailed, nil, &errMsg); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"scheduled_id": id,
			"error":        err.Error(),
		}).Error("Failed to record scheduled failure")
	}
	return domain.ScheduledStatusFailed
}

// List returns scheduled records, newest first.
func (s *SchedulerService) List(ctx context.Context, limit, offset int) ([]*domain.ScheduledMessage, int, error) {
	return s.scheduledRepo.List(ctx, limit, offset)
}

// Get returns one scheduled record.
func (s *SchedulerService) Get(ctx context.Context, id string) (*domain.ScheduledMessage, error) {
	return s.scheduledRepo.Get(ctx, id)
}

// Cancel flips a pending record to cancelled. A record the sweep has
// already claimed can no longer be cancelled.
func (s *SchedulerService) Cancel(ctx context.Context, id string) error {
	scheduled, err := s.scheduledRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !scheduled.IsMutable() {
		return &domain.ErrScheduledImmutable{ID: id, Status: scheduled.Status}
	}

	cancelled, err := s.scheduledRepo.Cancel(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to cancel scheduled message: %w", err)
	}
	if !cancelled {
		// Lost the race with a sweep between the read and the update
		if current, err := s.scheduledRepo.Get(ctx, id); err == nil {
			return &domain.ErrScheduledImmutable{ID: id, Status: current.Status}
		}
		return &domain.ErrScheduledImmutable{ID: id, Status: scheduled.Status}
	}

	s.logger.WithField("scheduled_id", id).Info("Scheduled broadcast cancelled")
	return nil
}
