package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/internal/service/dispatch"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// SMSService executes text-message broadcasts: resolve the audience,
// fan out one gateway call per recipient in rate-limited windows, then
// write the message and its per-recipient ledger.
type SMSService struct {
	resolver      domain.RecipientResolver
	gateway       domain.SMSGateway
	messageRepo   domain.MessageRepository
	logRepo       domain.RecipientLogRepository
	scheduledRepo domain.ScheduledMessageRepository
	dispatcher    *dispatch.Dispatcher
	logger        logger.Logger
}

// NewSMSService creates a new SMS broadcast service
func NewSMSService(
	resolver domain.RecipientResolver,
	gateway domain.SMSGateway,
	messageRepo domain.MessageRepository,
	logRepo domain.RecipientLogRepository,
	scheduledRepo domain.ScheduledMessageRepository,
	dispatcher *dispatch.Dispatcher,
	logger logger.Logger,
) *SMSService {
	return &SMSService{
		resolver:      resolver,
		gateway:       gateway,
		messageRepo:   messageRepo,
		logRepo:       logRepo,
		scheduledRepo: scheduledRepo,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Send executes an immediate SMS broadcast.
func (s *SMSService) Send(ctx context.Context, req *domain.SendSMSRequest, sentBy domain.SenderIdentity) (*domain.SendResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.execute(ctx, s.dispatcher, req.GroupIDs, req.ManualPhoneNumbers, req.Message, sentBy)
}

// SendScheduled executes a claimed scheduled SMS using the sweep's
// dispatcher. Recipients are re-resolved against current membership.
func (s *SMSService) SendScheduled(ctx context.Context, scheduled *domain.ScheduledMessage, dispatcher *dispatch.Dispatcher) (*domain.SendResult, error) {
	content, err := scheduled.SMSContent()
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, dispatcher, scheduled.GroupIDs, scheduled.ManualRecipients, content.Body, scheduled.SentBy)
}

func (s *SMSService) execute(ctx context.Context, dispatcher *dispatch.Dispatcher, groupIDs, manual []string, body string, sentBy domain.SenderIdentity) (*domain.SendResult, error) {
	audience, err := s.resolver.ResolvePhones(ctx, groupIDs, manual)
	if err != nil {
		return nil, err
	}

	messageID := uuid.New().String()

	report, err := dispatcher.Execute(ctx, audience.Addresses, func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		return s.gateway.SendSMS(ctx, domain.ToE164(address), body)
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"message_id": messageID,
			"error":      err.Error(),
		}).Error("SMS dispatch interrupted")
	}

	now := time.Now().UTC()
	logs := make([]*domain.RecipientLog, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		logs = append(logs, outcomeLog(messageID, outcome, now))
	}

	message := &domain.SMSMessage{
		MessageRecord: domain.MessageRecord{
			ID:            messageID,
			Channel:       domain.ChannelSMS,
			RecipientType: domain.DeriveRecipientType(len(groupIDs) > 0, len(audience.ManualAddresses) > 0),
			GroupIDs:      groupIDs,
			Recipients:    audience.Addresses[:len(report.Outcomes)],
			Status:        report.Status(),
			TotalCount:    len(report.Outcomes),
			SuccessCount:  report.SuccessCount,
			FailCount:     report.FailCount,
			SentBy:        sentBy,
			SentAt:        now,
			CreatedAt:     now,
		},
		Body: body,
	}

	if err := persistLedger(ctx, s.messageRepo, s.logRepo, s.logger, message, logs); err != nil {
		return nil, err
	}

	return &domain.SendResult{
		MessageID:       messageID,
		Status:          message.Status,
		TotalRecipients: message.TotalCount,
		SuccessCount:    message.SuccessCount,
		FailCount:       message.FailCount,
		Errors:          sendErrors(logs),
	}, nil
}

// Schedule defers an SMS broadcast. Recipients are stored raw and
// re-resolved at send time.
func (s *SMSService) Schedule(ctx context.Context, req *domain.SendSMSRequest, sentBy domain.SenderIdentity) (*domain.ScheduleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ScheduledFor == nil {
		return nil, domain.NewValidationError("scheduled_for is required")
	}

	scheduled := &domain.ScheduledMessage{
		ID:               uuid.New().String(),
		Channel:          domain.ChannelSMS,
		GroupIDs:         req.GroupIDs,
		ManualRecipients: req.ManualPhoneNumbers,
		ScheduledFor:     req.ScheduledFor.UTC(),
		SentBy:           sentBy,
	}
	if err := scheduled.SetContent(domain.SMSContent{Body: req.Message}); err != nil {
		return nil, err
	}
	if err := scheduled.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.scheduledRepo.Create(ctx, scheduled); err != nil {
		return nil, fmt.Errorf("failed to schedule sms: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"scheduled_id":  scheduled.ID,
		"scheduled_for": scheduled.ScheduledFor,
	}).Info("SMS broadcast scheduled")

	return &domain.ScheduleResult{
		ScheduledID:  scheduled.ID,
		Status:       scheduled.Status,
		ScheduledFor: scheduled.ScheduledFor,
	}, nil
}

// UpdateScheduled rewrites a pending scheduled SMS. Once the sweep has
// claimed the record the edit is rejected.
func (s *SMSService) UpdateScheduled(ctx context.Context, id string, req *domain.SendSMSRequest) (*domain.ScheduledMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ScheduledFor == nil {
		return nil, domain.NewValidationError("scheduled_for is required")
	}

	scheduled, err := s.scheduledRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scheduled.Channel != domain.ChannelSMS {
		return nil, domain.NewValidationError("scheduled message is not an sms broadcast")
	}
	if !scheduled.IsMutable() {
		return nil, &domain.ErrScheduledImmutable{ID: id, Status: scheduled.Status}
	}

	scheduled.GroupIDs = req.GroupIDs
	scheduled.ManualRecipients = req.ManualPhoneNumbers
	scheduled.ScheduledFor = req.ScheduledFor.UTC()
	if err := scheduled.SetContent(domain.SMSContent{Body: req.Message}); err != nil {
		return nil, err
	}
	if err := scheduled.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.scheduledRepo.Update(ctx, scheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to update scheduled sms: %w", err)
	}
	if !updated {
		return nil, &domain.ErrScheduledImmutable{ID: id, Status: scheduled.Status}
	}
	return scheduled, nil
}
