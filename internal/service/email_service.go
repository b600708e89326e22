package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/internal/service/dispatch"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// EmailService executes email broadcasts. Group-derived recipients each
// get their own gateway envelope so no member ever sees another's
// address; manual to recipients were entered together and share one
// envelope, which also carries the cc/bcc lists.
type EmailService struct {
	resolver      domain.RecipientResolver
	gateway       domain.EmailGateway
	messageRepo   domain.MessageRepository
	logRepo       domain.RecipientLogRepository
	scheduledRepo domain.ScheduledMessageRepository
	dispatcher    *dispatch.Dispatcher
	logger        logger.Logger
}

// NewEmailService creates a new email broadcast service
func NewEmailService(
	resolver domain.RecipientResolver,
	gateway domain.EmailGateway,
	messageRepo domain.MessageRepository,
	logRepo domain.RecipientLogRepository,
	scheduledRepo domain.ScheduledMessageRepository,
	dispatcher *dispatch.Dispatcher,
	logger logger.Logger,
) *EmailService {
	return &EmailService{
		resolver:      resolver,
		gateway:       gateway,
		messageRepo:   messageRepo,
		logRepo:       logRepo,
		scheduledRepo: scheduledRepo,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// emailUnit is one gateway call: a single group recipient, or the
// combined manual envelope. addresses lists the ledger rows the unit's
// outcome covers.
type emailUnit struct {
	envelope  domain.EmailEnvelope
	addresses []string
}

// buildEmailUnits splits an audience into gateway calls. CC/BCC ride
// the manual envelope when one exists, otherwise the first group
// envelope.
func buildEmailUnits(audience *domain.ResolvedEmailAudience, content *domain.EmailContent) []emailUnit {
	units := make([]emailUnit, 0, len(audience.GroupTo)+1)
	for _, address := range audience.GroupTo {
		units = append(units, emailUnit{
			envelope:  envelopeFor([]string{address}, content),
			addresses: []string{address},
		})
	}
	if len(audience.ManualTo) > 0 {
		envelope := envelopeFor(audience.ManualTo, content)
		envelope.CC = audience.CC
		envelope.BCC = audience.BCC
		units = append(units, emailUnit{envelope: envelope, addresses: audience.ManualTo})
	} else if len(units) > 0 {
		units[0].envelope.CC = audience.CC
		units[0].envelope.BCC = audience.BCC
	}
	return units
}

func envelopeFor(to []string, content *domain.EmailContent) domain.EmailEnvelope {
	return domain.EmailEnvelope{
		To:          to,
		Subject:     content.Subject,
		HTML:        content.HTML,
		Text:        content.Text,
		Attachments: content.Attachments,
	}
}

// Send executes an immediate email broadcast.
func (s *EmailService) Send(ctx context.Context, req *domain.SendEmailRequest, sentBy domain.SenderIdentity) (*domain.SendResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	content, err := emailContentFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, s.dispatcher, req.GroupIDs, req.ManualRecipients, content, sentBy)
}

// SendScheduled executes a claimed scheduled email using the sweep's
// dispatcher. Recipients are re-resolved against current membership.
func (s *EmailService) SendScheduled(ctx context.Context, scheduled *domain.ScheduledMessage, dispatcher *dispatch.Dispatcher) (*domain.SendResult, error) {
	content, err := scheduled.EmailContent()
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, dispatcher, scheduled.GroupIDs, scheduled.ManualRecipients, content, scheduled.SentBy)
}

func (s *EmailService) execute(ctx context.Context, dispatcher *dispatch.Dispatcher, groupIDs, manualTo []string, content *domain.EmailContent, sentBy domain.SenderIdentity) (*domain.SendResult, error) {
	audience, err := s.resolver.ResolveEmails(ctx, groupIDs, manualTo, content.CC, content.BCC)
	if err != nil {
		return nil, err
	}

	messageID := uuid.New().String()
	units := buildEmailUnits(audience, content)

	keys := make([]string, len(units))
	byKey := make(map[string]emailUnit, len(units))
	for i, unit := range units {
		keys[i] = unit.addresses[0]
		byKey[keys[i]] = unit
	}

	report, err := dispatcher.Execute(ctx, keys, func(ctx context.Context, key string) (*domain.GatewayResult, error) {
		return nil, s.gateway.SendEmail(ctx, byKey[key].envelope)
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"message_id": messageID,
			"error":      err.Error(),
		}).Error("Email dispatch interrupted")
	}

	// One ledger row per to address. A shared envelope's outcome is
	// replicated to each of its addresses.
	now := time.Now().UTC()
	var logs []*domain.RecipientLog
	for _, outcome := range report.Outcomes {
		for _, address := range byKey[outcome.Address].addresses {
			o := outcome
			o.Address = address
			logs = append(logs, outcomeLog(messageID, o, now))
		}
	}

	recipients := make([]string, len(logs))
	for i, log := range logs {
		recipients[i] = log.Address
	}
	successCount, failCount := countLogs(logs)

	attachments := make([]domain.AttachmentMeta, 0, len(content.Attachments))
	for _, a := range content.Attachments {
		attachments = append(attachments, a.Meta())
	}

	message := &domain.EmailMessage{
		MessageRecord: domain.MessageRecord{
			ID:            messageID,
			Channel:       domain.ChannelEmail,
			RecipientType: domain.DeriveRecipientType(len(groupIDs) > 0, len(audience.ManualTo) > 0),
			GroupIDs:      groupIDs,
			Recipients:    recipients,
			Status:        domain.DeriveStatus(successCount, failCount),
			TotalCount:    len(logs),
			SuccessCount:  successCount,
			FailCount:     failCount,
			SentBy:        sentBy,
			SentAt:        now,
			CreatedAt:     now,
		},
		Subject:     content.Subject,
		HTML:        content.HTML,
		Text:        content.Text,
		CC:          audience.CC,
		BCC:         audience.BCC,
		Attachments: attachments,
	}

	if err := persistLedger(ctx, s.messageRepo, s.logRepo, s.logger, message, logs); err != nil {
		return nil, err
	}

	return &domain.SendResult{
		MessageID:       messageID,
		Status:          message.Status,
		TotalRecipients: message.TotalCount,
		SuccessCount:    successCount,
		FailCount:       failCount,
		Errors:          sendErrors(logs),
	}, nil
}

// Schedule defers an email broadcast. Attachment bytes are stored with
// the scheduled payload so the sweep can deliver them later.
func (s *EmailService) Schedule(ctx context.Context, req *domain.SendEmailRequest, sentBy domain.SenderIdentity) (*domain.ScheduleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ScheduledFor == nil {
		return nil, domain.NewValidationError("scheduled_for is required")
	}
	content, err := emailContentFromRequest(req)
	if err != nil {
		return nil, err
	}

	scheduled := &domain.ScheduledMessage{
		ID:               uuid.New().String(),
		Channel:          domain.ChannelEmail,
		GroupIDs:         req.GroupIDs,
		ManualRecipients: req.ManualRecipients,
		ScheduledFor:     req.ScheduledFor.UTC(),
		SentBy:           sentBy,
	}
	if err := scheduled.SetContent(content); err != nil {
		return nil, err
	}
	if err := scheduled.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.scheduledRepo.Create(ctx, scheduled); err != nil {
		return nil, fmt.Errorf("failed to schedule email: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"scheduled_id":  scheduled.ID,
		"scheduled_for": scheduled.ScheduledFor,
	}).Info("Email broadcast scheduled")

	return &domain.ScheduleResult{
		ScheduledID:  scheduled.ID,
		Status:       scheduled.Status,
		ScheduledFor: scheduled.ScheduledFor,
	}, nil
}

// UpdateScheduled rewrites a pending scheduled email. Once the sweep
// has claimed the record the edit is rejected.
func (s *EmailService) UpdateScheduled(ctx context.Context, id string, req *domain.SendEmailRequest) (*domain.ScheduledMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ScheduledFor == nil {
		return nil, domain.NewValidationError("scheduled_for is required")
	}
	content, err := emailContentFromRequest(req)
	if err != nil {
		return nil, err
	}

	scheduled, err := s.scheduledRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scheduled.Channel != domain.ChannelEmail {
		return nil, domain.NewValidationError("scheduled message is not an email broadcast")
	}
	if !scheduled.IsMutable() {
		return nil, &domain.ErrScheduledImmutable{ID: id, Status: scheduled.Status}
	}

	scheduled.GroupIDs = req.GroupIDs
	scheduled.ManualRecipients = req.ManualRecipients
	scheduled.ScheduledFor = req.ScheduledFor.UTC()
	if err := scheduled.SetContent(content); err != nil {
		return nil, err
	}
	if err := scheduled.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.scheduledRepo.Update(ctx, scheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to update scheduled email: %w", err)
	}
	if !updated {
		return nil, &domain.ErrScheduledImmutable{ID: id, Status: scheduled.Status}
	}
	return scheduled, nil
}

// emailContentFromRequest decodes the request's base64 attachments into
// channel content.
func emailContentFromRequest(req *domain.SendEmailRequest) (*domain.EmailContent, error) {
	attachments := make([]domain.EmailAttachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		data, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("attachment %s is not valid base64", a.Filename))
		}
		attachments = append(attachments, domain.EmailAttachment{
			Filename:    a.Filename,
			ContentType: a.Type,
			Content:     data,
		})
	}
	return &domain.EmailContent{
		Subject:     req.Subject,
		HTML:        req.HTML,
		Text:        req.Text,
		CC:          req.CC,
		BCC:         req.BCC,
		Attachments: attachments,
	}, nil
}
