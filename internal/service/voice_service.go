package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/internal/service/dispatch"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// playbackURLTTL bounds how long a presigned recording URL stays
// valid. Long enough for the gateway to fetch it, short enough that a
// leaked URL goes stale quickly.
const playbackURLTTL = 15 * time.Minute

// VoiceService executes robocall broadcasts. Calls either hand text to
// the gateway for synthesis or replay a stored recording through a
// presigned URL generated fresh for every call attempt.
type VoiceService struct {
	resolver      domain.RecipientResolver
	gateway       domain.VoiceGateway
	store         domain.ObjectStore
	messageRepo   domain.MessageRepository
	logRepo       domain.RecipientLogRepository
	scheduledRepo domain.ScheduledMessageRepository
	dispatcher    *dispatch.Dispatcher
	logger        logger.Logger
}

// NewVoiceService creates a new robocall broadcast service
func NewVoiceService(
	resolver domain.RecipientResolver,
	gateway domain.VoiceGateway,
	store domain.ObjectStore,
	messageRepo domain.MessageRepository,
	logRepo domain.RecipientLogRepository,
	scheduledRepo domain.ScheduledMessageRepository,
	dispatcher *dispatch.Dispatcher,
	logger logger.Logger,
) *VoiceService {
	return &VoiceService{
		resolver:      resolver,
		gateway:       gateway,
		store:         store,
		messageRepo:   messageRepo,
		logRepo:       logRepo,
		scheduledRepo: scheduledRepo,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Send executes an immediate robocall broadcast. Uploaded audio is
// stored before any call is placed.
func (s *VoiceService) Send(ctx context.Context, req *domain.SendVoiceRequest, sentBy domain.SenderIdentity) (*domain.SendResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	content, err := s.voiceContentFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, s.dispatcher, req.GroupIDs, req.ManualPhoneNumbers, content, sentBy)
}

// SendScheduled executes a claimed scheduled robocall using the
// sweep's dispatcher. Recipients are re-resolved against current
// membership.
func (s *VoiceService) SendScheduled(ctx context.Context, scheduled *domain.ScheduledMessage, dispatcher *dispatch.Dispatcher) (*domain.SendResult, error) {
	content, err := scheduled.VoiceContent()
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, dispatcher, scheduled.GroupIDs, scheduled.ManualRecipients, content, scheduled.SentBy)
}

func (s *VoiceService) execute(ctx context.Context, dispatcher *dispatch.Dispatcher, groupIDs, manual []string, content *domain.VoiceContent, sentBy domain.SenderIdentity) (*domain.SendResult, error) {
	audience, err := s.resolver.ResolvePhones(ctx, groupIDs, manual)
	if err != nil {
		return nil, err
	}

	messageID := uuid.New().String()

	report, err := dispatcher.Execute(ctx, audience.Addresses, func(ctx context.Context, address string) (*domain.GatewayResult, error) {
		call, err := s.callFor(content)
		if err != nil {
			return nil, err
		}
		return s.gateway.PlaceCall(ctx, domain.ToE164(address), call)
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"message_id": messageID,
			"error":      err.Error(),
		}).Error("Voice dispatch interrupted")
	}

	now := time.Now().UTC()
	logs := make([]*domain.RecipientLog, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		logs = append(logs, outcomeLog(messageID, outcome, now))
	}

	message := &domain.VoiceMessage{
		MessageRecord: domain.MessageRecord{
			ID:            messageID,
			Channel:       domain.ChannelVoice,
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
		Mode:      content.Mode,
		Text:      content.Text,
		AudioPath: content.AudioPath,
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

// callFor prepares the content of one call attempt. Recorded audio is
// presigned here so every attempt gets its own fresh URL.
func (s *VoiceService) callFor(content *domain.VoiceContent) (domain.VoiceCall, error) {
	if content.Mode == domain.VoiceModeTTS {
		return domain.VoiceCall{Text: content.Text}, nil
	}
	url, err := s.store.SignedURL(content.AudioPath, playbackURLTTL)
	if err != nil {
		return domain.VoiceCall{}, fmt.Errorf("failed to presign recording: %w", err)
	}
	return domain.VoiceCall{AudioURL: url}, nil
}

// Schedule defers a robocall broadcast. Uploaded audio is stored now
// so the sweep only has to presign it later.
func (s *VoiceService) Schedule(ctx context.Context, req *domain.SendVoiceRequest, sentBy domain.SenderIdentity) (*domain.ScheduleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ScheduledFor == nil {
		return nil, domain.NewValidationError("scheduled_for is required")
	}
	content, err := s.voiceContentFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	scheduled := &domain.ScheduledMessage{
		ID:               uuid.New().String(),
		Channel:          domain.ChannelVoice,
		GroupIDs:         req.GroupIDs,
		ManualRecipients: req.ManualPhoneNumbers,
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
		return nil, fmt.Errorf("failed to schedule robocall: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"scheduled_id":  scheduled.ID,
		"scheduled_for": scheduled.ScheduledFor,
	}).Info("Robocall broadcast scheduled")

	return &domain.ScheduleResult{
		ScheduledID:  scheduled.ID,
		Status:       scheduled.Status,
		ScheduledFor: scheduled.ScheduledFor,
	}, nil
}

// UpdateScheduled rewrites a pending scheduled robocall. Once the
// sweep has claimed the record the edit is rejected.
func (s *VoiceService) UpdateScheduled(ctx context.Context, id string, req *domain.SendVoiceRequest) (*domain.ScheduledMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ScheduledFor == nil {
		return nil, domain.NewValidationError("scheduled_for is required")
	}
	content, err := s.voiceContentFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	scheduled, err := s.scheduledRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scheduled.Channel != domain.ChannelVoice {
		return nil, domain.NewValidationError("scheduled message is not a robocall broadcast")
	}
	if !scheduled.IsMutable() {
		return nil, &domain.ErrScheduledImmutable{ID: id, Status: scheduled.Status}
	}

	scheduled.GroupIDs = req.GroupIDs
	scheduled.ManualRecipients = req.ManualPhoneNumbers
	scheduled.ScheduledFor = req.ScheduledFor.UTC()
	if err := scheduled.SetContent(content); err != nil {
		return nil, err
	}
	if err := scheduled.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.scheduledRepo.Update(ctx, scheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to update scheduled robocall: %w", err)
	}
	if !updated {
		return nil, &domain.ErrScheduledImmutable{ID: id, Status: scheduled.Status}
	}
	return scheduled, nil
}

// voiceContentFromRequest resolves the recording method into channel
// content, uploading audio when the request carries it inline.
func (s *VoiceService) voiceContentFromRequest(ctx context.Context, req *domain.SendVoiceRequest) (*domain.VoiceContent, error) {
	switch req.RecordingMethod {
	case domain.RecordingMethodTTS:
		return &domain.VoiceContent{Mode: domain.VoiceModeTTS, Text: req.TextContent}, nil
	case domain.RecordingMethodAudio:
		return &domain.VoiceContent{Mode: domain.VoiceModeAudio, AudioPath: req.AudioPath}, nil
	case domain.RecordingMethodUpload:
		data, err := base64.StdEncoding.DecodeString(req.AudioFile)
		if err != nil {
			return nil, domain.NewValidationError("audio_file is not valid base64")
		}
		name, contentType := recordingNameAndType(data)
		path, err := s.store.Upload(ctx, data, name, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store recording: %w", err)
		}
		return &domain.VoiceContent{Mode: domain.VoiceModeAudio, AudioPath: path}, nil
	default:
		return nil, domain.NewValidationError("recording_method must be tts, audio or upload")
	}
}

// recordingNameAndType sniffs uploaded audio. The gateway only needs a
// plausible extension and content type for playback.
func recordingNameAndType(data []byte) (string, string) {
	contentType := http.DetectContentType(data)
	switch contentType {
	case "audio/mpeg":
		return "recording.mp3", contentType
	case "audio/wave", "audio/wav":
		return "recording.wav", contentType
	default:
		return "recording.mp3", "audio/mpeg"
	}
}
