package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_scheduled_message_repository.go -package mocks github.com/schoolcast/schoolcast/internal/domain ScheduledMessageRepository

// ScheduledStatus is the lifecycle state of a deferred send
type ScheduledStatus string

const (
	ScheduledStatusPending    ScheduledStatus = "pending"
	ScheduledStatusProcessing ScheduledStatus = "processing"
	ScheduledStatusSent       ScheduledStatus = "sent"
	ScheduledStatusPartial    ScheduledStatus = "partial"
	ScheduledStatusFailed     ScheduledStatus = "failed"
	ScheduledStatusCancelled  ScheduledStatus = "cancelled"
)

// TerminalScheduledStatus maps a completed send's aggregate status to
// the scheduled record's terminal state.
func TerminalScheduledStatus(status AggregateStatus) ScheduledStatus {
	switch status {
	case AggregateStatusPartial:
		return ScheduledStatusPartial
	case AggregateStatusFailed:
		return ScheduledStatusFailed
	default:
		return ScheduledStatusSent
	}
}

// ScheduledMessage is a deferred broadcast persisted now and executed
// later by the sweep. It is mutable only while pending; recipients are
// re-resolved at send time because group membership may have changed.
type ScheduledMessage struct {
	ID               string          `json:"id"`
	Channel          Channel         `json:"channel"`
	GroupIDs         StringSlice     `json:"group_ids,omitempty"`
	ManualRecipients StringSlice     `json:"manual_recipients,omitempty"`
	Payload          json.RawMessage `json:"payload"`
	ScheduledFor     time.Time       `json:"scheduled_for"`
	Status           ScheduledStatus `json:"status"`
	MessageID        *string         `json:"message_id,omitempty"` // set on success
	ErrorMessage     *string         `json:"error_message,omitempty"`
	SentBy           SenderIdentity  `json:"sent_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// EmailAttachment carries full attachment bytes for a scheduled email.
// Content is base64 in JSON.
type EmailAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// Meta strips the bytes for ledger storage.
func (a EmailAttachment) Meta() AttachmentMeta {
	return AttachmentMeta{
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        len(a.Content),
	}
}

// SMSContent is the scheduled payload for the sms channel
type SMSContent struct {
	Body string `json:"body"`
}

// EmailContent is the scheduled payload for the email channel
type EmailContent struct {
	Subject     string            `json:"subject"`
	HTML        string            `json:"html"`
	Text        string            `json:"text,omitempty"`
	CC          StringSlice       `json:"cc,omitempty"`
	BCC         StringSlice       `json:"bcc,omitempty"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}

// VoiceContent is the scheduled payload for the voice channel
type VoiceContent struct {
	Mode      VoiceMode `json:"mode"`
	Text      string    `json:"text,omitempty"`
	AudioPath string    `json:"audio_path,omitempty"`
}

// SetContent marshals a channel payload onto the record.
func (s *ScheduledMessage) SetContent(content interface{}) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal scheduled payload: %w", err)
	}
	s.Payload = payload
	return nil
}

// SMSContent decodes the payload for an sms record.
func (s *ScheduledMessage) SMSContent() (*SMSContent, error) {
	if s.Channel != ChannelSMS {
		return nil, fmt.Errorf("scheduled message %s is not sms", s.ID)
	}
	var c SMSContent
	if err := json.Unmarshal(s.Payload, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sms payload: %w", err)
	}
	return &c, nil
}

// EmailContent decodes the payload for an email record.
func (s *ScheduledMessage) EmailContent() (*EmailContent, error) {
	if s.Channel != ChannelEmail {
		return nil, fmt.Errorf("scheduled message %s is not email", s.ID)
	}
	var c EmailContent
	if err := json.Unmarshal(s.Payload, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email payload: %w", err)
	}
	return &c, nil
}

// VoiceContent decodes the payload for a voice record.
func (s *ScheduledMessage) VoiceContent() (*VoiceContent, error) {
	if s.Channel != ChannelVoice {
		return nil, fmt.Errorf("scheduled message %s is not voice", s.ID)
	}
	var c VoiceContent
	if err := json.Unmarshal(s.Payload, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal voice payload: %w", err)
	}
	return &c, nil
}

// IsMutable reports whether the record may still be edited or
// cancelled. Once the sweep flips it to processing, every edit and
// cancel must be rejected.
func (s *ScheduledMessage) IsMutable() bool {
	return s.Status == ScheduledStatusPending
}

// IsTerminal reports whether the record reached a final state.
func (s *ScheduledMessage) IsTerminal() bool {
	switch s.Status {
	case ScheduledStatusSent, ScheduledStatusPartial, ScheduledStatusFailed, ScheduledStatusCancelled:
		return true
	default:
		return false
	}
}

// Validate checks a scheduled record at creation or edit time.
func (s *ScheduledMessage) Validate(now time.Time) error {
	if !s.Channel.IsValid() {
		return NewValidationError("invalid channel: " + string(s.Channel))
	}
	if len(s.GroupIDs) == 0 && len(s.ManualRecipients) == 0 {
		return NewValidationError("scheduled message requires groups or manual recipients")
	}
	if len(s.Payload) == 0 {
		return NewValidationError("scheduled message requires content")
	}
	if !s.ScheduledFor.After(now) {
		return NewValidationError("scheduled_for must be in the future")
	}
	return nil
}

// ScheduledMessageRepository defines persistence for scheduled sends.
type ScheduledMessageRepository interface {
	// Create persists a new pending record
	Create(ctx context.Context, scheduled *ScheduledMessage) error

	// Update rewrites content/recipients/scheduled_for of a record.
	// The update applies only while the row is still pending; it
	// returns false when the row has already left pending.
	Update(ctx context.Context, scheduled *ScheduledMessage) (bool, error)

	// Get retrieves a record by ID
	Get(ctx context.Context, id string) (*ScheduledMessage, error)

	// List retrieves records newest first
	List(ctx context.Context, limit, offset int) ([]*ScheduledMessage, int, error)

	// ListDue returns pending records whose scheduled_for is at or
	// before now
	ListDue(ctx context.Context, now time.Time, limit int) ([]*ScheduledMessage, error)

	// Claim flips pending -> processing. The update is conditional on
	// the row still being pending, so two overlapping sweeps cannot
	// both claim the same record. Returns false when the claim lost.
	Claim(ctx context.Context, id string) (bool, error)

	// Cancel flips pending -> cancelled under the same conditional
	// update. Returns false when the row already left pending.
	Cancel(ctx context.Context, id string) (bool, error)

	// Complete writes the terminal status, the resulting message ID
	// on success and the error message on failure.
	Complete(ctx context.Context, id string, status ScheduledStatus, messageID *string, errorMessage *string) error
}
