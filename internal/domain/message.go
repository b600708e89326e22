package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_message_repository.go -package mocks github.com/schoolcast/schoolcast/internal/domain MessageRepository

// Channel identifies a delivery channel
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelVoice Channel = "voice"
)

// IsValid reports whether the channel is one of the known channels.
func (c Channel) IsValid() bool {
	return c == ChannelSMS || c == ChannelEmail || c == ChannelVoice
}

// AggregateStatus is the overall outcome of a completed send
type AggregateStatus string

const (
	AggregateStatusSent    AggregateStatus = "sent"
	AggregateStatusPartial AggregateStatus = "partial"
	AggregateStatusFailed  AggregateStatus = "failed"
)

// DeriveStatus maps success/fail counts to the aggregate status:
// failed when nothing succeeded, partial when both counts are nonzero,
// sent when nothing failed.
func DeriveStatus(successCount, failCount int) AggregateStatus {
	switch {
	case successCount == 0 && failCount > 0:
		return AggregateStatusFailed
	case successCount > 0 && failCount > 0:
		return AggregateStatusPartial
	default:
		return AggregateStatusSent
	}
}

// RecipientType records where a send's recipients came from
type RecipientType string

const (
	RecipientTypeGroup  RecipientType = "group"
	RecipientTypeManual RecipientType = "manual"
	RecipientTypeMixed  RecipientType = "mixed"
)

// DeriveRecipientType tags a send by its recipient sources.
func DeriveRecipientType(hasGroups, hasManual bool) RecipientType {
	switch {
	case hasGroups && hasManual:
		return RecipientTypeMixed
	case hasManual:
		return RecipientTypeManual
	default:
		return RecipientTypeGroup
	}
}

// MessageRecord holds the channel-independent fields of a completed
// send. It is immutable once written; per-recipient detail lives in
// the child RecipientLogs.
type MessageRecord struct {
	ID            string          `json:"id"`
	Channel       Channel         `json:"channel"`
	RecipientType RecipientType   `json:"recipient_type"`
	GroupIDs      StringSlice     `json:"group_ids,omitempty"` // audit only; membership may since have changed
	Recipients    StringSlice     `json:"recipients"`          // resolved addresses actually targeted
	Status        AggregateStatus `json:"status"`
	TotalCount    int             `json:"total_recipients"`
	SuccessCount  int             `json:"success_count"`
	FailCount     int             `json:"fail_count"`
	SentBy        SenderIdentity  `json:"sent_by"`
	SentAt        time.Time       `json:"sent_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Message is the channel-tagged union over SMS, email and voice send
// records. Every variant shares the MessageRecord summary and adds a
// channel-specific payload.
type Message interface {
	Record() *MessageRecord
	MarshalPayload() ([]byte, error)
}

// SMSMessage is a completed text-message broadcast.
type SMSMessage struct {
	MessageRecord
	Body string `json:"body"`
}

func (m *SMSMessage) Record() *MessageRecord { return &m.MessageRecord }

func (m *SMSMessage) MarshalPayload() ([]byte, error) {
	return json.Marshal(smsPayload{Body: m.Body})
}

// AttachmentMeta records an email attachment in the ledger. The
// attachment bytes themselves are only handed to the gateway, never
// persisted.
type AttachmentMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// EmailMessage is a completed email broadcast.
type EmailMessage struct {
	MessageRecord
	Subject     string           `json:"subject"`
	HTML        string           `json:"html"`
	Text        string           `json:"text,omitempty"`
	CC          StringSlice      `json:"cc,omitempty"`
	BCC         StringSlice      `json:"bcc,omitempty"`
	Attachments []AttachmentMeta `json:"attachments,omitempty"`
}

func (m *EmailMessage) Record() *MessageRecord { return &m.MessageRecord }

func (m *EmailMessage) MarshalPayload() ([]byte, error) {
	return json.Marshal(emailPayload{
		Subject:     m.Subject,
		HTML:        m.HTML,
		Text:        m.Text,
		CC:          m.CC,
		BCC:         m.BCC,
		Attachments: m.Attachments,
	})
}

// VoiceMode selects how a robocall's content is produced
type VoiceMode string

const (
	VoiceModeTTS   VoiceMode = "tts"
	VoiceModeAudio VoiceMode = "audio"
)

// VoiceMessage is a completed robocall broadcast.
type VoiceMessage struct {
	MessageRecord
	Mode      VoiceMode `json:"mode"`
	Text      string    `json:"text,omitempty"`
	AudioPath string    `json:"audio_path,omitempty"` // object-storage path, presigned per call attempt
}

func (m *VoiceMessage) Record() *MessageRecord { return &m.MessageRecord }

func (m *VoiceMessage) MarshalPayload() ([]byte, error) {
	return json.Marshal(voicePayload{Mode: m.Mode, Text: m.Text, AudioPath: m.AudioPath})
}

type smsPayload struct {
	Body string `json:"body"`
}

type emailPayload struct {
	Subject     string           `json:"subject"`
	HTML        string           `json:"html"`
	Text        string           `json:"text,omitempty"`
	CC          StringSlice      `json:"cc,omitempty"`
	BCC         StringSlice      `json:"bcc,omitempty"`
	Attachments []AttachmentMeta `json:"attachments,omitempty"`
}

type voicePayload struct {
	Mode      VoiceMode `json:"mode"`
	Text      string    `json:"text,omitempty"`
	AudioPath string    `json:"audio_path,omitempty"`
}

// UnmarshalMessage rebuilds the channel-specific variant from a stored
// record and payload.
func UnmarshalMessage(record MessageRecord, payload []byte) (Message, error) {
	switch record.Channel {
	case ChannelSMS:
		var p smsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sms payload: %w", err)
		}
		return &SMSMessage{MessageRecord: record, Body: p.Body}, nil
	case ChannelEmail:
		var p emailPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal email payload: %w", err)
		}
		return &EmailMessage{
			MessageRecord: record,
			Subject:       p.Subject,
			HTML:          p.HTML,
			Text:          p.Text,
			CC:            p.CC,
			BCC:           p.BCC,
			Attachments:   p.Attachments,
		}, nil
	case ChannelVoice:
		var p voicePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal voice payload: %w", err)
		}
		return &VoiceMessage{MessageRecord: record, Mode: p.Mode, Text: p.Text, AudioPath: p.AudioPath}, nil
	default:
		return nil, fmt.Errorf("unknown message channel: %s", record.Channel)
	}
}

// MessageRepository defines persistence for the delivery ledger's
// message side. Message rows are append-only audit history.
type MessageRepository interface {
	// Create persists a completed message with its final aggregate status
	Create(ctx context.Context, message Message) error

	// Get retrieves a message by ID
	Get(ctx context.Context, id string) (Message, error)

	// List retrieves completed messages for a channel, newest first
	List(ctx context.Context, channel Channel, limit, offset int) ([]Message, int, error)
}
