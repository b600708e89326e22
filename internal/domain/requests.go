package domain

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

// maxSMSBody matches the gateway's concatenated-segment limit
const maxSMSBody = 1600

// SendSMSRequest is the payload for immediate and scheduled SMS
// broadcasts. GroupID is the legacy single-group field; it is folded
// into GroupIDs during validation.
type SendSMSRequest struct {
	GroupID            string     `json:"group_id,omitempty"`
	GroupIDs           []string   `json:"group_ids,omitempty"`
	ManualPhoneNumbers []string   `json:"manual_phone_numbers,omitempty"`
	Message            string     `json:"message"`
	ScheduledFor       *time.Time `json:"scheduled_for,omitempty"`
}

// Validate checks the request and folds GroupID into GroupIDs.
func (r *SendSMSRequest) Validate() error {
	if r.GroupID != "" && !contains(r.GroupIDs, r.GroupID) {
		r.GroupIDs = append(r.GroupIDs, r.GroupID)
	}
	if strings.TrimSpace(r.Message) == "" {
		return NewValidationError("message is required")
	}
	if len(r.Message) > maxSMSBody {
		return NewValidationError("message exceeds maximum length")
	}
	if len(r.GroupIDs) == 0 && len(r.ManualPhoneNumbers) == 0 {
		return NewValidationError("at least one group or manual phone number is required")
	}
	return nil
}

// EmailAttachmentInput is a base64 attachment as submitted by the API
type EmailAttachmentInput struct {
	Content  string `json:"content"` // base64
	Filename string `json:"filename"`
	Type     string `json:"type"`
}

// Validate checks one attachment input.
func (a *EmailAttachmentInput) Validate() error {
	if a.Filename == "" {
		return NewValidationError("attachment filename is required")
	}
	if a.Content == "" || !govalidator.IsBase64(a.Content) {
		return NewValidationError("attachment content must be base64")
	}
	return nil
}

// SendEmailRequest is the payload for immediate and scheduled email
// broadcasts. Manual recipients may be tagged cc/bcc; group-derived
// addresses always go to the to field.
type SendEmailRequest struct {
	GroupIDs         []string               `json:"group_ids,omitempty"`
	ManualRecipients []string               `json:"manual_recipients,omitempty"`
	CC               []string               `json:"cc,omitempty"`
	BCC              []string               `json:"bcc,omitempty"`
	Subject          string                 `json:"subject"`
	HTML             string                 `json:"html"`
	Text             string                 `json:"text,omitempty"`
	Attachments      []EmailAttachmentInput `json:"attachments,omitempty"`
	ScheduledFor     *time.Time             `json:"scheduled_for,omitempty"`
}

// Validate checks the request.
func (r *SendEmailRequest) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return NewValidationError("subject is required")
	}
	if strings.TrimSpace(r.HTML) == "" && strings.TrimSpace(r.Text) == "" {
		return NewValidationError("html or text body is required")
	}
	if len(r.GroupIDs) == 0 && len(r.ManualRecipients) == 0 {
		return NewValidationError("at least one group or manual recipient is required")
	}
	for i := range r.Attachments {
		if err := r.Attachments[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Recording methods accepted by the robocall endpoint
const (
	RecordingMethodTTS    = "tts"    // synthesize text_content
	RecordingMethodAudio  = "audio"  // replay an already-uploaded recording
	RecordingMethodUpload = "upload" // upload audio_file, then replay it
)

// SendVoiceRequest is the payload for immediate and scheduled
// robocall broadcasts.
type SendVoiceRequest struct {
	RecordingMethod    string     `json:"recording_method"`
	TextContent        string     `json:"text_content,omitempty"`
	AudioPath          string     `json:"audio_path,omitempty"`
	AudioFile          string     `json:"audio_file,omitempty"` // base64
	GroupIDs           []string   `json:"group_ids,omitempty"`
	ManualPhoneNumbers []string   `json:"manual_phone_numbers,omitempty"`
	ScheduledFor       *time.Time `json:"scheduled_for,omitempty"`
}

// Validate checks the request.
func (r *SendVoiceRequest) Validate() error {
	switch r.RecordingMethod {
	case RecordingMethodTTS:
		if strings.TrimSpace(r.TextContent) == "" {
			return NewValidationError("text_content is required for tts calls")
		}
	case RecordingMethodAudio:
		if r.AudioPath == "" {
			return NewValidationError("audio_path is required for audio calls")
		}
	case RecordingMethodUpload:
		if r.AudioFile == "" || !govalidator.IsBase64(r.AudioFile) {
			return NewValidationError("audio_file must be base64")
		}
	default:
		return NewValidationError("recording_method must be tts, audio or upload")
	}
	if len(r.GroupIDs) == 0 && len(r.ManualPhoneNumbers) == 0 {
		return NewValidationError("at least one group or manual phone number is required")
	}
	return nil
}

// SendError reports one recipient's failure inside an otherwise
// completed send.
type SendError struct {
	Address string `json:"address"`
	Error   string `json:"error"`
}

// SendResult is the outcome of a completed (non-scheduled) send.
// A partial failure still yields a result so the caller always learns
// the exact counts.
type SendResult struct {
	MessageID       string          `json:"message_id"`
	Status          AggregateStatus `json:"status"`
	TotalRecipients int             `json:"total_recipients"`
	SuccessCount    int             `json:"success_count"`
	FailCount       int             `json:"fail_count"`
	Errors          []SendError     `json:"errors,omitempty"`
}

// ScheduleResult is returned when a send is deferred instead of
// executed.
type ScheduleResult struct {
	ScheduledID  string          `json:"scheduled_id"`
	Status       ScheduledStatus `json:"status"`
	ScheduledFor time.Time       `json:"scheduled_for"`
}

// RecipientDetails is the recipient-detail view for one message.
type RecipientDetails struct {
	Message    Message         `json:"message"`
	Recipients []*RecipientLog `json:"recipients"`
	Summary    RecipientCounts `json:"summary"`
}

// RecipientCounts summarizes the logs of a message. For a consistent
// ledger the counts equal the message's stored aggregates.
type RecipientCounts struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
