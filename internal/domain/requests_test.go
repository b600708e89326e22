package domain

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSMSRequestValidate(t *testing.T) {
	t.Run("valid group send", func(t *testing.T) {
		req := &SendSMSRequest{GroupID: "grade-1", Message: "School closes early"}
		require.NoError(t, req.Validate())
		assert.Equal(t, []string{"grade-1"}, req.GroupIDs)
	})

	t.Run("group_id not duplicated into group_ids", func(t *testing.T) {
		req := &SendSMSRequest{
			GroupID:  "grade-1",
			GroupIDs: []string{"grade-1", "grade-2"},
			Message:  "hello",
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, []string{"grade-1", "grade-2"}, req.GroupIDs)
	})

	t.Run("missing message", func(t *testing.T) {
		req := &SendSMSRequest{GroupID: "grade-1", Message: "  "}
		assert.Error(t, req.Validate())
	})

	t.Run("message too long", func(t *testing.T) {
		req := &SendSMSRequest{GroupID: "grade-1", Message: strings.Repeat("x", maxSMSBody+1)}
		assert.Error(t, req.Validate())
	})

	t.Run("no recipients", func(t *testing.T) {
		req := &SendSMSRequest{Message: "hello"}
		assert.Error(t, req.Validate())
	})

	t.Run("manual only is valid", func(t *testing.T) {
		req := &SendSMSRequest{ManualPhoneNumbers: []string{"+17325559999"}, Message: "hello"}
		assert.NoError(t, req.Validate())
	})
}

func TestSendEmailRequestValidate(t *testing.T) {
	valid := func() *SendEmailRequest {
		return &SendEmailRequest{
			GroupIDs: []string{"grade-1"},
			Subject:  "Early dismissal",
			HTML:     "<p>School closes early</p>",
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("text-only body is valid", func(t *testing.T) {
		req := valid()
		req.HTML = ""
		req.Text = "School closes early"
		assert.NoError(t, req.Validate())
	})

	t.Run("missing subject", func(t *testing.T) {
		req := valid()
		req.Subject = ""
		assert.Error(t, req.Validate())
	})

	t.Run("missing body", func(t *testing.T) {
		req := valid()
		req.HTML = ""
		assert.Error(t, req.Validate())
	})

	t.Run("no recipients", func(t *testing.T) {
		req := valid()
		req.GroupIDs = nil
		assert.Error(t, req.Validate())
	})

	t.Run("valid attachment", func(t *testing.T) {
		req := valid()
		req.Attachments = []EmailAttachmentInput{{
			Content:  base64.StdEncoding.EncodeToString([]byte("pdf-bytes")),
			Filename: "notice.pdf",
			Type:     "application/pdf",
		}}
		assert.NoError(t, req.Validate())
	})

	t.Run("attachment without filename", func(t *testing.T) {
		req := valid()
		req.Attachments = []EmailAttachmentInput{{Content: "aGVsbG8="}}
		assert.Error(t, req.Validate())
	})

	t.Run("attachment with invalid base64", func(t *testing.T) {
		req := valid()
		req.Attachments = []EmailAttachmentInput{{Content: "!!not-base64!!", Filename: "a.pdf"}}
		assert.Error(t, req.Validate())
	})
}

func TestSendVoiceRequestValidate(t *testing.T) {
	t.Run("tts requires text", func(t *testing.T) {
		req := &SendVoiceRequest{RecordingMethod: RecordingMethodTTS, GroupIDs: []string{"g"}}
		assert.Error(t, req.Validate())

		req.TextContent = "School closes at noon"
		assert.NoError(t, req.Validate())
	})

	t.Run("audio requires path", func(t *testing.T) {
		req := &SendVoiceRequest{RecordingMethod: RecordingMethodAudio, GroupIDs: []string{"g"}}
		assert.Error(t, req.Validate())

		req.AudioPath = "recordings/abc.mp3"
		assert.NoError(t, req.Validate())
	})

	t.Run("upload requires base64 file", func(t *testing.T) {
		req := &SendVoiceRequest{RecordingMethod: RecordingMethodUpload, GroupIDs: []string{"g"}}
		assert.Error(t, req.Validate())

		req.AudioFile = base64.StdEncoding.EncodeToString([]byte("mp3-bytes"))
		assert.NoError(t, req.Validate())
	})

	t.Run("unknown recording method", func(t *testing.T) {
		req := &SendVoiceRequest{RecordingMethod: "whistle", GroupIDs: []string{"g"}}
		assert.Error(t, req.Validate())
	})

	t.Run("no recipients", func(t *testing.T) {
		req := &SendVoiceRequest{RecordingMethod: RecordingMethodTTS, TextContent: "hi"}
		assert.Error(t, req.Validate())
	})
}

func TestResolvedEmailAudience(t *testing.T) {
	audience := &ResolvedEmailAudience{
		GroupTo:  []string{"a@example.com", "b@example.com"},
		ManualTo: []string{"c@example.com"},
		CC:       []string{"office@school.org"},
	}

	assert.Equal(t, 3, audience.Total())
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, audience.Recipients())
}

func TestSendResultScheduledForPassthrough(t *testing.T) {
	at := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	res := ScheduleResult{ScheduledID: "sched-1", Status: ScheduledStatusPending, ScheduledFor: at}
	assert.Equal(t, at, res.ScheduledFor)
}
