package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingSMS(t *testing.T, scheduledFor time.Time) *ScheduledMessage {
	t.Helper()
	sm := &ScheduledMessage{
		ID:           "sched-1",
		Channel:      ChannelSMS,
		GroupIDs:     StringSlice{"grade-1"},
		ScheduledFor: scheduledFor,
		Status:       ScheduledStatusPending,
		SentBy:       SenderIdentity{ID: "admin-1", Name: "Principal"},
	}
	require.NoError(t, sm.SetContent(SMSContent{Body: "Snow day tomorrow"}))
	return sm
}

func TestScheduledMessageValidate(t *testing.T) {
	now := time.Now()

	t.Run("valid future send", func(t *testing.T) {
		sm := newPendingSMS(t, now.Add(time.Hour))
		assert.NoError(t, sm.Validate(now))
	})

	t.Run("past scheduled_for rejected", func(t *testing.T) {
		sm := newPendingSMS(t, now.Add(-time.Minute))
		err := sm.Validate(now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduled_for must be in the future")
	})

	t.Run("scheduled_for equal to now rejected", func(t *testing.T) {
		sm := newPendingSMS(t, now)
		assert.Error(t, sm.Validate(now))
	})

	t.Run("no recipients rejected", func(t *testing.T) {
		sm := newPendingSMS(t, now.Add(time.Hour))
		sm.GroupIDs = nil
		sm.ManualRecipients = nil
		assert.Error(t, sm.Validate(now))
	})

	t.Run("missing content rejected", func(t *testing.T) {
		sm := newPendingSMS(t, now.Add(time.Hour))
		sm.Payload = nil
		assert.Error(t, sm.Validate(now))
	})

	t.Run("invalid channel rejected", func(t *testing.T) {
		sm := newPendingSMS(t, now.Add(time.Hour))
		sm.Channel = Channel("fax")
		assert.Error(t, sm.Validate(now))
	})
}

func TestScheduledMessageMutability(t *testing.T) {
	sm := newPendingSMS(t, time.Now().Add(time.Hour))

	assert.True(t, sm.IsMutable())
	assert.False(t, sm.IsTerminal())

	sm.Status = ScheduledStatusProcessing
	assert.False(t, sm.IsMutable())
	assert.False(t, sm.IsTerminal())

	for _, status := range []ScheduledStatus{
		ScheduledStatusSent, ScheduledStatusPartial, ScheduledStatusFailed, ScheduledStatusCancelled,
	} {
		sm.Status = status
		assert.False(t, sm.IsMutable(), string(status))
		assert.True(t, sm.IsTerminal(), string(status))
	}
}

func TestTerminalScheduledStatus(t *testing.T) {
	assert.Equal(t, ScheduledStatusSent, TerminalScheduledStatus(AggregateStatusSent))
	assert.Equal(t, ScheduledStatusPartial, TerminalScheduledStatus(AggregateStatusPartial))
	assert.Equal(t, ScheduledStatusFailed, TerminalScheduledStatus(AggregateStatusFailed))
}

func TestScheduledContentRoundTrip(t *testing.T) {
	t.Run("sms", func(t *testing.T) {
		sm := newPendingSMS(t, time.Now().Add(time.Hour))
		content, err := sm.SMSContent()
		require.NoError(t, err)
		assert.Equal(t, "Snow day tomorrow", content.Body)

		// Wrong-channel accessors are rejected
		_, err = sm.EmailContent()
		assert.Error(t, err)
		_, err = sm.VoiceContent()
		assert.Error(t, err)
	})

	t.Run("email with attachments", func(t *testing.T) {
		sm := &ScheduledMessage{ID: "sched-2", Channel: ChannelEmail}
		require.NoError(t, sm.SetContent(EmailContent{
			Subject: "Report cards",
			HTML:    "<p>Attached</p>",
			CC:      StringSlice{"office@school.org"},
			Attachments: []EmailAttachment{
				{Filename: "q1.pdf", ContentType: "application/pdf", Content: []byte("pdf-bytes")},
			},
		}))

		content, err := sm.EmailContent()
		require.NoError(t, err)
		assert.Equal(t, "Report cards", content.Subject)
		require.Len(t, content.Attachments, 1)
		assert.Equal(t, []byte("pdf-bytes"), content.Attachments[0].Content)

		meta := content.Attachments[0].Meta()
		assert.Equal(t, "q1.pdf", meta.Filename)
		assert.Equal(t, len("pdf-bytes"), meta.Size)
	})

	t.Run("voice", func(t *testing.T) {
		sm := &ScheduledMessage{ID: "sched-3", Channel: ChannelVoice}
		require.NoError(t, sm.SetContent(VoiceContent{Mode: VoiceModeTTS, Text: "School closes at noon"}))

		content, err := sm.VoiceContent()
		require.NoError(t, err)
		assert.Equal(t, VoiceModeTTS, content.Mode)
		assert.Equal(t, "School closes at noon", content.Text)
	})
}
