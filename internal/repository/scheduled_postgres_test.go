package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/internal/repository/testutil"
)

var scheduledColumns = []string{
	"id", "channel", "group_ids", "manual_recipients", "payload", "scheduled_for",
	"status", "message_id", "error_message", "sent_by", "created_at", "updated_at",
}

func TestScheduledMessageRepository_Create(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewScheduledMessageRepository(db)

	scheduled := &domain.ScheduledMessage{
		ID:           "sched-1",
		Channel:      domain.ChannelSMS,
		GroupIDs:     domain.StringSlice{"group-1"},
		Payload:      json.RawMessage(`{"body":"Reminder"}`),
		ScheduledFor: time.Now().UTC().Add(2 * time.Hour),
		SentBy:       domain.SenderIdentity{ID: "user-1", Name: "Admin"},
	}

	mock.ExpectExec("INSERT INTO scheduled_messages").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), scheduled)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduledStatusPending, scheduled.Status)
	assert.False(t, scheduled.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledMessageRepository_Update(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewScheduledMessageRepository(db)

	scheduled := &domain.ScheduledMessage{
		ID:           "sched-1",
		Channel:      domain.ChannelSMS,
		GroupIDs:     domain.StringSlice{"group-1"},
		Payload:      json.RawMessage(`{"body":"Updated"}`),
		ScheduledFor: time.Now().UTC().Add(3 * time.Hour),
	}

	t.Run("applies while pending", func(t *testing.T) {
		mock.ExpectExec("UPDATE scheduled_messages").
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.Update(context.Background(), scheduled)
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("lost to a concurrent claim", func(t *testing.T) {
		mock.ExpectExec("UPDATE scheduled_messages").
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.Update(context.Background(), scheduled)
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestScheduledMessageRepository_Get(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewScheduledMessageRepository(db)
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(scheduledColumns).AddRow(
			"sched-1", "voice", []byte(`["group-1"]`), []byte(`[]`),
			[]byte(`{"mode":"tts","text":"School closes early"}`),
			now.Add(time.Hour), "pending", nil, nil,
			[]byte(`{"id":"user-1","name":"Admin"}`), now, now,
		)

		mock.ExpectQuery("SELECT (.+) FROM scheduled_messages").
			WithArgs("sched-1").
			WillReturnRows(rows)

		scheduled, err := repo.Get(context.Background(), "sched-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ChannelVoice, scheduled.Channel)
		assert.True(t, scheduled.IsMutable())

		content, err := scheduled.VoiceContent()
		require.NoError(t, err)
		assert.Equal(t, domain.VoiceModeTTS, content.Mode)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM scheduled_messages").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(scheduledColumns))

		scheduled, err := repo.Get(context.Background(), "missing")
		assert.Nil(t, scheduled)
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestScheduledMessageRepository_ListDue(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewScheduledMessageRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(scheduledColumns).AddRow(
		"sched-1", "sms", []byte(`[]`), []byte(`["7325550101"]`),
		[]byte(`{"body":"Due now"}`),
		now.Add(-time.Minute), "pending", nil, nil,
		[]byte(`{"id":"user-1","name":"Admin"}`), now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM scheduled_messages .* FOR UPDATE SKIP LOCKED").
		WithArgs(sqlmock.AnyArg(), 100).
		WillReturnRows(rows)

	due, err := repo.ListDue(context.Background(), now, 100)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "sched-1", due[0].ID)
}

func TestScheduledMessageRepository_Claim(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewScheduledMessageRepository(db)

	t.Run("wins while pending", func(t *testing.T) {
		mock.ExpectExec("UPDATE scheduled_messages").
			WithArgs(sqlmock.AnyArg(), "sched-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.Claim(context.Background(), "sched-1")
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("loses when already claimed", func(t *testing.T) {
		mock.ExpectExec("UPDATE scheduled_messages").
			WithArgs(sqlmock.AnyArg(), "sched-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := repo.Claim(context.Background(), "sched-1")
		require.NoError(t, err)
		assert.False(t, claimed)
	})
}

func TestScheduledMessageRepository_Cancel(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewScheduledMessageRepository(db)

	t.Run("cancels while pending", func(t *testing.T) {
		mock.ExpectExec("UPDATE scheduled_messages").
			WithArgs(sqlmock.AnyArg(), "sched-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		cancelled, err := repo.Cancel(context.Background(), "sched-1")
		require.NoError(t, err)
		assert.True(t, cancelled)
	})

	t.Run("rejected once processing", func(t *testing.T) {
		mock.ExpectExec("UPDATE scheduled_messages").
			WithArgs(sqlmock.AnyArg(), "sched-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		cancelled, err := repo.Cancel(context.Background(), "sched-1")
		require.NoError(t, err)
		assert.False(t, cancelled)
	})
}

func TestScheduledMessageRepository_Complete(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewScheduledMessageRepository(db)

	t.Run("records terminal state", func(t *testing.T) {
		messageID := "msg-1"
		mock.ExpectExec("UPDATE scheduled_messages").
			WithArgs(domain.ScheduledStatusSent, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "sched-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Complete(context.Background(), "sched-1", domain.ScheduledStatusSent, &messageID, nil)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE scheduled_messages").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Complete(context.Background(), "missing", domain.ScheduledStatusFailed, nil, nil)
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}
