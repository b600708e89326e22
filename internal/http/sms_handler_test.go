package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// stubSMSService scripts the broadcast side of the SMS handler
type stubSMSService struct {
	sendResult     *domain.SendResult
	sendErr        error
	sentBy         domain.SenderIdentity
	scheduleResult *domain.ScheduleResult
	scheduleErr    error
	updateResult   *domain.ScheduledMessage
	updateErr      error
}

func (s *stubSMSService) Send(_ context.Context, _ *domain.SendSMSRequest, sentBy domain.SenderIdentity) (*domain.SendResult, error) {
	s.sentBy = sentBy
	return s.sendResult, s.sendErr
}

func (s *stubSMSService) Schedule(_ context.Context, _ *domain.SendSMSRequest, _ domain.SenderIdentity) (*domain.ScheduleResult, error) {
	return s.scheduleResult, s.scheduleErr
}

func (s *stubSMSService) UpdateScheduled(_ context.Context, _ string, _ *domain.SendSMSRequest) (*domain.ScheduledMessage, error) {
	return s.updateResult, s.updateErr
}

// stubMessageReader scripts the history side shared by channel handlers
type stubMessageReader struct {
	messages   []domain.Message
	total      int
	message    domain.Message
	details    *domain.RecipientDetails
	err        error
	gotChannel domain.Channel
}

func (s *stubMessageReader) List(_ context.Context, channel domain.Channel, _, _ int) ([]domain.Message, int, error) {
	s.gotChannel = channel
	return s.messages, s.total, s.err
}

func (s *stubMessageReader) Get(_ context.Context, channel domain.Channel, _ string) (domain.Message, error) {
	s.gotChannel = channel
	return s.message, s.err
}

func (s *stubMessageReader) RecipientDetails(_ context.Context, channel domain.Channel, _ string) (*domain.RecipientDetails, error) {
	s.gotChannel = channel
	return s.details, s.err
}

func newSMSMux(service *stubSMSService, messages *stubMessageReader) *http.ServeMux {
	mux := http.NewServeMux()
	NewSMSHandler(service, messages, logger.NewMockLogger()).RegisterRoutes(mux)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSMSHandler_Send(t *testing.T) {
	t.Run("clean send returns 200", func(t *testing.T) {
		service := &stubSMSService{sendResult: &domain.SendResult{
			MessageID:       "msg-1",
			Status:          domain.AggregateStatusSent,
			TotalRecipients: 2,
			SuccessCount:    2,
		}}
		mux := newSMSMux(service, &stubMessageReader{})

		rec := postJSON(t, mux, "/api/sms", domain.SendSMSRequest{
			GroupIDs: []string{"g1"},
			Message:  "hello",
		}, map[string]string{"X-Sender-Id": "u1", "X-Sender-Name": "Front Office"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", service.sentBy.ID)

		var result domain.SendResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "msg-1", result.MessageID)
	})

	t.Run("partial outcome returns 207 with the counts", func(t *testing.T) {
		mux := newSMSMux(&stubSMSService{sendResult: &domain.SendResult{
			MessageID:       "msg-1",
			Status:          domain.AggregateStatusPartial,
			TotalRecipients: 3,
			SuccessCount:    2,
			FailCount:       1,
			Errors:          []domain.SendError{{Address: "2015550177", Error: "Invalid 'To' Phone Number"}},
		}}, &stubMessageReader{})

		rec := postJSON(t, mux, "/api/sms", domain.SendSMSRequest{GroupIDs: []string{"g1"}, Message: "hello"}, nil)

		assert.Equal(t, http.StatusMultiStatus, rec.Code)
		var result domain.SendResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 1, result.FailCount)
		assert.Len(t, result.Errors, 1)
	})

	t.Run("all failed returns 500 with the counts", func(t *testing.T) {
		mux := newSMSMux(&stubSMSService{sendResult: &domain.SendResult{
			MessageID: "msg-1",
			Status:    domain.AggregateStatusFailed,
			FailCount: 2,
		}}, &stubMessageReader{})

		rec := postJSON(t, mux, "/api/sms", domain.SendSMSRequest{GroupIDs: []string{"g1"}, Message: "hello"}, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("validation failure returns 400", func(t *testing.T) {
		mux := newSMSMux(&stubSMSService{sendErr: domain.NewValidationError("message is required")}, &stubMessageReader{})

		rec := postJSON(t, mux, "/api/sms", domain.SendSMSRequest{GroupIDs: []string{"g1"}}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no recipients returns 400", func(t *testing.T) {
		mux := newSMSMux(&stubSMSService{sendErr: domain.ErrNoRecipients}, &stubMessageReader{})

		rec := postJSON(t, mux, "/api/sms", domain.SendSMSRequest{GroupIDs: []string{"g1"}, Message: "hello"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("scheduled_for defers instead of sending", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		mux := newSMSMux(&stubSMSService{scheduleResult: &domain.ScheduleResult{
			ScheduledID:  "sched-1",
			Status:       domain.ScheduledStatusPending,
			ScheduledFor: future,
		}}, &stubMessageReader{})

		rec := postJSON(t, mux, "/api/sms", domain.SendSMSRequest{
			GroupIDs:     []string{"g1"},
			Message:      "hello",
			ScheduledFor: &future,
		}, nil)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		var result domain.ScheduleResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "sched-1", result.ScheduledID)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		mux := newSMSMux(&stubSMSService{}, &stubMessageReader{})

		req := httptest.NewRequest(http.MethodPost, "/api/sms", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSMSHandler_History(t *testing.T) {
	t.Run("list queries the sms channel", func(t *testing.T) {
		messages := &stubMessageReader{total: 1, messages: []domain.Message{
			&domain.SMSMessage{MessageRecord: domain.MessageRecord{ID: "msg-1", Channel: domain.ChannelSMS}},
		}}
		mux := newSMSMux(&stubSMSService{}, messages)

		req := httptest.NewRequest(http.MethodGet, "/api/sms?limit=5", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.ChannelSMS, messages.gotChannel)
	})

	t.Run("unknown message returns 404", func(t *testing.T) {
		messages := &stubMessageReader{err: &domain.ErrNotFound{Entity: "message", ID: "missing"}}
		mux := newSMSMux(&stubSMSService{}, messages)

		req := httptest.NewRequest(http.MethodGet, "/api/sms/missing", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("recipients view returns logs and summary", func(t *testing.T) {
		messages := &stubMessageReader{details: &domain.RecipientDetails{
			Message: &domain.SMSMessage{MessageRecord: domain.MessageRecord{ID: "msg-1", Channel: domain.ChannelSMS}},
			Recipients: []*domain.RecipientLog{
				{ID: "l1", MessageID: "msg-1", Address: "7325550101", Status: domain.RecipientStatusSent},
			},
			Summary: domain.RecipientCounts{Total: 1, Success: 1},
		}}
		mux := newSMSMux(&stubSMSService{}, messages)

		req := httptest.NewRequest(http.MethodGet, "/api/sms/msg-1/recipients", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "7325550101")
	})
}

func TestSMSHandler_UpdateScheduled(t *testing.T) {
	t.Run("claimed record returns 409", func(t *testing.T) {
		mux := newSMSMux(&stubSMSService{updateErr: &domain.ErrScheduledImmutable{
			ID:     "sched-1",
			Status: domain.ScheduledStatusProcessing,
		}}, &stubMessageReader{})

		payload, _ := json.Marshal(domain.SendSMSRequest{GroupIDs: []string{"g1"}, Message: "hello"})
		req := httptest.NewRequest(http.MethodPut, "/api/sms/scheduled/sched-1", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("pending record updates", func(t *testing.T) {
		mux := newSMSMux(&stubSMSService{updateResult: &domain.ScheduledMessage{
			ID:     "sched-1",
			Status: domain.ScheduledStatusPending,
		}}, &stubMessageReader{})

		payload, _ := json.Marshal(domain.SendSMSRequest{GroupIDs: []string{"g1"}, Message: "hello"})
		req := httptest.NewRequest(http.MethodPut, "/api/sms/scheduled/sched-1", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
