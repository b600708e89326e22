package http

import (
	"context"
	"net/http"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// SMSBroadcastService is the send side consumed by the SMS handler
type SMSBroadcastService interface {
	Send(ctx context.Context, req *domain.SendSMSRequest, sentBy domain.SenderIdentity) (*domain.SendResult, error)
	Schedule(ctx context.Context, req *domain.SendSMSRequest, sentBy domain.SenderIdentity) (*domain.ScheduleResult, error)
	UpdateScheduled(ctx context.Context, id string, req *domain.SendSMSRequest) (*domain.ScheduledMessage, error)
}

// MessageReadService is the history side shared by the channel handlers
type MessageReadService interface {
	List(ctx context.Context, channel domain.Channel, limit, offset int) ([]domain.Message, int, error)
	Get(ctx context.Context, channel domain.Channel, id string) (domain.Message, error)
	RecipientDetails(ctx context.Context, channel domain.Channel, id string) (*domain.RecipientDetails, error)
}

// listResponse is the paginated shape of every history listing
type listResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// SMSHandler handles HTTP requests for SMS broadcasts
type SMSHandler struct {
	service  SMSBroadcastService
	messages MessageReadService
	logger   logger.Logger
}

// NewSMSHandler creates a new SMS handler
func NewSMSHandler(service SMSBroadcastService, messages MessageReadService, logger logger.Logger) *SMSHandler {
	return &SMSHandler{
		service:  service,
		messages: messages,
		logger:   logger,
	}
}

// RegisterRoutes registers the SMS HTTP endpoints
func (h *SMSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sms", h.handleSend)
	mux.HandleFunc("GET /api/sms", h.handleList)
	mux.HandleFunc("GET /api/sms/{id}", h.handleGet)
	mux.HandleFunc("GET /api/sms/{id}/recipients", h.handleRecipients)
	mux.HandleFunc("PUT /api/sms/scheduled/{id}", h.handleUpdateScheduled)
}

// handleSend executes a broadcast, or defers it when scheduled_for is
// set.
func (h *SMSHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req domain.SendSMSRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	sentBy := senderFromRequest(r)

	if req.ScheduledFor != nil {
		result, err := h.service.Schedule(r.Context(), &req, sentBy)
		if err != nil {
			handleServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusAccepted, result)
		return
	}

	result, err := h.service.Send(r.Context(), &req, sentBy)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeSendResult(w, result)
}

func (h *SMSHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	messages, total, err := h.messages.List(r.Context(), domain.ChannelSMS, limit, offset)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: messages, Total: total})
}

func (h *SMSHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	message, err := h.messages.Get(r.Context(), domain.ChannelSMS, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, message)
}

func (h *SMSHandler) handleRecipients(w http.ResponseWriter, r *http.Request) {
	details, err := h.messages.RecipientDetails(r.Context(), domain.ChannelSMS, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *SMSHandler) handleUpdateScheduled(w http.ResponseWriter, r *http.Request) {
	var req domain.SendSMSRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	scheduled, err := h.service.UpdateScheduled(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduled)
}
