package http

import (
	"context"
	"net/http"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// EmailBroadcastService is the send side consumed by the email handler
type EmailBroadcastService interface {
	Send(ctx context.Context, req *domain.SendEmailRequest, sentBy domain.SenderIdentity) (*domain.SendResult, error)
	Schedule(ctx context.Context, req *domain.SendEmailRequest, sentBy domain.SenderIdentity) (*domain.ScheduleResult, error)
	UpdateScheduled(ctx context.Context, id string, req *domain.SendEmailRequest) (*domain.ScheduledMessage, error)
}

// EmailHandler handles HTTP requests for email broadcasts
type EmailHandler struct {
	service  EmailBroadcastService
	messages MessageReadService
	logger   logger.Logger
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(service EmailBroadcastService, messages MessageReadService, logger logger.Logger) *EmailHandler {
	return &EmailHandler{
		service:  service,
		messages: messages,
		logger:   logger,
	}
}

// RegisterRoutes registers the email HTTP endpoints
func (h *EmailHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/email", h.handleSend)
	mux.HandleFunc("GET /api/email", h.handleList)
	mux.HandleFunc("GET /api/email/{id}", h.handleGet)
	mux.HandleFunc("GET /api/email/{id}/recipients", h.handleRecipients)
	mux.HandleFunc("PUT /api/email/scheduled/{id}", h.handleUpdateScheduled)
}

func (h *EmailHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req domain.SendEmailRequest
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

func (h *EmailHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	messages, total, err := h.messages.List(r.Context(), domain.ChannelEmail, limit, offset)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: messages, Total: total})
}

func (h *EmailHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	message, err := h.messages.Get(r.Context(), domain.ChannelEmail, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, message)
}

func (h *EmailHandler) handleRecipients(w http.ResponseWriter, r *http.Request) {
	details, err := h.messages.RecipientDetails(r.Context(), domain.ChannelEmail, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *EmailHandler) handleUpdateScheduled(w http.ResponseWriter, r *http.Request) {
	var req domain.SendEmailRequest
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
