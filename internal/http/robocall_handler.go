package http

import (
	"context"
	"net/http"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// VoiceBroadcastService is the send side consumed by the robocall
// handler
type VoiceBroadcastService interface {
	Send(ctx context.Context, req *domain.SendVoiceRequest, sentBy domain.SenderIdentity) (*domain.SendResult, error)
	Schedule(ctx context.Context, req *domain.SendVoiceRequest, sentBy domain.SenderIdentity) (*domain.ScheduleResult, error)
	UpdateScheduled(ctx context.Context, id string, req *domain.SendVoiceRequest) (*domain.ScheduledMessage, error)
}

// RobocallHandler handles HTTP requests for voice broadcasts
type RobocallHandler struct {
	service  VoiceBroadcastService
	messages MessageReadService
	logger   logger.Logger
}

// NewRobocallHandler creates a new robocall handler
func NewRobocallHandler(service VoiceBroadcastService, messages MessageReadService, logger logger.Logger) *RobocallHandler {
	return &RobocallHandler{
		service:  service,
		messages: messages,
		logger:   logger,
	}
}

// RegisterRoutes registers the robocall HTTP endpoints
func (h *RobocallHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/robocall", h.handleSend)
	mux.HandleFunc("GET /api/robocall", h.handleList)
	mux.HandleFunc("GET /api/robocall/{id}", h.handleGet)
	mux.HandleFunc("GET /api/robocall/{id}/recipients", h.handleRecipients)
	mux.HandleFunc("PUT /api/robocall/scheduled/{id}", h.handleUpdateScheduled)
}

func (h *RobocallHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req domain.SendVoiceRequest
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

func (h *RobocallHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	messages, total, err := h.messages.List(r.Context(), domain.ChannelVoice, limit, offset)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: messages, Total: total})
}

func (h *RobocallHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	message, err := h.messages.Get(r.Context(), domain.ChannelVoice, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, message)
}

func (h *RobocallHandler) handleRecipients(w http.ResponseWriter, r *http.Request) {
	details, err := h.messages.RecipientDetails(r.Context(), domain.ChannelVoice, r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *RobocallHandler) handleUpdateScheduled(w http.ResponseWriter, r *http.Request) {
	var req domain.SendVoiceRequest
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
