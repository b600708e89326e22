package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/internal/service"
	"github.com/schoolcast/schoolcast/pkg/logger"
	"github.com/schoolcast/schoolcast/pkg/ratelimiter"
)

// schedulerTokenHeader authenticates the sweep trigger. The endpoint
// is meant for a time-based trigger, not a human session.
const schedulerTokenHeader = "X-Scheduler-Token"

const sweepRateNamespace = "scheduler_sweep"

// SchedulerAPI is the scheduled-broadcast surface consumed by the
// handler
type SchedulerAPI interface {
	Sweep(ctx context.Context, now time.Time) (*service.SweepResult, error)
	List(ctx context.Context, limit, offset int) ([]*domain.ScheduledMessage, int, error)
	Get(ctx context.Context, id string) (*domain.ScheduledMessage, error)
	Cancel(ctx context.Context, id string) error
}

// SchedulerHandler handles HTTP requests for scheduled broadcasts and
// the sweep trigger
type SchedulerHandler struct {
	service     SchedulerAPI
	token       string
	rateLimiter *ratelimiter.RateLimiter
	logger      logger.Logger
}

// NewSchedulerHandler creates a new scheduler handler. The rate
// limiter keeps a misfiring trigger from stacking sweeps.
func NewSchedulerHandler(service SchedulerAPI, token string, rateLimiter *ratelimiter.RateLimiter, logger logger.Logger) *SchedulerHandler {
	rateLimiter.SetPolicy(sweepRateNamespace, 2, time.Minute)
	return &SchedulerHandler{
		service:     service,
		token:       token,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// RegisterRoutes registers the scheduler HTTP endpoints
func (h *SchedulerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/scheduler/sweep", h.handleSweep)
	mux.HandleFunc("GET /api/scheduled", h.handleList)
	mux.HandleFunc("GET /api/scheduled/{id}", h.handleGet)
	mux.HandleFunc("DELETE /api/scheduled/{id}", h.handleCancel)
}

// handleSweep authenticates the trigger and runs one sweep. The token
// check happens before any record is touched.
func (h *SchedulerHandler) handleSweep(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(schedulerTokenHeader)
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if !h.rateLimiter.Allow(sweepRateNamespace, token) {
		retryAfter := h.rateLimiter.GetRemainingWindow(sweepRateNamespace, token)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		WriteJSONError(w, "Sweep already running, retry later", http.StatusTooManyRequests)
		return
	}

	result, err := h.service.Sweep(r.Context(), time.Now().UTC())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SchedulerHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	scheduled, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: scheduled, Total: total})
}

func (h *SchedulerHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	scheduled, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduled)
}

func (h *SchedulerHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), r.PathValue("id")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
