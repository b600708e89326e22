package http

import (
	"context"
	"net/http"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// GroupAPI is the group-management surface consumed by the handler
type GroupAPI interface {
	CreateGroup(ctx context.Context, group *domain.Group) error
	GetGroup(ctx context.Context, id string) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]*domain.Group, error)
	DeleteGroup(ctx context.Context, id string) error
	AddMember(ctx context.Context, member *domain.Member) error
	RemoveMember(ctx context.Context, id string) error
	ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error)
}

// GroupHandler handles HTTP requests for groups and members
type GroupHandler struct {
	service GroupAPI
	logger  logger.Logger
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(service GroupAPI, logger logger.Logger) *GroupHandler {
	return &GroupHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the group HTTP endpoints
func (h *GroupHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/groups", h.handleCreate)
	mux.HandleFunc("GET /api/groups", h.handleList)
	mux.HandleFunc("GET /api/groups/{id}", h.handleGet)
	mux.HandleFunc("DELETE /api/groups/{id}", h.handleDelete)
	mux.HandleFunc("POST /api/groups/{id}/members", h.handleAddMember)
	mux.HandleFunc("GET /api/groups/{id}/members", h.handleListMembers)
	mux.HandleFunc("DELETE /api/members/{id}", h.handleRemoveMember)
}

func (h *GroupHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var group domain.Group
	if err := decodeJSON(r, &group); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	if err := h.service.CreateGroup(r.Context(), &group); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) handleList(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	group, err := h.service.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGroup(r.Context(), r.PathValue("id")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *GroupHandler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var member domain.Member
	if err := decodeJSON(r, &member); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	member.GroupID = r.PathValue("id")

	if err := h.service.AddMember(r.Context(), &member); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *GroupHandler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), r.PathValue("id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *GroupHandler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveMember(r.Context(), r.PathValue("id")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
