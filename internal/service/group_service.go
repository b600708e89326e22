package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// GroupService manages broadcast groups and their members.
type GroupService struct {
	repo   domain.GroupRepository
	logger logger.Logger
}

// NewGroupService creates a new group service
func NewGroupService(repo domain.GroupRepository, logger logger.Logger) *GroupService {
	return &GroupService{
		repo:   repo,
		logger: logger,
	}
}

// CreateGroup validates and persists a new group.
func (s *GroupService) CreateGroup(ctx context.Context, group *domain.Group) error {
	if err := group.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	group.ID = uuid.New().String()
	group.CreatedAt = now
	group.UpdatedAt = now

	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.WithField("group_id", group.ID).Info("Group created")
	return nil
}

// GetGroup returns one group.
func (s *GroupService) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return s.repo.GetGroup(ctx, id)
}

// ListGroups returns every group ordered by name.
func (s *GroupService) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	return s.repo.ListGroups(ctx)
}

// DeleteGroup removes a group and its membership.
func (s *GroupService) DeleteGroup(ctx context.Context, id string) error {
	if err := s.repo.DeleteGroup(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("group_id", id).Info("Group deleted")
	return nil
}

// AddMember validates and persists a member into an existing group.
// This is the single-entity path: malformed contacts are errors, not
// silent drops.
func (s *GroupService) AddMember(ctx context.Context, member *domain.Member) error {
	if _, err := s.repo.GetGroup(ctx, member.GroupID); err != nil {
		return err
	}
	if err := member.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	member.ID = uuid.New().String()
	member.CreatedAt = now
	member.UpdatedAt = now

	if err := s.repo.CreateMember(ctx, member); err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// RemoveMember deletes one member.
func (s *GroupService) RemoveMember(ctx context.Context, id string) error {
	return s.repo.DeleteMember(ctx, id)
}

// ListMembers returns the members of one group.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error) {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListMembersByGroups(ctx, []string{groupID})
}
