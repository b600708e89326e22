package domain

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_group_repository.go -package mocks github.com/schoolcast/schoolcast/internal/domain GroupRepository

// Group is a named collection of members addressable as one broadcast
// target. The optional PIN is used by the inbound shortcode flow.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PIN         string    `json:"pin,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks group fields before persistence
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return NewValidationError("group name is required")
	}
	if len(g.Name) > 255 {
		return NewValidationError("group name must be at most 255 characters")
	}
	if g.PIN != "" {
		if len(g.PIN) != 4 || !govalidator.IsNumeric(g.PIN) {
			return NewValidationError("group PIN must be exactly 4 digits")
		}
	}
	return nil
}

// Member is a contact entity belonging to exactly one group. The first
// element of each contact list is the primary for legacy display.
type Member struct {
	ID        string      `json:"id"`
	GroupID   string      `json:"group_id"`
	Name      string      `json:"name"`
	Emails    StringSlice `json:"emails"`
	Phones    StringSlice `json:"phones"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Validate normalizes the member's contact lists in place and enforces
// that at least one contact channel exists. This is the single-entity
// edit path: malformed values surface as errors instead of being
// silently dropped.
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return NewValidationError("member name is required")
	}
	if m.GroupID == "" {
		return NewValidationError("member group_id is required")
	}

	for i, raw := range m.Emails {
		email, err := NormalizeEmail(raw)
		if err != nil {
			return err
		}
		m.Emails[i] = email
	}

	for i, raw := range m.Phones {
		phone, err := NormalizePhone(raw)
		if err != nil {
			return err
		}
		m.Phones[i] = phone
	}

	if len(m.Emails) == 0 && len(m.Phones) == 0 {
		return NewValidationError("member requires at least one email or phone")
	}

	return nil
}

// PrimaryEmail returns the first email, or "" when none exist.
func (m *Member) PrimaryEmail() string {
	if len(m.Emails) > 0 {
		return m.Emails[0]
	}
	return ""
}

// PrimaryPhone returns the first phone, or "" when none exist.
func (m *Member) PrimaryPhone() string {
	if len(m.Phones) > 0 {
		return m.Phones[0]
	}
	return ""
}

// GroupRepository defines persistence for groups and their members.
// Deleting a group cascades its membership.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *Group) error
	GetGroup(ctx context.Context, id string) (*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)
	DeleteGroup(ctx context.Context, id string) error

	CreateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, id string) error

	// ListMembersByGroups returns the members of all given groups in
	// one query, for recipient resolution.
	ListMembersByGroups(ctx context.Context, groupIDs []string) ([]*Member, error)
}
