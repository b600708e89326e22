package service

import (
	"context"
	"fmt"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// RecipientResolverService expands group memberships and manual
// entries into deduplicated audiences. Group members come first, then
// manual entries; an address appearing in both is kept once under its
// group provenance. Invalid raw values follow the bulk-path rule and
// are dropped, never aborting the broadcast.
type RecipientResolverService struct {
	groupRepo domain.GroupRepository
	logger    logger.Logger
}

// NewRecipientResolverService creates a new resolver backed by the
// group repository.
func NewRecipientResolverService(groupRepo domain.GroupRepository, logger logger.Logger) *RecipientResolverService {
	return &RecipientResolverService{
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// ResolvePhones builds the audience for sms and voice sends.
func (s *RecipientResolverService) ResolvePhones(ctx context.Context, groupIDs, manual []string) (*domain.ResolvedAudience, error) {
	audience := &domain.ResolvedAudience{}
	seen := make(map[string]bool)

	if len(groupIDs) > 0 {
		members, err := s.groupRepo.ListMembersByGroups(ctx, groupIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load group members: %w", err)
		}

		for _, member := range members {
			normalized, dropped := domain.NormalizePhones(member.Phones)
			audience.Dropped = append(audience.Dropped, dropped...)
			for _, phone := range normalized {
				if seen[phone] {
					continue
				}
				seen[phone] = true
				audience.GroupAddresses = append(audience.GroupAddresses, phone)
			}
		}
	}

	normalized, dropped := domain.NormalizePhones(manual)
	audience.Dropped = append(audience.Dropped, dropped...)
	for _, phone := range normalized {
		if seen[phone] {
			continue
		}
		seen[phone] = true
		audience.ManualAddresses = append(audience.ManualAddresses, phone)
	}

	audience.Addresses = append(audience.Addresses, audience.GroupAddresses...)
	audience.Addresses = append(audience.Addresses, audience.ManualAddresses...)

	if len(audience.Addresses) == 0 {
		return nil, domain.ErrNoRecipients
	}

	if len(audience.Dropped) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"dropped": len(audience.Dropped),
			"kept":    len(audience.Addresses),
		}).Warn("Dropped invalid phone numbers during resolution")
	}

	return audience, nil
}

// ResolveEmails builds the audience for email sends. CC and BCC ride
// along on executing envelopes and are not counted as recipients.
func (s *RecipientResolverService) ResolveEmails(ctx context.Context, groupIDs, manualTo, cc, bcc []string) (*domain.ResolvedEmailAudience, error) {
	audience := &domain.ResolvedEmailAudience{}
	seen := make(map[string]bool)

	if len(groupIDs) > 0 {
		members, err := s.groupRepo.ListMembersByGroups(ctx, groupIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load group members: %w", err)
		}

		for _, member := range members {
			normalized, dropped := domain.NormalizeEmails(member.Emails)
			audience.Dropped = append(audience.Dropped, dropped...)
			for _, email := range normalized {
				if seen[email] {
					continue
				}
				seen[email] = true
				audience.GroupTo = append(audience.GroupTo, email)
			}
		}
	}

	normalized, dropped := domain.NormalizeEmails(manualTo)
	audience.Dropped = append(audience.Dropped, dropped...)
	for _, email := range normalized {
		if seen[email] {
			continue
		}
		seen[email] = true
		audience.ManualTo = append(audience.ManualTo, email)
	}

	audience.CC, dropped = domain.NormalizeEmails(cc)
	audience.Dropped = append(audience.Dropped, dropped...)

	audience.BCC, dropped = domain.NormalizeEmails(bcc)
	audience.Dropped = append(audience.Dropped, dropped...)

	if audience.Total() == 0 {
		return nil, domain.ErrNoRecipients
	}

	if len(audience.Dropped) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"dropped": len(audience.Dropped),
			"kept":    audience.Total(),
		}).Warn("Dropped invalid email addresses during resolution")
	}

	return audience, nil
}
