package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_recipient_resolver.go -package mocks github.com/schoolcast/schoolcast/internal/domain RecipientResolver

// ResolvedAudience is a deduplicated, normalized phone audience with
// provenance: which addresses came from groups and which were entered
// manually. An address appearing in both is kept once, attributed to
// its group source.
type ResolvedAudience struct {
	Addresses       []string `json:"addresses"`
	GroupAddresses  []string `json:"group_addresses"`
	ManualAddresses []string `json:"manual_addresses"`
	Dropped         []string `json:"dropped,omitempty"` // invalid raw values dropped on the bulk path
}

// ResolvedEmailAudience is the email counterpart. Group-derived
// addresses are always to, never bcc: each one gets its own gateway
// call, so isolation comes from per-call fan-out instead of blind
// copies. Manual to addresses were deliberately entered together and
// may share one call.
type ResolvedEmailAudience struct {
	GroupTo  []string `json:"group_to"`
	ManualTo []string `json:"manual_to"`
	CC       []string `json:"cc,omitempty"`
	BCC      []string `json:"bcc,omitempty"`
	Dropped  []string `json:"dropped,omitempty"`
}

// Recipients returns every to address, group-derived first.
func (a *ResolvedEmailAudience) Recipients() []string {
	out := make([]string, 0, len(a.GroupTo)+len(a.ManualTo))
	out = append(out, a.GroupTo...)
	out = append(out, a.ManualTo...)
	return out
}

// Total counts the to addresses. CC/BCC ride along on executing calls
// and are not counted as recipients.
func (a *ResolvedEmailAudience) Total() int {
	return len(a.GroupTo) + len(a.ManualTo)
}

// RecipientResolver expands group identifiers and manual entries into
// deduplicated channel audiences. Resolution happens fresh on every
// send, including the sweep, because membership may have changed since
// scheduling.
type RecipientResolver interface {
	// ResolvePhones builds the audience for sms and voice sends.
	// Returns ErrNoRecipients when nothing valid remains.
	ResolvePhones(ctx context.Context, groupIDs, manual []string) (*ResolvedAudience, error)

	// ResolveEmails builds the audience for email sends.
	// Returns ErrNoRecipients when no to address remains.
	ResolveEmails(ctx context.Context, groupIDs, manualTo, cc, bcc []string) (*ResolvedEmailAudience, error)
}
