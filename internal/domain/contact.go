package domain

import (
	"strings"
)

// Phone normalization rules:
//   - all non-digit characters are stripped
//   - 10 digits is a domestic number; the country prefix is added at
//     the dispatcher boundary, not here
//   - 11+ digits already carry a country prefix and are kept with a
//     leading "+"
//   - fewer than 10 digits is not a deliverable number
//
// The normalized form is also the dedup key: "(732) 555-0101" and
// "7325550101" normalize to the same value.

// NormalizePhone canonicalizes a raw phone string. It returns a
// ValidationError for strings with fewer than 10 digits.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch {
	case len(d) == 10:
		return d, nil
	case len(d) >= 11:
		return "+" + d, nil
	default:
		return "", NewValidationError("invalid phone number: " + raw)
	}
}

// ToE164 converts a normalized phone into the gateway wire format.
// Domestic 10-digit numbers get the +1 prefix here.
func ToE164(normalized string) string {
	if strings.HasPrefix(normalized, "+") {
		return normalized
	}
	return "+1" + normalized
}

// NormalizeEmail canonicalizes a raw email string: trim whitespace,
// lower-case, and require a single "@" with non-empty local and
// domain parts. Validation here is deliberately minimal; the email
// gateway is the authority on deliverability.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))

	local, dom, found := strings.Cut(email, "@")
	if !found || local == "" || dom == "" || strings.Contains(dom, "@") {
		return "", NewValidationError("invalid email address: " + raw)
	}

	return email, nil
}

// NormalizePhones normalizes a list of raw phone strings for bulk
// paths, silently dropping invalid entries so one bad contact never
// aborts a broadcast. Returns the normalized list and the dropped raw
// values.
func NormalizePhones(raws []string) (normalized []string, dropped []string) {
	for _, raw := range raws {
		phone, err := NormalizePhone(raw)
		if err != nil {
			dropped = append(dropped, raw)
			continue
		}
		normalized = append(normalized, phone)
	}
	return normalized, dropped
}

// NormalizeEmails is the bulk-path counterpart of NormalizeEmail.
func NormalizeEmails(raws []string) (normalized []string, dropped []string) {
	for _, raw := range raws {
		email, err := NormalizeEmail(raw)
		if err != nil {
			dropped = append(dropped, raw)
			continue
		}
		normalized = append(normalized, email)
	}
	return normalized, dropped
}
