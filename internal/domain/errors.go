package domain

import (
	"fmt"
)

// Common error types
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// ErrNoRecipients is returned when recipient resolution yields zero
// addresses. It is raised before any gateway call is attempted.
var ErrNoRecipients = NewValidationError("no recipients resolved for send")

// ErrScheduledImmutable is returned when a scheduled send is edited or
// cancelled after the sweep has claimed it.
type ErrScheduledImmutable struct {
	ID     string
	Status ScheduledStatus
}

func (e *ErrScheduledImmutable) Error() string {
	return fmt.Sprintf("scheduled message %s is %s and can no longer be modified", e.ID, e.Status)
}

// GatewayError carries the provider error code and message for a
// failed delivery attempt, e.g. Twilio error 21211 for an invalid
// destination number.
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("gateway error: %s", e.Message)
}
