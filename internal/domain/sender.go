package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SenderIdentity identifies who initiated a send. It is passed
// explicitly into the resolver, dispatcher and ledger calls rather
// than read from ambient request state.
type SenderIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Value implements the driver.Valuer interface for database storage
func (s SenderIdentity) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *SenderIdentity) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for SenderIdentity: %T", value)
	}

	return json.Unmarshal(b, s)
}
