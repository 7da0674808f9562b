package applications

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError indicates the application does not exist
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("application not found: %s", e.ID)
}

// ValidationError indicates an intake field was rejected
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
