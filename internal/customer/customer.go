package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a customer does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("customer not found")

// Customer is a billable party owned by a user.
type Customer struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
