// Package profiles implements the registered-member domain. Profiles mirror
// accounts at the hosted identity provider (same id) and carry the display
// metadata the admin console joins against issued credentials.
package profiles

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a registered community member.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Designation string    `json:"designation"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisterCommand carries the data needed to register a profile.
// ID is the identity provider's account id; when zero a new id is assigned.
type RegisterCommand struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Designation string    `json:"designation"`
}
