// Package badges implements the credential domain: issuing digital badges
// to community members, listing and revoking them, and transferring badges
// issued against a bare email address once the recipient registers.
package badges

import (
	"time"

	"github.com/google/uuid"
)

// Badge represents an issued credential. Exactly one of UserID and
// RecipientEmail is set: UserID when the holder is registered,
// RecipientEmail when the badge awaits registration.
type Badge struct {
	ID               uuid.UUID  `json:"id"`
	UserID           *uuid.UUID `json:"user_id,omitempty"`
	RecipientEmail   *string    `json:"recipient_email,omitempty"`
	BadgeName        string     `json:"badge_name"`
	EventName        string     `json:"event_name"`
	BadgeDescription string     `json:"badge_description"`
	BadgeImageURL    string     `json:"badge_image_url"`
	CredentialID     string     `json:"credential_id,omitempty"`
	IssuedDate       time.Time  `json:"issued_date"`
	CreatedAt        time.Time  `json:"created_at"`
}

// AdminBadge is the console projection of a badge joined with its holder's
// profile. Holder fields are nil for unclaimed badges.
type AdminBadge struct {
	Badge
	HolderEmail       *string `json:"holder_email,omitempty"`
	HolderFirstName   *string `json:"holder_first_name,omitempty"`
	HolderLastName    *string `json:"holder_last_name,omitempty"`
	HolderDesignation *string `json:"holder_designation,omitempty"`
}

// IssueCommand carries the data needed to issue a badge. The recipient is
// addressed by email; resolution against registered profiles happens at
// issue time.
type IssueCommand struct {
	UserEmail        string `json:"user_email"`
	BadgeName        string `json:"badge_name"`
	EventName        string `json:"event_name"`
	BadgeDescription string `json:"badge_description"`
	BadgeImageURL    string `json:"badge_image_url"`
	CredentialID     string `json:"credential_id"`
}

// IssueResult reports the issued badge and whether the recipient still
// needs to register before the badge appears on a dashboard.
type IssueResult struct {
	Badge                Badge `json:"badge"`
	RequiresRegistration bool  `json:"requires_registration"`
}
