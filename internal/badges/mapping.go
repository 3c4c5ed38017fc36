package badges

import (
	"database/sql"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/query"
	"github.com/technexus/emblem/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "badges", "b").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("recipient_email", "RecipientEmail").
	Project("badge_name", "BadgeName").
	Project("event_name", "EventName").
	Project("badge_description", "BadgeDescription").
	Project("badge_image_url", "BadgeImageURL").
	Project("credential_id", "CredentialID").
	Project("issued_date", "IssuedDate").
	Project("created_at", "CreatedAt")

var adminProjection = query.
	NewProjectionMap("public", "badges", "b").
	Join("public", "profiles", "p", "LEFT JOIN", "p.id = b.user_id").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("recipient_email", "RecipientEmail").
	Project("badge_name", "BadgeName").
	Project("event_name", "EventName").
	Project("badge_description", "BadgeDescription").
	Project("badge_image_url", "BadgeImageURL").
	Project("credential_id", "CredentialID").
	Project("issued_date", "IssuedDate").
	Project("created_at", "CreatedAt").
	ProjectAs("p", "email", "HolderEmail").
	ProjectAs("p", "first_name", "HolderFirstName").
	ProjectAs("p", "last_name", "HolderLastName").
	ProjectAs("p", "designation", "HolderDesignation")

var defaultSort = query.SortField{
	Field:      "IssuedDate",
	Descending: true,
}

// Filters contains optional filtering criteria for admin badge queries.
// Nil fields are ignored. BadgeName and EventName use case-insensitive
// contains matching. Unclaimed restricts to badges without a holder.
type Filters struct {
	BadgeName *string `json:"badge_name,omitempty"`
	EventName *string `json:"event_name,omitempty"`
	Unclaimed *bool   `json:"unclaimed,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereContains("BadgeName", f.BadgeName).
		WhereContains("EventName", f.EventName)

	if f.Unclaimed != nil && *f.Unclaimed {
		b.WhereNull("UserID")
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("badge_name"); n != "" {
		f.BadgeName = &n
	}

	if e := values.Get("event_name"); e != "" {
		f.EventName = &e
	}

	if u := values.Get("unclaimed"); u != "" {
		if v, err := strconv.ParseBool(u); err == nil {
			f.Unclaimed = &v
		}
	}

	return f
}

func scanBadge(s repository.Scanner) (Badge, error) {
	var (
		b         Badge
		userID    uuid.NullUUID
		recipient sql.NullString
	)

	err := s.Scan(
		&b.ID,
		&userID,
		&recipient,
		&b.BadgeName,
		&b.EventName,
		&b.BadgeDescription,
		&b.BadgeImageURL,
		&b.CredentialID,
		&b.IssuedDate,
		&b.CreatedAt,
	)
	if err != nil {
		return b, err
	}

	if userID.Valid {
		b.UserID = &userID.UUID
	}
	if recipient.Valid {
		b.RecipientEmail = &recipient.String
	}

	return b, nil
}

func scanAdminBadge(s repository.Scanner) (AdminBadge, error) {
	var (
		a           AdminBadge
		userID      uuid.NullUUID
		recipient   sql.NullString
		email       sql.NullString
		firstName   sql.NullString
		lastName    sql.NullString
		designation sql.NullString
	)

	err := s.Scan(
		&a.ID,
		&userID,
		&recipient,
		&a.BadgeName,
		&a.EventName,
		&a.BadgeDescription,
		&a.BadgeImageURL,
		&a.CredentialID,
		&a.IssuedDate,
		&a.CreatedAt,
		&email,
		&firstName,
		&lastName,
		&designation,
	)
	if err != nil {
		return a, err
	}

	if userID.Valid {
		a.UserID = &userID.UUID
	}
	if recipient.Valid {
		a.RecipientEmail = &recipient.String
	}
	if email.Valid {
		a.HolderEmail = &email.String
	}
	if firstName.Valid {
		a.HolderFirstName = &firstName.String
	}
	if lastName.Valid {
		a.HolderLastName = &lastName.String
	}
	if designation.Valid {
		a.HolderDesignation = &designation.String
	}

	return a, nil
}
