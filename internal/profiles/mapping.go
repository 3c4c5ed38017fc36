package profiles

import (
	"net/url"

	"github.com/technexus/emblem/pkg/query"
	"github.com/technexus/emblem/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "profiles", "p").
	Project("id", "ID").
	Project("email", "Email").
	Project("first_name", "FirstName").
	Project("last_name", "LastName").
	Project("designation", "Designation").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field: "email",
}

// Filters contains optional filtering criteria for profile queries.
// Nil fields are ignored. Designation uses exact matching, Email uses
// case-insensitive contains matching.
type Filters struct {
	Email       *string `json:"email,omitempty"`
	Designation *string `json:"designation,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Email", f.Email).
		WhereEquals("Designation", f.Designation)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if e := values.Get("email"); e != "" {
		f.Email = &e
	}

	if d := values.Get("designation"); d != "" {
		f.Designation = &d
	}

	return f
}

func scanProfile(s repository.Scanner) (Profile, error) {
	var p Profile
	err := s.Scan(
		&p.ID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.Designation,
		&p.CreatedAt,
	)
	return p, err
}
