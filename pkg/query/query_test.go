package query_test

import (
	"testing"

	"github.com/technexus/emblem/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "badges", "b").
		Project("id", "id").
		Project("badge_name", "badgeName").
		Project("issued_date", "issuedDate")
}

func ptr(s string) *string { return &s }

func TestProjectionMapFrom(t *testing.T) {
	p := testProjection()
	got := p.From()
	want := "public.badges b"
	if got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
}

func TestProjectionMapFromWithJoin(t *testing.T) {
	p := testProjection().
		Join("public", "profiles", "p", "LEFT JOIN", "p.id = b.user_id").
		ProjectAs("p", "email", "holderEmail")

	got := p.From()
	want := "public.badges b LEFT JOIN public.profiles p ON p.id = b.user_id"
	if got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}

	if col := p.Column("holderEmail"); col != "p.email" {
		t.Errorf("Column(holderEmail) = %q, want %q", col, "p.email")
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "b" {
		t.Errorf("Alias() = %q, want %q", got, "b")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "b.id, b.badge_name, b.issued_date"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "badgeName", "b.badge_name"},
		{"mapped camel", "issuedDate", "b.issued_date"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "badgeName",
			want:  []query.SortField{{Field: "badgeName", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-issuedDate",
			want:  []query.SortField{{Field: "issuedDate", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "badgeName,-issuedDate",
			want: []query.SortField{
				{Field: "badgeName", Descending: false},
				{Field: "issuedDate", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " badgeName , -issuedDate ",
			want: []query.SortField{
				{Field: "badgeName", Descending: false},
				{Field: "issuedDate", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "badgeName,,issuedDate",
			want: []query.SortField{
				{Field: "badgeName", Descending: false},
				{Field: "issuedDate", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSortFields(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.Build()

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.badges b"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "issuedDate", Descending: true})
	sql, args := b.BuildPage(2, 10)

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b ORDER BY b.issued_date DESC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want empty", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildSingle("id", "abc-123")

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b WHERE b.id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("badgeName", "Technical Mentor")
	sql, args := b.Build()

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b WHERE b.badge_name = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "Technical Mentor" {
		t.Errorf("args = %v, want [Technical Mentor]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("badgeName", nil)
	sql, args := b.Build()

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereEqualsNilPointerSkipped(t *testing.T) {
	var name *string
	b := query.NewBuilder(testProjection())
	b.WhereEquals("badgeName", name)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("badgeName", ptr("mentor"))
	sql, args := b.Build()

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b WHERE b.badge_name ILIKE $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%mentor%" {
		t.Errorf("args = %v, want [%%mentor%%]", args)
	}
}

func TestBuilderWhereContainsEmptySkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("badgeName", ptr(""))
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereNull(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereNull("badgeName")
	sql, args := b.Build()

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b WHERE b.badge_name IS NULL"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereSearch(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(ptr("hack"), "badgeName", "id")
	sql, args := b.Build()

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b WHERE (b.badge_name ILIKE $1 OR b.id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%hack%" || args[1] != "%hack%" {
		t.Errorf("args = %v, want [%%hack%% %%hack%%]", args)
	}
}

func TestBuilderWhereSearchNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(nil, "badgeName")
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("badgeName", "Top Contributor")
	b.WhereContains("id", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b WHERE b.badge_name = $1 AND b.id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 {
		t.Fatalf("args length = %d, want 2", len(args))
	}
	if args[0] != "Top Contributor" {
		t.Errorf("args[0] = %v, want Top Contributor", args[0])
	}
	if args[1] != "%abc%" {
		t.Errorf("args[1] = %v, want %%abc%%", args[1])
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "id", Descending: false})
	b.OrderByFields([]query.SortField{
		{Field: "issuedDate", Descending: true},
		{Field: "badgeName", Descending: false},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT b.id, b.badge_name, b.issued_date FROM public.badges b ORDER BY b.issued_date DESC, b.badge_name ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}
