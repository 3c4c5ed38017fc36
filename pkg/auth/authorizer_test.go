package auth_test

import (
	"errors"
	"testing"

	"github.com/technexus/emblem/pkg/auth"
)

func TestRoleAuthorizer(t *testing.T) {
	authz := auth.NewRoleAuthorizer("admin")

	tests := []struct {
		name    string
		id      *auth.Identity
		wantErr error
	}{
		{
			name: "matching role",
			id:   &auth.Identity{Subject: "sub", Role: "admin"},
		},
		{
			name:    "wrong role",
			id:      &auth.Identity{Subject: "sub", Role: "member"},
			wantErr: auth.ErrForbidden,
		},
		{
			name:    "empty role",
			id:      &auth.Identity{Subject: "sub"},
			wantErr: auth.ErrForbidden,
		},
		{
			name:    "nil identity",
			id:      nil,
			wantErr: auth.ErrNoToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.Authorize(tt.id, auth.CapabilityIssue)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Authorize() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authorize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllowlistAuthorizer(t *testing.T) {
	authz := auth.NewAllowlistAuthorizer([]string{
		"Admin@TechNexus.dev",
		"  ops@technexus.dev  ",
		"",
	})

	tests := []struct {
		name    string
		id      *auth.Identity
		wantErr error
	}{
		{
			name: "exact match",
			id:   &auth.Identity{Email: "ops@technexus.dev"},
		},
		{
			name: "case-insensitive match",
			id:   &auth.Identity{Email: "ADMIN@technexus.DEV"},
		},
		{
			name:    "not listed",
			id:      &auth.Identity{Email: "member@technexus.dev"},
			wantErr: auth.ErrForbidden,
		},
		{
			name:    "empty email",
			id:      &auth.Identity{},
			wantErr: auth.ErrForbidden,
		},
		{
			name:    "nil identity",
			id:      nil,
			wantErr: auth.ErrNoToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.Authorize(tt.id, auth.CapabilityRevoke)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Authorize() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authorize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigNewAuthorizer(t *testing.T) {
	t.Run("allowlist when emails configured", func(t *testing.T) {
		cfg := &auth.Config{AdminRole: "admin", AdminEmails: []string{"admin@technexus.dev"}}
		authz := cfg.NewAuthorizer()

		id := &auth.Identity{Email: "admin@technexus.dev", Role: "member"}
		if err := authz.Authorize(id, auth.CapabilityList); err != nil {
			t.Errorf("Authorize() error = %v, want nil", err)
		}
	})

	t.Run("role check otherwise", func(t *testing.T) {
		cfg := &auth.Config{AdminRole: "admin"}
		authz := cfg.NewAuthorizer()

		if err := authz.Authorize(&auth.Identity{Role: "admin"}, auth.CapabilityList); err != nil {
			t.Errorf("Authorize() error = %v, want nil", err)
		}
		if err := authz.Authorize(&auth.Identity{Role: "member"}, auth.CapabilityList); !errors.Is(err, auth.ErrForbidden) {
			t.Errorf("Authorize() error = %v, want ErrForbidden", err)
		}
	})
}
