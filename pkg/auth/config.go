package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	// ModeOIDC verifies tokens against the identity provider's discovery document.
	ModeOIDC = "oidc"
	// ModeStatic verifies HS256 tokens signed with a shared secret.
	ModeStatic = "static"
)

// Config holds token verification and authorization parameters.
type Config struct {
	Mode        string   `toml:"mode"`
	Issuer      string   `toml:"issuer"`
	ClientID    string   `toml:"client_id"`
	Secret      string   `toml:"secret"`
	AdminRole   string   `toml:"admin_role"`
	AdminEmails []string `toml:"admin_emails"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Mode        string
	Issuer      string
	ClientID    string
	Secret      string
	AdminRole   string
	AdminEmails string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.AdminRole != "" {
		c.AdminRole = overlay.AdminRole
	}
	if overlay.AdminEmails != nil {
		c.AdminEmails = overlay.AdminEmails
	}
}

// NewVerifier constructs the Verifier selected by Mode.
func (c *Config) NewVerifier(ctx context.Context) (Verifier, error) {
	switch c.Mode {
	case ModeOIDC:
		return NewOIDCVerifier(ctx, c.Issuer, c.ClientID)
	case ModeStatic:
		return NewStaticVerifier(c.Secret, c.Issuer), nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %q", c.Mode)
	}
}

// NewAuthorizer constructs the configured Authorizer: an email allowlist when
// admin_emails is set, otherwise a role-claim check.
func (c *Config) NewAuthorizer() Authorizer {
	if len(c.AdminEmails) > 0 {
		return NewAllowlistAuthorizer(c.AdminEmails)
	}
	return NewRoleAuthorizer(c.AdminRole)
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeStatic
	}
	if c.AdminRole == "" {
		c.AdminRole = "admin"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Mode != "" {
		if v := os.Getenv(env.Mode); v != "" {
			c.Mode = v
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.Secret != "" {
		if v := os.Getenv(env.Secret); v != "" {
			c.Secret = v
		}
	}
	if env.AdminRole != "" {
		if v := os.Getenv(env.AdminRole); v != "" {
			c.AdminRole = v
		}
	}
	if env.AdminEmails != "" {
		if v := os.Getenv(env.AdminEmails); v != "" {
			emails := strings.Split(v, ",")
			c.AdminEmails = make([]string, 0, len(emails))
			for _, email := range emails {
				if trimmed := strings.TrimSpace(email); trimmed != "" {
					c.AdminEmails = append(c.AdminEmails, trimmed)
				}
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeOIDC:
		if c.Issuer == "" {
			return fmt.Errorf("issuer required for oidc mode")
		}
		if c.ClientID == "" {
			return fmt.Errorf("client_id required for oidc mode")
		}
	case ModeStatic:
		if c.Secret == "" {
			return fmt.Errorf("secret required for static mode")
		}
	default:
		return fmt.Errorf("invalid mode: %q", c.Mode)
	}
	return nil
}
