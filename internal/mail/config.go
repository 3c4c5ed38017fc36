package mail

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Brevo API connection parameters and send policy.
type Config struct {
	APIKey      string  `toml:"api_key"`
	Endpoint    string  `toml:"endpoint"`
	SenderName  string  `toml:"sender_name"`
	SenderEmail string  `toml:"sender_email"`
	AppURL      string  `toml:"app_url"`
	SendTimeout string  `toml:"send_timeout"`
	SendRate    float64 `toml:"send_rate"`
	SendBurst   int     `toml:"send_burst"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey      string
	Endpoint    string
	SenderName  string
	SenderEmail string
	AppURL      string
	SendTimeout string
	SendRate    string
	SendBurst   string
}

// SendTimeoutDuration returns SendTimeout as a time.Duration.
func (c *Config) SendTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.SendTimeout)
	return d
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
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.SenderName != "" {
		c.SenderName = overlay.SenderName
	}
	if overlay.SenderEmail != "" {
		c.SenderEmail = overlay.SenderEmail
	}
	if overlay.AppURL != "" {
		c.AppURL = overlay.AppURL
	}
	if overlay.SendTimeout != "" {
		c.SendTimeout = overlay.SendTimeout
	}
	if overlay.SendRate != 0 {
		c.SendRate = overlay.SendRate
	}
	if overlay.SendBurst != 0 {
		c.SendBurst = overlay.SendBurst
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "https://api.brevo.com/v3/smtp/email"
	}
	if c.SenderName == "" {
		c.SenderName = "TechNexus Community"
	}
	if c.AppURL == "" {
		c.AppURL = "http://localhost:3000"
	}
	if c.SendTimeout == "" {
		c.SendTimeout = "15s"
	}
	if c.SendRate == 0 {
		c.SendRate = 10
	}
	if c.SendBurst == 0 {
		c.SendBurst = 20
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.SenderName != "" {
		if v := os.Getenv(env.SenderName); v != "" {
			c.SenderName = v
		}
	}
	if env.SenderEmail != "" {
		if v := os.Getenv(env.SenderEmail); v != "" {
			c.SenderEmail = v
		}
	}
	if env.AppURL != "" {
		if v := os.Getenv(env.AppURL); v != "" {
			c.AppURL = v
		}
	}
	if env.SendTimeout != "" {
		if v := os.Getenv(env.SendTimeout); v != "" {
			c.SendTimeout = v
		}
	}
	if env.SendRate != "" {
		if v := os.Getenv(env.SendRate); v != "" {
			if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
				c.SendRate = rate
			}
		}
	}
	if env.SendBurst != "" {
		if v := os.Getenv(env.SendBurst); v != "" {
			if burst, err := strconv.Atoi(v); err == nil && burst > 0 {
				c.SendBurst = burst
			}
		}
	}
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	if c.SenderEmail == "" {
		return fmt.Errorf("sender_email required")
	}
	if _, err := time.ParseDuration(c.SendTimeout); err != nil {
		return fmt.Errorf("invalid send_timeout: %w", err)
	}
	return nil
}
