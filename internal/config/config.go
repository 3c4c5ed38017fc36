// Package config loads and finalizes service configuration from TOML files
// and environment variables. A base config.toml is merged with an
// environment-specific overlay (config.<env>.toml selected by EMBLEM_ENV),
// then EMBLEM_* environment variables override individual values.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/technexus/emblem/internal/bulk"
	"github.com/technexus/emblem/internal/mail"
	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/database"
	"github.com/technexus/emblem/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvEmblemEnv             = "EMBLEM_ENV"
	EnvEmblemShutdownTimeout = "EMBLEM_SHUTDOWN_TIMEOUT"
	EnvEmblemVersion         = "EMBLEM_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "EMBLEM_DB_HOST",
	Port:            "EMBLEM_DB_PORT",
	Name:            "EMBLEM_DB_NAME",
	User:            "EMBLEM_DB_USER",
	Password:        "EMBLEM_DB_PASSWORD",
	SSLMode:         "EMBLEM_DB_SSL_MODE",
	MaxOpenConns:    "EMBLEM_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "EMBLEM_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "EMBLEM_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "EMBLEM_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "EMBLEM_STORAGE_CONTAINER_NAME",
	ConnectionString: "EMBLEM_STORAGE_CONNECTION_STRING",
}

var authEnv = &auth.Env{
	Mode:        "EMBLEM_AUTH_MODE",
	Issuer:      "EMBLEM_AUTH_ISSUER",
	ClientID:    "EMBLEM_AUTH_CLIENT_ID",
	Secret:      "EMBLEM_AUTH_SECRET",
	AdminRole:   "EMBLEM_AUTH_ADMIN_ROLE",
	AdminEmails: "EMBLEM_AUTH_ADMIN_EMAILS",
}

var mailEnv = &mail.Env{
	APIKey:      "EMBLEM_MAIL_API_KEY",
	Endpoint:    "EMBLEM_MAIL_ENDPOINT",
	SenderName:  "EMBLEM_MAIL_SENDER_NAME",
	SenderEmail: "EMBLEM_MAIL_SENDER_EMAIL",
	AppURL:      "EMBLEM_MAIL_APP_URL",
	SendTimeout: "EMBLEM_MAIL_SEND_TIMEOUT",
	SendRate:    "EMBLEM_MAIL_SEND_RATE",
	SendBurst:   "EMBLEM_MAIL_SEND_BURST",
}

var bulkEnv = &bulk.Env{
	ChunkSize: "EMBLEM_BULK_CHUNK_SIZE",
	MaxRows:   "EMBLEM_BULK_MAX_ROWS",
}

// Config is the root configuration for the Emblem service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Auth            auth.Config     `toml:"auth"`
	Mail            mail.Config     `toml:"mail"`
	Bulk            bulk.Config     `toml:"bulk"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the EMBLEM_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvEmblemEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Auth.Merge(&overlay.Auth)
	c.Mail.Merge(&overlay.Mail)
	c.Bulk.Merge(&overlay.Bulk)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Mail.Finalize(mailEnv); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.Bulk.Finalize(bulkEnv); err != nil {
		return fmt.Errorf("bulk: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvEmblemShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvEmblemVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvEmblemEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
