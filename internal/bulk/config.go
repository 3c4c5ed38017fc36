package bulk

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds bulk issuance processing parameters.
type Config struct {
	ChunkSize int `toml:"chunk_size"`
	MaxRows   int `toml:"max_rows"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ChunkSize string
	MaxRows   string
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
	if overlay.ChunkSize != 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.MaxRows != 0 {
		c.MaxRows = overlay.MaxRows
	}
}

func (c *Config) loadDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 20
	}
	if c.MaxRows == 0 {
		c.MaxRows = 1000
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ChunkSize != "" {
		if v := os.Getenv(env.ChunkSize); v != "" {
			if size, err := strconv.Atoi(v); err == nil && size > 0 {
				c.ChunkSize = size
			}
		}
	}
	if env.MaxRows != "" {
		if v := os.Getenv(env.MaxRows); v != "" {
			if rows, err := strconv.Atoi(v); err == nil && rows > 0 {
				c.MaxRows = rows
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.MaxRows < 1 {
		return fmt.Errorf("max_rows must be positive")
	}
	return nil
}
