// Package config loads the image-transform configuration file.
package config

import (
	"fmt"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/BurntSushi/toml"

	"github.com/ironsheep/image-transform/internal/imaging"
	"github.com/ironsheep/image-transform/internal/options"
)

// Config stores the service configuration.
type Config struct {
	Host          string   `toml:"host"`
	Port          int      `toml:"port"`
	MaxUpload     string   `toml:"max_upload"`
	MaxPercentage int      `toml:"max_percentage"`
	CacheEntries  int      `toml:"cache_entries"`
	ReadTimeout   Duration `toml:"read_timeout"`
	WriteTimeout  Duration `toml:"write_timeout"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Host:          "0.0.0.0",
		Port:          5000,
		MaxUpload:     "16M",
		MaxPercentage: options.DefaultMaxPercentage,
		CacheEntries:  imaging.DefaultCacheEntries,
		ReadTimeout:   Duration{30 * time.Second},
		WriteTimeout:  Duration{60 * time.Second},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("reading configuration %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := c.MaxUploadBytes(); err != nil {
		return err
	}
	if c.MaxPercentage <= 0 {
		return fmt.Errorf("max_percentage must be positive, got %d", c.MaxPercentage)
	}
	if c.CacheEntries <= 0 {
		return fmt.Errorf("cache_entries must be positive, got %d", c.CacheEntries)
	}
	return nil
}

// MaxUploadBytes parses MaxUpload ("16M", "512K") into a byte count.
func (c *Config) MaxUploadBytes() (int64, error) {
	n, err := bytefmt.ToBytes(c.MaxUpload)
	if err != nil {
		return 0, fmt.Errorf("max_upload %q: %w", c.MaxUpload, err)
	}
	return int64(n), nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
