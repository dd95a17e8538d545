// ABOUTME: Application configuration: optional YAML file, then TAUPLANE_* environment overrides.
// ABOUTME: Validates the compute URL, loopback-only bind, timeouts, and the initial control values.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/tauplane/plane"
)

// Validation errors returned by Config.Validate.
var (
	ErrNonLoopbackBind = errors.New(
		"TAUPLANE_BIND is a non-loopback address; the explorer only serves on 127.0.0.0/8, ::1, or localhost",
	)
	ErrInvalidComputeURL = errors.New("compute_url must be an absolute http or https URL")
	ErrInvalidTimeout    = errors.New("http_timeout must be positive")
	ErrNoPresets         = errors.New("at least one function preset is required")
)

// Config holds everything the tauplane binary needs to start.
type Config struct {
	ComputeURL   string        `yaml:"compute_url"`
	Bind         string        `yaml:"bind"`
	DataDir      string        `yaml:"data_dir"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	DiscardStale bool          `yaml:"discard_stale"`
	Debounce     time.Duration `yaml:"debounce"`
	History      bool          `yaml:"history"`

	Defaults plane.ConfigState `yaml:"defaults"`
	Presets  []plane.Preset    `yaml:"presets"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ComputeURL:   "http://127.0.0.1:5000",
		Bind:         "127.0.0.1:7780",
		HTTPTimeout:  60 * time.Second,
		DiscardStale: true,
		Debounce:     500 * time.Millisecond,
		History:      true,
		Defaults:     plane.DefaultConfig(),
		Presets:      plane.DefaultPresets(),
	}
}

// Load reads path (if non-empty) over the defaults, then applies environment overrides.
// A missing file is an error; an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.Defaults = cfg.Defaults.Canonical()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TAUPLANE_COMPUTE_URL"); v != "" {
		c.ComputeURL = v
	}
	if v := os.Getenv("TAUPLANE_BIND"); v != "" {
		c.Bind = v
	}
	if v := os.Getenv("TAUPLANE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TAUPLANE_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TAUPLANE_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("TAUPLANE_DISCARD_STALE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TAUPLANE_DISCARD_STALE: %w", err)
		}
		c.DiscardStale = b
	}
	if v := os.Getenv("TAUPLANE_HISTORY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TAUPLANE_HISTORY: %w", err)
		}
		c.History = b
	}
	return nil
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	u, err := url.Parse(c.ComputeURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidComputeURL, c.ComputeURL)
	}
	if err := CheckLoopback(c.Bind); err != nil {
		return err
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTimeout, c.HTTPTimeout)
	}
	if len(c.Presets) == 0 {
		return ErrNoPresets
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

// CheckLoopback refuses binds to anything but 127.0.0.0/8, ::1, or localhost.
func CheckLoopback(bind string) error {
	host, _, err := net.SplitHostPort(bind)
	if err != nil {
		return fmt.Errorf("bind %q: %w", bind, err)
	}
	ip := net.ParseIP(host)
	switch {
	case ip != nil && ip.IsLoopback():
	case strings.EqualFold(host, "localhost"):
	default:
		// Empty host, 0.0.0.0, LAN addresses, and other hostnames all listen beyond this machine.
		return fmt.Errorf("%w: TAUPLANE_BIND=%s", ErrNonLoopbackBind, bind)
	}
	return nil
}
