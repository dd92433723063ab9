// Package config loads runtime settings for the CLI and the dev service.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/drawmyfeelings/journey/devmode"
)

// Prefix of every environment variable read by New.
const Prefix = "DRAWMYFEELINGS"

// Config holds settings parsed from DRAWMYFEELINGS_* variables.
// Example: DRAWMYFEELINGS_SERVICE_URL, DRAWMYFEELINGS_STORY_TIMEOUT=2m.
type Config struct {
	// Generation service
	ServiceURL string `envconfig:"SERVICE_URL" default:""`
	APIKey     string `envconfig:"API_KEY" default:""`

	// Per-call budgets
	FeelingTimeout time.Duration `envconfig:"FEELING_TIMEOUT" default:"60s"`
	StoryTimeout   time.Duration `envconfig:"STORY_TIMEOUT" default:"90s"`
	HealthTimeout  time.Duration `envconfig:"HEALTH_TIMEOUT" default:"5s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	// Shared executor for journeys
	Shards    int `envconfig:"SHARDS" default:"4"`
	QueueSize int `envconfig:"QUEUE_SIZE" default:"64"`

	// Dev generation service
	DevAddr    string        `envconfig:"DEV_ADDR" default:""`
	DevLatency time.Duration `envconfig:"DEV_LATENCY" default:"0s"`
}

// New parses the environment and resolves defaults.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveDefaults fills derived values and validates the result. An empty
// ServiceURL points at the dev service address.
func (c *Config) ResolveDefaults() error {
	if c.DevAddr == "" {
		c.DevAddr = devmode.Addr
	}
	if c.ServiceURL == "" {
		c.ServiceURL = "http://" + c.DevAddr + devmode.BasePath
	}
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")

	u, err := url.Parse(c.ServiceURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid SERVICE_URL: %q", c.ServiceURL)
	}
	for name, d := range map[string]time.Duration{
		"FEELING_TIMEOUT": c.FeelingTimeout,
		"STORY_TIMEOUT":   c.StoryTimeout,
		"HEALTH_TIMEOUT":  c.HealthTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.Shards <= 0 {
		return fmt.Errorf("SHARDS must be positive, got %d", c.Shards)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	if c.DevLatency < 0 {
		return fmt.Errorf("DEV_LATENCY must not be negative, got %s", c.DevLatency)
	}
	return nil
}

// LogEvent adds the non-secret settings to e.
func (c *Config) LogEvent(e *zerolog.Event) *zerolog.Event {
	return e.
		Str("service_url", c.ServiceURL).
		Bool("api_key_present", c.APIKey != "").
		Dur("feeling_timeout", c.FeelingTimeout).
		Dur("story_timeout", c.StoryTimeout).
		Int("shards", c.Shards).
		Int("queue_size", c.QueueSize)
}
