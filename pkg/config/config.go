package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Input        string `yaml:"input" json:"input" jsonschema:"default=youtubeSubscriptions.opml,description=OPML subscription list"`
	Output       string `yaml:"output" json:"output" jsonschema:"default=summary.txt,description=Summary file overwritten on each run"`
	LookbackDays int    `yaml:"lookback_days" json:"lookback_days" jsonschema:"default=30,minimum=1,description=Count uploads published within this many days"`

	Feed     FeedConfig     `yaml:"feed" json:"feed" jsonschema:"description=Feed fetching configuration"`
	Resolver ResolverConfig `yaml:"resolver" json:"resolver" jsonschema:"description=Duration resolution with yt-dlp"`
}

// FeedConfig holds feed fetching settings
type FeedConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP timeout per feed request"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for feed requests (browser-like if empty)"`
	Workers    int           `yaml:"workers" json:"workers" jsonschema:"default=5,minimum=1,description=Maximum concurrent feed fetches"`
	Attempts   int           `yaml:"attempts" json:"attempts" jsonschema:"default=1,minimum=1,description=Fetch attempts per feed (1 disables retries)"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=1s,description=Initial delay between fetch attempts"`
}

// ResolverConfig holds yt-dlp settings
type ResolverConfig struct {
	Path      string        `yaml:"path" json:"path" jsonschema:"default=yt-dlp,description=yt-dlp executable"`
	Workers   int           `yaml:"workers" json:"workers" jsonschema:"default=5,minimum=1,description=Maximum concurrent yt-dlp processes"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=5m,description=Timeout per yt-dlp invocation"`
	ExtraArgs []string      `yaml:"extra_args" json:"extra_args" jsonschema:"description=Additional yt-dlp arguments (cookies or proxy)"`
}

// Default returns configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	// unknown keys are rejected, a typo must not silently fall back to a default
	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Input == "" {
		c.Input = "youtubeSubscriptions.opml"
	}
	if c.Output == "" {
		c.Output = "summary.txt"
	}
	if c.LookbackDays == 0 {
		c.LookbackDays = 30
	}

	// set defaults for feeds
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 30 * time.Second
	}
	if c.Feed.Workers == 0 {
		c.Feed.Workers = 5
	}
	if c.Feed.Attempts == 0 {
		c.Feed.Attempts = 1
	}
	if c.Feed.RetryDelay == 0 {
		c.Feed.RetryDelay = time.Second
	}

	// set defaults for resolver
	if c.Resolver.Path == "" {
		c.Resolver.Path = "yt-dlp"
	}
	if c.Resolver.Workers == 0 {
		c.Resolver.Workers = 5
	}
	if c.Resolver.Timeout == 0 {
		c.Resolver.Timeout = 5 * time.Minute
	}
}

// Validate checks configuration for correctness
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.LookbackDays < 1 {
		return fmt.Errorf("lookback_days must be at least 1")
	}
	if c.Feed.Workers < 1 {
		return fmt.Errorf("feed.workers must be at least 1")
	}
	if c.Feed.Attempts < 1 {
		return fmt.Errorf("feed.attempts must be at least 1")
	}
	if c.Feed.Timeout < time.Second {
		return fmt.Errorf("feed.timeout must be at least 1 second")
	}
	if c.Resolver.Workers < 1 {
		return fmt.Errorf("resolver.workers must be at least 1")
	}
	if c.Resolver.Timeout < 0 {
		return fmt.Errorf("resolver.timeout must be non-negative")
	}
	return nil
}
