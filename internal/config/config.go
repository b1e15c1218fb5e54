package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	DefaultRegionalFeedURL = "https://webservices.ingv.it/fdsnws/event/1/query"
	DefaultGlobalFeedURL   = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultProjectURL      = "https://github.com/domibies/eu-shake-map"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream feeds.
	RegionalFeedURL string
	GlobalFeedURL   string
	FeedTimeout     time.Duration

	// Page and local launch.
	ProjectURL  string
	OpenBrowser bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FEED_TIMEOUT", "15s"))
	if err != nil || feedTimeout <= 0 {
		return nil, errors.New("invalid FEED_TIMEOUT")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", "127.0.0.1:8000"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RegionalFeedURL: sharedcfg.EnvOrDefault("REGIONAL_FEED_URL", DefaultRegionalFeedURL),
		GlobalFeedURL:   sharedcfg.EnvOrDefault("GLOBAL_FEED_URL", DefaultGlobalFeedURL),
		FeedTimeout:     feedTimeout,

		ProjectURL:  sharedcfg.EnvOrDefault("PROJECT_URL", DefaultProjectURL),
		OpenBrowser: sharedcfg.EnvOrDefault("OPEN_BROWSER", "false") == "true",
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if err := validateHTTPURL("REGIONAL_FEED_URL", cfg.RegionalFeedURL); err != nil {
		return nil, err
	}
	if err := validateHTTPURL("GLOBAL_FEED_URL", cfg.GlobalFeedURL); err != nil {
		return nil, err
	}
	if err := validateHTTPURL("PROJECT_URL", cfg.ProjectURL); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: want an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
