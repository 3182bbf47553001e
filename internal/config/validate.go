package config

import (
	"net/url"
	"time"

	"github.com/qcrbox/cifprobe/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - API URL must be a valid absolute http(s) URL
//   - API poll interval must be between 100ms and 1 minute
//   - API timeout must be positive and not shorter than the poll interval
//   - Tests location must not be empty
//   - Debug dir must not be empty when debug is enabled
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateAPIConfig(&cfg.API); err != nil {
		return err
	}

	if cfg.Tests.Location == "" {
		return errors.Wrap(errors.ErrTestLocation, "tests.location must not be empty")
	}

	if cfg.Debug.Enabled && cfg.Debug.Dir == "" {
		return errors.Wrap(errors.ErrConfigInvalidDebug, "debug.dir must not be empty when debug is enabled")
	}

	return nil
}

// validateAPIConfig checks API-specific configuration values.
func validateAPIConfig(cfg *APIConfig) error {
	u, err := url.Parse(cfg.URL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.Wrapf(errors.ErrConfigInvalidAPI,
			"api.url must be an absolute http(s) URL, got %q", cfg.URL)
	}

	minPollInterval := 100 * time.Millisecond
	maxPollInterval := 1 * time.Minute
	if cfg.PollInterval < minPollInterval || cfg.PollInterval > maxPollInterval {
		return errors.Wrapf(errors.ErrConfigInvalidAPI,
			"api.poll_interval must be between %s and %s, got %s",
			minPollInterval, maxPollInterval, cfg.PollInterval)
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidAPI,
			"api.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.Timeout < cfg.PollInterval {
		return errors.Wrapf(errors.ErrConfigInvalidAPI,
			"api.timeout (%s) must not be shorter than api.poll_interval (%s)",
			cfg.Timeout, cfg.PollInterval)
	}

	return nil
}
