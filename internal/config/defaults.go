package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for every configurable key.
const (
	DefaultAPIURL       = "http://localhost:11000"
	DefaultPollInterval = 1 * time.Second
	DefaultTimeout      = 10 * time.Minute
	DefaultTestLocation = "qcrbox_tests"
	DefaultDebugDir     = "logs"
)

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:          DefaultAPIURL,
			PollInterval: DefaultPollInterval,
			Timeout:      DefaultTimeout,
		},
		Tests: TestsConfig{
			Location: DefaultTestLocation,
		},
		Debug: DebugConfig{
			Enabled: false,
			Dir:     DefaultDebugDir,
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.poll_interval", DefaultPollInterval.String())
	v.SetDefault("api.timeout", DefaultTimeout.String())

	v.SetDefault("tests.location", DefaultTestLocation)

	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.dir", DefaultDebugDir)
}
