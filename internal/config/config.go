// Package config provides configuration management for cifprobe with
// layered precedence.
//
// Configuration sources are loaded in the following order (highest
// precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (CIFPROBE_* prefix)
//  3. Project config (.cifprobe/config.yaml)
//  4. Global config (~/.cifprobe/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/errors, but MUST NOT import
// other internal packages.
package config

import "time"

// Config is the root configuration structure for cifprobe.
type Config struct {
	// API contains settings for the QCrBox API endpoint.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Tests contains settings for suite discovery.
	Tests TestsConfig `yaml:"tests" mapstructure:"tests"`

	// Debug contains settings for failure-artifact capture.
	Debug DebugConfig `yaml:"debug" mapstructure:"debug"`
}

// APIConfig contains settings for the QCrBox API endpoint.
type APIConfig struct {
	// URL is the base URL of the QCrBox API.
	// Default: http://localhost:11000
	URL string `yaml:"url" mapstructure:"url"`

	// PollInterval is the delay between calculation status checks.
	// Default: 1 second, Valid range: 100ms-1m
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// Timeout is the maximum duration for a single command invocation,
	// including dataset uploads and status polling.
	// Default: 10 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// TestsConfig contains settings for suite discovery.
type TestsConfig struct {
	// Location is the suite file or directory of suite files to run.
	// Default: qcrbox_tests
	Location string `yaml:"location" mapstructure:"location"`
}

// DebugConfig contains settings for failure-artifact capture.
type DebugConfig struct {
	// Enabled turns on artifact capture for failed suites.
	// Default: false
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Dir is the base directory artifacts are written under.
	// Default: logs
	Dir string `yaml:"dir" mapstructure:"dir"`
}
