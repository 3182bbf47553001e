// Package testutil provides testing utilities for cifprobe.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockNetwork indicates a mock network error occurred (used in tests).
	ErrMockNetwork = errors.New("network error")

	// ErrMockAPIError indicates a mock API error occurred (used in tests).
	ErrMockAPIError = errors.New("API error")

	// ErrMockUploadFailed indicates a mock dataset upload failed (used in tests).
	ErrMockUploadFailed = errors.New("upload failed")

	// ErrMockReporterFailed indicates a mock debug reporter failed (used in tests).
	ErrMockReporterFailed = errors.New("reporter failed")
)
