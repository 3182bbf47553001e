// Package errors provides centralized error handling for cifprobe.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrSuiteInvalid indicates a test suite definition is malformed
	// (duplicate case names, missing required fields, empty suite).
	ErrSuiteInvalid = errors.New("invalid test suite definition")

	// ErrCaseInvalid indicates a test case definition is malformed
	// (duplicate parameter names, no expected results).
	ErrCaseInvalid = errors.New("invalid test case definition")

	// ErrAssertionInvalid indicates an expected-result specification is
	// malformed (unknown result_type or test_type, missing required fields).
	ErrAssertionInvalid = errors.New("invalid assertion specification")

	// ErrRangeInvalid indicates a within assertion has a malformed range
	// (neither or both range forms given, or min_value > max_value).
	ErrRangeInvalid = errors.New("invalid within range")

	// ErrEntryNotFound indicates a CIF entry is absent from the document.
	ErrEntryNotFound = errors.New("cif entry not found")

	// ErrLoopNotFound indicates no loop in the document carries the
	// requested column.
	ErrLoopNotFound = errors.New("cif loop not found")

	// ErrRowNotFound indicates no loop row satisfied all lookup conditions.
	ErrRowNotFound = errors.New("cif loop row not found")

	// ErrColumnNotFound indicates a matched loop row lacks the requested column.
	ErrColumnNotFound = errors.New("cif loop column not found")

	// ErrNotNumeric indicates a value could not be interpreted as a number
	// where a numeric comparison was required.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrDocumentSyntax indicates the raw command output could not be
	// parsed as a CIF document.
	ErrDocumentSyntax = errors.New("cif document syntax error")

	// ErrFileParameter indicates an external-file input parameter could not
	// be read. This is an infrastructure error, not an assertion failure.
	ErrFileParameter = errors.New("file parameter unreadable")

	// ErrTransport indicates a request to the command-execution API failed
	// at the transport level (network error, unexpected response).
	ErrTransport = errors.New("api transport failure")

	// ErrEndpointUnreachable indicates the API endpoint could not be
	// reached at all. This aborts the run rather than a single case.
	ErrEndpointUnreachable = errors.New("api endpoint unreachable")

	// ErrInvocationTimeout indicates a command invocation did not reach a
	// terminal status within the configured timeout.
	ErrInvocationTimeout = errors.New("command invocation timeout")

	// ErrNoOutputDataset indicates a successful calculation reported no
	// output dataset to download.
	ErrNoOutputDataset = errors.New("no output dataset in response")

	// ErrNoSuitesFound indicates the test location contained no suite files.
	ErrNoSuitesFound = errors.New("no test suite files found")

	// ErrTestLocation indicates the test location path does not exist or is
	// neither a YAML file nor a directory.
	ErrTestLocation = errors.New("invalid test location")

	// ErrConfigNil indicates a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidAPI indicates an invalid API configuration value.
	ErrConfigInvalidAPI = errors.New("invalid API configuration")

	// ErrConfigInvalidDebug indicates an invalid debug configuration value.
	ErrConfigInvalidDebug = errors.New("invalid debug configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrTestsFailed indicates the run completed but at least one suite
	// failed. It maps to a non-zero exit code without being an infrastructure
	// problem.
	ErrTestsFailed = errors.New("one or more test suites failed")
)
