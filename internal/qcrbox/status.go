// Package qcrbox talks to the QCrBox command-execution API: it uploads file
// parameters as datasets, invokes commands, polls the resulting calculation
// until it reaches a terminal status, and downloads the output document.
package qcrbox

import "fmt"

// Status is the terminal outcome of a command invocation as reported by the
// API. A failed status is a legitimate, testable outcome; transport problems
// reaching the API are errors, never a Status.
type Status string

// Terminal invocation statuses.
const (
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
	StatusWarning    Status = "warning"
)

// ParseStatus validates a status string from a suite file or API response.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusSuccessful, StatusFailed, StatusWarning:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status %q (want successful, failed or warning)", s)
	}
}

// IsValid reports whether s is one of the terminal statuses.
func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}
