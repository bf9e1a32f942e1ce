package domain

import "fmt"

// ExternalServiceError marks a failed or malformed response from an LLM
// or publishing endpoint. The current idea's run aborts with no partial
// persistence; the idea stays re-triable on the next cycle.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// ValidationFailure marks a record rejected with a reason (duplicate
// title, unknown shortcode, missing monetization). The record is flagged,
// never silently dropped.
type ValidationFailure struct {
	Reason string
}

func (e *ValidationFailure) Error() string { return e.Reason }

// ConfigurationError marks missing or unusable configuration where no
// safe default exists (e.g. publish credentials).
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: missing %s", e.Field)
}
