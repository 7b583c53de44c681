package router

import (
	"errors"
	"fmt"
)

// ErrRateLimitExceeded is returned when the per-model rate gate cannot clear
// within its configured maximum wait. It is retryable by issuing a new
// request; the router never blocks indefinitely.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// ConfigurationError reports missing or invalid model setup. It aborts the
// pipeline.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("model configuration: %s", e.Reason)
}

// UnsupportedProviderError reports a provider tag with no registered factory.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %s", e.Provider)
}

// ProviderError reports an upstream generation failure before any output was
// produced. The whole request is treated as failed; nothing partial is
// emitted.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
