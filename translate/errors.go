package translate

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for provider management and request failures.
var (
	// ErrProviderNotFound is returned when a provider id is not registered.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrProviderNotAvailable is returned when a provider holds no credential.
	ErrProviderNotAvailable = errors.New("provider not available")
	// ErrNoProviderConfigured is returned when no current provider is set.
	ErrNoProviderConfigured = errors.New("no translation provider configured")
	// ErrAllProvidersFailed is returned when the current provider and every
	// registered fallback failed; it wraps the original failure.
	ErrAllProvidersFailed = errors.New("all translation providers failed")
	// ErrTimeout marks a request that exceeded the per-request deadline,
	// as opposed to a connection-level failure.
	ErrTimeout = errors.New("translation request timed out")
)

// APIError is a classified failure from a translation backend: a non-2xx
// HTTP status, or a structured error object in the response body. The
// status code lets callers distinguish auth failures (401) from rate
// limits (429) from server failures (5xx).
type APIError struct {
	Provider string
	Status   int
	Code     string // provider error code, when the body carried one
	Message  string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: API error %d (%s): %s", e.Provider, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: API error %d: %s", e.Provider, e.Status, e.Message)
}

// IsAuth reports an authentication failure (the credential must be fixed;
// retrying is pointless).
func (e *APIError) IsAuth() bool { return e.Status == http.StatusUnauthorized }

// IsRateLimit reports a rate-limit rejection.
func (e *APIError) IsRateLimit() bool { return e.Status == http.StatusTooManyRequests }

// IsServer reports a backend-side failure.
func (e *APIError) IsServer() bool { return e.Status >= 500 }
