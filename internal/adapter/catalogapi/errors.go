package catalogapi

import (
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
)

// A NetworkError reports a failed request or a non-2xx response.
// StatusCode is zero when no response was received.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrNetwork}
	}
	return []error{domain.ErrNetwork, e.Err}
}

// A DecodeError reports a response body that is not a product array.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("GET %s: decode body: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{domain.ErrDecode, e.Err}
}
