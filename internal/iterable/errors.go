package iterable

import "fmt"

// NetworkStatusText is the StatusText for transport-level failures (DNS,
// connection refused, timeout, body read). Status 0 plus this text lets call
// sites distinguish "upstream said no" from "upstream unreachable" by
// inspecting Status alone.
const NetworkStatusText = "Network Error"

// APIError is the single error type for every upstream failure. Non-2xx
// responses carry the HTTP status and the decoded response body; transport
// failures carry Status 0 and the underlying error message as Body.
type APIError struct {
	Status     int
	StatusText string
	Body       any
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("iterable: %s: %v", e.StatusText, e.Body)
	}
	return fmt.Sprintf("iterable: %d %s: %v", e.Status, e.StatusText, e.Body)
}

// IsNetwork reports whether the error is a transport-level failure rather
// than an HTTP response.
func (e *APIError) IsNetwork() bool { return e.Status == 0 }

func networkError(err error) *APIError {
	return &APIError{Status: 0, StatusText: NetworkStatusText, Body: err.Error()}
}
