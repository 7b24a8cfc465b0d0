package requester

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	// MsgUnauthorized is shown by screens whose request was rejected with 401.
	MsgUnauthorized = "Authentication failed. Please login again."
	// MsgNetwork is shown when no response was received at all.
	MsgNetwork = "Network error. Please check your connection."
)

var (
	// ErrUnauthorized matches any *HTTPError with status 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNetwork matches failures where the service could not be reached.
	ErrNetwork = errors.New("network error")
)

// HTTPError is a non-2xx response from a collaborating service.
type HTTPError struct {
	StatusCode int
	// Message is the "message" or "error" field of the JSON body, if any.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP Error: %d", e.StatusCode)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// NetworkError wraps a transport failure (refused connection, DNS, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// CheckResponse maps a response to the gateway error policy; nil for 2xx.
func CheckResponse(resp *Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.Body),
	}
}

func errorMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "error_description"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// UserMessage is the inline message a screen shows for a failed request.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNetwork) {
		return MsgNetwork
	}
	if errors.Is(err, ErrUnauthorized) {
		return MsgUnauthorized
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Error()
	}
	return err.Error()
}
