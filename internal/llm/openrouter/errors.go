package openrouter

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoBody is returned when a response carries no readable body
var ErrNoBody = errors.New("response body is not readable")

// ErrToolsUnsupported is returned by CheckModel when agent mode needs tools
// the model does not support
var ErrToolsUnsupported = errors.New("model does not support tool calling")

// APIError is a non-2xx response received before streaming began
type APIError struct {
	StatusCode int
	Message    string // error.message from a JSON body, else the raw body
	Err        error  // set when the error body could not be read
}

// maxErrorBody caps how much of a failed response is read
const maxErrorBody = 64 << 10

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d. %s", e.StatusCode, e.Message)
}

// Retryable reports whether a caller-side retry is reasonable. The client
// itself never retries.
func (e *APIError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return e.StatusCode >= 500
}

// newAPIError reads the body of a failed response. The message is the
// server's error.message when the body is JSON carrying one, the raw body
// otherwise, and the status text when the body is empty or unreadable.
func newAPIError(resp *http.Response) *APIError {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Err:        fmt.Errorf("read error body: %w", err),
		}
	}

	msg := strings.TrimSpace(string(raw))
	if gjson.ValidBytes(raw) {
		if m := gjson.GetBytes(raw, "error.message"); m.Exists() && m.String() != "" {
			msg = m.String()
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
