package openrouter

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestNewAPIError_UnreadableBody(t *testing.T) {
	apiErr := newAPIError(&http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Body:       io.NopCloser(brokenReader{}),
	})

	if apiErr.Message != "Service Unavailable" {
		t.Errorf("Expected status text fallback, got %q", apiErr.Message)
	}
	if apiErr.Err == nil || !strings.Contains(errors.Unwrap(apiErr).Error(), "connection reset") {
		t.Errorf("Expected the read error to be kept, got %v", apiErr.Err)
	}
}

func TestNewAPIError_LimitsBody(t *testing.T) {
	huge := strings.Repeat("x", maxErrorBody*2)
	apiErr := newAPIError(&http.Response{
		StatusCode: http.StatusBadGateway,
		Body:       io.NopCloser(strings.NewReader(huge)),
	})

	if len(apiErr.Message) != maxErrorBody {
		t.Errorf("Expected message capped at %d bytes, got %d", maxErrorBody, len(apiErr.Message))
	}
	if apiErr.Err != nil {
		t.Errorf("Unexpected read error: %v", apiErr.Err)
	}
}
