// Package webhook implements the outbound notification sender as a plain
// JSON-over-HTTP client. Calls are bounded by a fixed timeout and never
// retried; the caller decides what to record about a failure.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// callTimeout bounds one outbound call end to end, including connection
// setup, TLS, and reading the response.
const callTimeout = 8 * time.Second

// ErrExternalCallFailed indicates the outbound webhook call did not get a
// successful response.
var ErrExternalCallFailed = errors.New("external call failed")

// ExternalCallError describes a failed webhook call. StatusCode is zero for
// transport-level failures where no response was received.
type ExternalCallError struct {
	Endpoint   string
	StatusCode int
	Cause      error
}

// NewExternalCallError creates an ExternalCallError for a non-2xx response.
func NewExternalCallError(endpoint string, statusCode int) *ExternalCallError {
	return &ExternalCallError{Endpoint: endpoint, StatusCode: statusCode}
}

// NewExternalCallErrorWithCause creates an ExternalCallError for a transport
// failure.
func NewExternalCallErrorWithCause(endpoint string, cause error) *ExternalCallError {
	return &ExternalCallError{Endpoint: endpoint, Cause: cause}
}

// Error implements the error interface.
func (e *ExternalCallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: POST %s: %v", ErrExternalCallFailed, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("%s: POST %s: unexpected status %d", ErrExternalCallFailed, e.Endpoint, e.StatusCode)
}

// Unwrap returns ErrExternalCallFailed for errors.Is checks.
func (e *ExternalCallError) Unwrap() error {
	return ErrExternalCallFailed
}

// Client sends notification payloads as JSON POST requests.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a webhook client with the fixed call timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: callTimeout,
		},
	}
}

// Send POSTs payload as JSON to endpoint. Any 2xx status counts as
// delivered; everything else, including timeouts, returns an
// ExternalCallError.
func (c *Client) Send(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewExternalCallErrorWithCause(endpoint, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return NewExternalCallError(endpoint, resp.StatusCode)
	}

	return nil
}
