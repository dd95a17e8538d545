// ABOUTME: HTTP client for the compute service's /api/plot_data endpoint.
// ABOUTME: Encodes a PlotRequest as query parameters and decodes, sanitizes, and validates the response.
package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/tauplane/plane"
)

// PlotDataPath is the compute service's single read endpoint.
const PlotDataPath = "/api/plot_data"

// DefaultTimeout bounds one round trip when no other timeout is configured.
const DefaultTimeout = 60 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 256 << 20

// Client fetches plot data from a compute service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithTimeout sets the per-request transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient = &http.Client{Timeout: d, Transport: c.HTTPClient.Transport}
		}
	}
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs one GET for req and returns the validated response.
func (c *Client) Fetch(ctx context.Context, req plane.PlotRequest) (*plane.PlotResponse, error) {
	url := c.BaseURL + PlotDataPath + "?" + req.Query().Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{FetchError{Message: "compute service unreachable", Cause: err}}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{FetchError{Message: "reading compute response", Cause: err}}
	}
	log.Printf("component=compute action=fetch request_id=%s plot_type=%s plane=%s points=%d status=%d bytes=%d duration=%s",
		requestID, req.Function.PlotType(), req.Plane, req.Points, resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, serviceError(body))
	}

	var out plane.PlotResponse
	if err := json.Unmarshal(SanitizeNonFinite(body), &out); err != nil {
		return nil, &DecodeError{FetchError{Message: "decoding compute response", Cause: err}}
	}
	if err := out.Validate(req.Points); err != nil {
		return nil, &InvalidResponseError{FetchError{Message: "invalid compute response", Cause: err}}
	}
	return &out, nil
}

// serviceError extracts the "error" field from a failure body, if any.
func serviceError(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}

// SanitizeNonFinite rewrites bare NaN, Infinity, and -Infinity literals outside of
// strings to null so the body is valid JSON.
func SanitizeNonFinite(body []byte) []byte {
	if !bytes.Contains(body, []byte("NaN")) && !bytes.Contains(body, []byte("Infinity")) {
		return body
	}
	out := make([]byte, 0, len(body))
	inString, escaped := false, false
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if inString {
			out = append(out, ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			out = append(out, ch)
			continue
		}
		if n := nonFiniteLen(body[i:]); n > 0 {
			out = append(out, "null"...)
			i += n - 1
			continue
		}
		out = append(out, ch)
	}
	return out
}

func nonFiniteLen(b []byte) int {
	for _, lit := range []string{"-Infinity", "Infinity", "NaN"} {
		if bytes.HasPrefix(b, []byte(lit)) {
			return len(lit)
		}
	}
	return 0
}
