// Package armorclient provides the base HTTP transport for the Model Armor
// and DLP REST APIs:
// - Request marshaling/unmarshaling
// - Standardized decoding of Google-style error bodies into core.APIError
// - Per-call X-Request-ID propagation
//
// The transport is deliberately single-shot: no retries, no circuit
// breaking, no caching. Every failure propagates to the caller unchanged.
package armorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"goarmor/internal/core"
	"goarmor/internal/httpclient"
)

// Config holds configuration for the API client.
type Config struct {
	// ServiceName identifies the service for error messages ("modelarmor", "dlp").
	ServiceName string

	// BaseURL is the API base URL, without a trailing slash.
	BaseURL string

	// APIKey, if set, is sent as the x-goog-api-key header.
	APIKey string

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

const defaultUserAgent = "goarmor/1"

// HeaderSetter is a function that sets extra headers on an HTTP request.
type HeaderSetter func(req *http.Request)

// Client is the shared REST transport.
type Client struct {
	httpClient   *http.Client
	config       Config
	headerSetter HeaderSetter
}

// New creates a client with the default pooled HTTP client.
func New(config Config, headerSetter HeaderSetter) *Client {
	return NewWithHTTPClient(httpclient.NewDefault(), config, headerSetter)
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// If httpClient is nil, http.DefaultClient is used.
func NewWithHTTPClient(httpClient *http.Client, config Config, headerSetter HeaderSetter) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:   httpClient,
		config:       config,
		headerSetter: headerSetter,
	}
}

// SetBaseURL updates the base URL.
func (c *Client) SetBaseURL(url string) {
	c.config.BaseURL = url
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Request represents an HTTP request to be made.
type Request struct {
	Method  string
	Path    string // joined onto BaseURL, must start with "/"
	Query   url.Values
	Body    interface{} // JSON marshaled if not nil
	Headers map[string]string
}

// Do executes a request and unmarshals the response body into result.
// A nil result discards the body.
func (c *Client) Do(ctx context.Context, req Request, result interface{}) error {
	body, err := c.DoRaw(ctx, req)
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return &core.APIError{
				Service:    c.config.ServiceName,
				Status:     core.StatusInternal,
				HTTPStatus: http.StatusInternalServerError,
				Message:    "failed to unmarshal response: " + err.Error(),
				Err:        err,
			}
		}
	}

	return nil
}

// DoRaw executes a request and returns the raw response body.
func (c *Client) DoRaw(ctx context.Context, req Request) ([]byte, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewTransportError(c.config.ServiceName, "failed to send request: "+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewTransportError(c.config.ServiceName, "failed to read response: "+err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.decodeError(resp.StatusCode, body)
	}

	return body, nil
}

// buildRequest creates an HTTP request from a Request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.config.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &core.APIError{
				Service:    c.config.ServiceName,
				Status:     core.StatusInvalidArgument,
				HTTPStatus: http.StatusBadRequest,
				Message:    "failed to marshal request: " + err.Error(),
				Err:        err,
			}
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return nil, &core.APIError{
			Service:    c.config.ServiceName,
			Status:     core.StatusInvalidArgument,
			HTTPStatus: http.StatusBadRequest,
			Message:    "failed to create request: " + err.Error(),
			Err:        err,
		}
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	ua := c.config.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	httpReq.Header.Set("User-Agent", ua)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if c.config.APIKey != "" {
		httpReq.Header.Set("x-goog-api-key", c.config.APIKey)
	}

	if c.headerSetter != nil {
		c.headerSetter(httpReq)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// decodeError turns a non-2xx response into a core.APIError. Bodies follow
// the Google error envelope:
//
//	{"error": {"code": 404, "message": "...", "status": "NOT_FOUND"}}
//
// Responses that do not parse fall back to the HTTP status mapping.
func (c *Client) decodeError(httpStatus int, body []byte) *core.APIError {
	apiErr := &core.APIError{
		Service:    c.config.ServiceName,
		Status:     core.StatusForHTTP(httpStatus),
		HTTPStatus: httpStatus,
		Message:    http.StatusText(httpStatus),
	}

	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
		apiErr.Message = msg.String()
	} else if len(body) > 0 {
		apiErr.Message = string(body)
	}

	if status := gjson.GetBytes(body, "error.status"); status.Exists() && status.String() != "" {
		apiErr.Status = core.StatusCode(status.String())
	}

	return apiErr
}
