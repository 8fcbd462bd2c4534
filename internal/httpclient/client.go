// Package httpclient builds the pooled HTTP client shared by the Model
// Armor and DLP transports.
package httpclient

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Sanitization and template calls are short request/response exchanges;
// the pool limits and timeouts here are sized for that, not for streaming.
const (
	defaultTimeout               = 60 * time.Second
	defaultResponseHeaderTimeout = 60 * time.Second
	dialTimeout                  = 30 * time.Second
	keepAlive                    = 30 * time.Second
	tlsHandshakeTimeout          = 10 * time.Second
	idleConnTimeout              = 90 * time.Second
	maxIdleConnsPerHost          = 100
)

// Config bounds a client's request lifecycle. A zero field means the
// package default.
type Config struct {
	// Timeout caps the whole request, response body included.
	Timeout time.Duration

	// ResponseHeaderTimeout caps the wait for the status line and headers
	// after the request is written.
	ResponseHeaderTimeout time.Duration
}

// FromEnv reads the timeout knobs from the environment:
//
//   - ARMOR_HTTP_TIMEOUT
//   - ARMOR_HTTP_RESPONSE_HEADER_TIMEOUT
//
// Values are plain integers (seconds) or Go duration strings ("90s",
// "2m"). Unset or unparseable variables leave the default in place.
func FromEnv() Config {
	return Config{
		Timeout:               envDuration("ARMOR_HTTP_TIMEOUT"),
		ResponseHeaderTimeout: envDuration("ARMOR_HTTP_RESPONSE_HEADER_TIMEOUT"),
	}
}

// New builds a pooled HTTP client from cfg.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	headerTimeout := cfg.ResponseHeaderTimeout
	if headerTimeout <= 0 {
		headerTimeout = defaultResponseHeaderTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: keepAlive,
		}).DialContext,
		MaxIdleConns:          maxIdleConnsPerHost,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ResponseHeaderTimeout: headerTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// NewDefault builds a client configured from the environment.
func NewDefault() *http.Client {
	return New(FromEnv())
}

func envDuration(key string) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return 0
}
