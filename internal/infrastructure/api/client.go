// Package api is the typed HTTP client for the curation service.
// Every method maps to exactly one request; nothing is cached or retried.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the service address used when none is configured.
const DefaultBaseURL = "http://localhost:8000/api"

const (
	defaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Client talks to the curation service.
type Client struct {
	baseURL string
	rc      *resty.Client
	logger  zerolog.Logger
	debug   bool

	// set by options, consumed by New
	http    *http.Client
	timeout time.Duration
}

// New creates a client for baseURL, e.g. "http://localhost:8000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		logger:  zerolog.Nop(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	hc := c.http
	if hc == nil {
		hc = &http.Client{}
	}
	c.rc = resty.NewWithClient(hc).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(c.timeout).
		SetError(&errorBody{}).
		SetLogger(restyLogger{c.logger}).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader(requestIDHeader, uuid.NewString())
			return nil
		}).
		OnAfterResponse(c.logResponse).
		OnError(c.logFailure)
	return c, nil
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do issues one request. in is sent as the JSON body when non-nil; out
// receives the decoded response. Any 2xx status is success.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		var apiErr *Error
		if errors.As(err, &apiErr) {
			outcome = string(apiErr.Kind)
		}
		requestsTotal.WithLabelValues(op, outcome).Inc()
		requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	req := c.rc.R().
		SetContext(ctx).
		ForceContentType("application/json")
	if out != nil {
		req.SetResult(out)
	}
	if in != nil {
		req.SetBody(in)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if resp != nil && resp.IsSuccess() {
			return newNetworkError(op, fmt.Errorf("decode response: %w", err))
		}
		return newNetworkError(op, err)
	}
	if !resp.IsSuccess() {
		body, _ := resp.Error().(*errorBody)
		return newStatusError(op, resp.StatusCode(), body)
	}
	return nil
}

// logResponse records every completed exchange. Bodies are only logged in
// debug mode; they include passwords.
func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	req := resp.Request
	reqID := req.Header.Get(requestIDHeader)
	if resp.IsError() {
		c.logger.Debug().Str("method", req.Method).Str("url", req.URL).Str("request_id", reqID).Int("status", resp.StatusCode()).Msg("request rejected")
	}
	if !c.debug {
		return nil
	}
	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Str("request_id", reqID).
		Interface("request_body", req.Body).
		Int("status_code", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Str("response_body", resp.String()).
		Msg("HTTP exchange")
	return nil
}

func (c *Client) logFailure(req *resty.Request, err error) {
	var respErr *resty.ResponseError
	if errors.As(err, &respErr) {
		return
	}
	c.logger.Warn().Err(err).Str("method", req.Method).Str("url", req.URL).Str("request_id", req.Header.Get(requestIDHeader)).Msg("request failed")
}

// restyLogger routes resty's own diagnostics through zerolog.
type restyLogger struct {
	zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any) { l.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.Debug().Msgf(format, v...) }
