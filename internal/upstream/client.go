// Package upstream performs the single outbound HTTP call behind every proxy
// endpoint and defines the error types those calls produce.
//
// Provider packages (provider, youtube, speech) build a Request with a pure
// normalizer, hand it to Client.Do, and interpret the Response with their
// own extractor. Nothing here knows any upstream's schema.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// Request is a fully built upstream call. Normalizers produce it; it holds
// no hidden state, so the same input always yields an equal Request.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is the raw upstream answer: status, headers and the whole body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues upstream calls. It never retries: a failed call is returned
// to the caller once.
type Client struct {
	rc      *resty.Client
	metrics *Metrics
}

// NewClient wraps hc in a resty client. Tests pass an httptest server's
// client or a go-vcr recorder client; main passes one with a timeout.
func NewClient(hc *http.Client, m *Metrics) *Client {
	rc := resty.NewWithClient(hc).
		SetRetryCount(0).
		SetLogger(slogLogger{})
	return &Client{rc: rc, metrics: m}
}

// Do sends req and returns the upstream response regardless of status. The
// error is non-nil only when no response was received, and is then a
// *TransportError. name labels metrics and error messages.
func (c *Client) Do(ctx context.Context, name string, req Request) (*Response, error) {
	r := c.rc.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL)
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.observe(name, 0, elapsed)
		// *url.Error embeds the full URL, including any ?key= credential.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, &TransportError{Upstream: name, Err: err}
	}

	c.metrics.observe(name, resp.StatusCode(), elapsed)
	slog.Debug("upstream call",
		"upstream", name,
		"status", resp.StatusCode(),
		"duration", elapsed.String(),
	)

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// slogLogger routes resty's internal warnings into slog.
type slogLogger struct{}

func (slogLogger) Errorf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogLogger) Warnf(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogLogger) Debugf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
