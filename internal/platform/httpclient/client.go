// Package httpclient is a small JSON POST client on top of fasthttp, shared
// by the outbound transports.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

const DefaultTimeout = 5 * time.Second

type Client struct {
	http    *fasthttp.Client
	timeout time.Duration
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                          "usage-telemetry-service",
			MaxIdleConnDuration:           30 * time.Second,
			DisableHeaderNamesNormalizing: true,
		},
		timeout: timeout,
	}
}

// PostJSON posts body to url with the given extra headers. Any 2xx answer
// is success; other statuses wrap ErrUnexpectedStatus. The request ends at
// the context deadline or after the client timeout, whichever comes first.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body []byte) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: post %s: %d", ErrUnexpectedStatus, url, status)
	}
	return nil
}
