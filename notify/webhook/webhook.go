package webhook

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
)

const DefaultTimeout = 10 * time.Second

type Authorization struct {
	Header string
	Value  string
}

type Options struct {
	InsecureSkipVerify bool

	// Timeout bounds a single request, the context deadline wins when earlier.
	Timeout time.Duration

	Authorization *Authorization
	UserAgent     string
}

type Client struct {
	options    *Options
	connection *fasthttp.Client
}

// Request describes one outbound call. Form takes precedence over JSON.
type Request struct {
	Method string
	URL    string
	Form   url.Values
	JSON   any
}

type Response struct {
	StatusCode int
	Body       []byte
}

// StatusError is returned for a completed exchange with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("expected 2xx status code but got %d, response: %s", e.StatusCode, e.Body)
}

func New(options *Options) *Client {
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}

	cli := fasthttp.Client{
		Name: options.UserAgent,
		TLSConfig: &tls.Config{
			InsecureSkipVerify: options.InsecureSkipVerify,
		},
	}

	return &Client{
		options:    options,
		connection: &cli,
	}
}

// PostForm sends values form-encoded to rawURL.
func (c *Client) PostForm(ctx context.Context, rawURL string, values url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: fasthttp.MethodPost, URL: rawURL, Form: values})
}

func (c *Client) Do(ctx context.Context, r *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.URL)
	req.Header.SetMethod(r.Method)
	req.Header.Set("Accept", "application/json")

	switch {
	case r.Form != nil:
		req.Header.SetContentType("application/x-www-form-urlencoded")
		req.SetBodyString(r.Form.Encode())
	case r.JSON != nil:
		payload, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}

		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	if c.options.Authorization != nil {
		req.Header.Add(c.options.Authorization.Header, c.options.Authorization.Value)
	}

	if err := c.connection.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return nil, fmt.Errorf("client %s %s failed: %w", r.Method, req.URI().Path(), err)
	}

	// do we need to decompress the response?
	body := resp.Body()
	if bytes.EqualFold(resp.Header.Peek("Content-Encoding"), []byte("gzip")) {
		b, err := resp.BodyGunzip()
		if err != nil {
			return nil, fmt.Errorf("decompress the response: %w", err)
		}

		body = b
	}

	// resp is released on return, body must be copied out
	out := &Response{
		StatusCode: resp.StatusCode(),
		Body:       append([]byte(nil), body...),
	}

	if out.StatusCode < 200 || out.StatusCode > 299 {
		return out, &StatusError{StatusCode: out.StatusCode, Body: string(out.Body)}
	}

	return out, nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.options.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}

	return deadline
}
