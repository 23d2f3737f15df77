package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds every request issued by a Client.
const DefaultTimeout = 60 * time.Second

// Credentials are sent as HTTP basic auth on every request.
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Client binds a base URL, default headers and optional basic auth to a
// resty.Client and issues requests against endpoints relative to that base.
// The configuration is fixed at construction; a Client is safe for
// concurrent use.
type Client struct {
	client *resty.Client
}

type options struct {
	timeout   time.Duration
	transport http.RoundTripper
}

// Option customizes a Client at construction.
type Option func(*options)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithTransport sets the round tripper used by the underlying client.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		if rt != nil {
			o.transport = rt
		}
	}
}

// New creates a Client for baseURL. headers become the default headers of
// every request and auth, when non-nil, is sent as basic auth. The base URL
// is not validated here; a malformed value surfaces on the first request.
func New(baseURL string, headers Headers, auth *Credentials, opts ...Option) *Client {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(o.timeout)
	c.SetDisableWarn(true)
	c.SetAllowGetMethodPayload(true)
	if o.transport != nil {
		c.SetTransport(o.transport)
	}
	if len(headers) > 0 {
		c.SetHeaders(headers)
	}
	if auth != nil {
		c.SetBasicAuth(auth.Username, auth.Password)
	}
	return &Client{client: c}
}

// BaseURL returns the base every endpoint is joined onto.
func (c *Client) BaseURL() string {
	if c == nil || c.client == nil {
		return ""
	}
	return c.client.BaseURL
}

// Headers returns a copy of the default headers. Keys are in canonical form.
func (c *Client) Headers() Headers {
	if c == nil || c.client == nil {
		return nil
	}
	out := make(Headers, len(c.client.Header))
	for k := range c.client.Header {
		out[k] = c.client.Header.Get(k)
	}
	return out
}

// PerformRequest issues exactly one request. The endpoint is joined onto
// the base URL; payload.Params become the query string and payload.Data the
// JSON body. headers apply to this call only: they are added to the default
// headers and replace a default of the same name.
//
// HEAD and OPTIONS requests never carry a body.
//
// The response is returned as produced by resty, so a non-2xx status is not
// an error. Transport failures are returned unchanged. An invalid method or
// an unencodable parameter fails before anything is sent.
func (c *Client) PerformRequest(ctx context.Context, method Method, endpoint string, payload *Payload, headers Headers) (*resty.Response, error) {
	return c.Do(ctx, string(method), endpoint, payload, headers)
}

// Do is PerformRequest for a raw verb token, as read from flags or config.
func (c *Client) Do(ctx context.Context, method string, endpoint string, payload *Payload, headers Headers) (*resty.Response, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("client is not initialized")
	}
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req := c.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if payload != nil {
		if len(payload.Params) > 0 {
			values, err := payload.Params.Values()
			if err != nil {
				return nil, err
			}
			req.SetQueryParamsFromValues(values)
		}
		if payload.Data != nil {
			req.SetBody(map[string]any(payload.Data))
		}
	}

	return req.Execute(string(m), endpoint)
}
