package httpclient

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// Response is a minimal HTTP response contract. *resty.Response satisfies it.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Requester abstracts Do so callers can inject mocks or different transports.
type Requester interface {
	Do(ctx context.Context, method string, endpoint string, payload *Payload, headers Headers) (*resty.Response, error)
}

var (
	_ Requester = (*Client)(nil)
	_ Response  = (*resty.Response)(nil)
)
