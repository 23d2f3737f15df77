// Package httpclient binds a base URL, default headers and optional basic
// auth to a resty client once, then issues requests against relative
// endpoints with an optional payload and per-call headers.
//
//	client := httpclient.New("https://api.example.com/v1", httpclient.Headers{"X-Test": "1"}, nil)
//	resp, err := client.PerformRequest(ctx, httpclient.MethodGet, "/items",
//		&httpclient.Payload{Params: httpclient.Params{"limit": 5}}, nil)
//
// Responses are passed through untouched: a non-2xx status is not an error
// and transport failures are returned as resty reports them.
package httpclient
