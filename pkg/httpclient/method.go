package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidMethod is returned when a method token is outside the supported verb set.
var ErrInvalidMethod = errors.New("invalid request method")

// Method is an HTTP verb accepted by Client.PerformRequest.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodDelete  Method = http.MethodDelete
	MethodHead    Method = http.MethodHead
	MethodOptions Method = http.MethodOptions
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodLink    Method = "LINK"
	MethodUnlink  Method = "UNLINK"
)

var knownMethods = []Method{
	MethodGet,
	MethodDelete,
	MethodHead,
	MethodOptions,
	MethodPost,
	MethodPut,
	MethodPatch,
	MethodLink,
	MethodUnlink,
}

// methodTokens maps every accepted spelling (all lower or all upper case) to its canonical verb.
var methodTokens = func() map[string]Method {
	out := make(map[string]Method, len(knownMethods)*2)
	for _, m := range knownMethods {
		out[string(m)] = m
		out[strings.ToLower(string(m))] = m
	}
	return out
}()

// Methods returns the canonical verbs in a stable order.
func Methods() []Method {
	out := make([]Method, len(knownMethods))
	copy(out, knownMethods)
	return out
}

// ParseMethod resolves a verb token to its canonical upper-case Method.
// Mixed-case tokens such as "Get" are rejected.
func ParseMethod(token string) (Method, error) {
	m, ok := methodTokens[token]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrInvalidMethod, token)
	}
	return m, nil
}

// Valid reports whether m is one of the accepted tokens.
func (m Method) Valid() bool {
	_, ok := methodTokens[string(m)]
	return ok
}

func (m Method) String() string { return string(m) }
