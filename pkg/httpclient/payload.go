package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

// ErrInvalidParams is returned when a query parameter value cannot be encoded.
var ErrInvalidParams = errors.New("invalid query parameter")

// Headers is a set of request header names and values.
type Headers map[string]string

// Params holds URL query parameters. Slice and array values expand into
// repeated keys and nil values are dropped. Maps and structs are sent as
// JSON; times as RFC 3339.
type Params map[string]any

// Data is serialized as the JSON request body.
type Data map[string]any

// Payload carries the optional query parameters and body of a single request.
type Payload struct {
	Params Params
	Data   Data
}

// Values converts p into url.Values.
func (p Params) Values() (url.Values, error) {
	values := make(url.Values, len(p))
	for key, raw := range p {
		if isNil(raw) {
			continue
		}
		if b, ok := raw.([]byte); ok {
			values.Add(key, string(b))
			continue
		}

		rv := reflect.ValueOf(raw)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				item := rv.Index(i).Interface()
				if isNil(item) {
					continue
				}
				s, err := paramString(item)
				if err != nil {
					return nil, fmt.Errorf("%w %q[%d]: %v", ErrInvalidParams, key, i, err)
				}
				values.Add(key, s)
			}
		default:
			s, err := paramString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w %q: %v", ErrInvalidParams, key, err)
			}
			values.Add(key, s)
		}
	}
	return values, nil
}

func paramString(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case *time.Time:
		return t.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return t.String(), nil
	}

	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return jsonString(v)
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s, nil
	}
	return jsonString(v)
}

func jsonString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
