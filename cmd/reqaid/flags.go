package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/reqaid/pkg/httpclient"
)

func splitPair(raw, kind string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid %s %q (expected key=value)", kind, raw)
	}
	return key, value, nil
}

// parseParams collects key=value pairs; a repeated key becomes a list.
func parseParams(raw []string) (httpclient.Params, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	lists := make(map[string][]string, len(raw))
	for _, r := range raw {
		key, value, err := splitPair(r, "param")
		if err != nil {
			return nil, err
		}
		lists[key] = append(lists[key], value)
	}

	params := make(httpclient.Params, len(lists))
	for key, values := range lists {
		if len(values) == 1 {
			params[key] = values[0]
		} else {
			params[key] = values
		}
	}
	return params, nil
}

// parseHeaders collects key=value pairs; the last value of a repeated key wins.
func parseHeaders(raw []string) (httpclient.Headers, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(httpclient.Headers, len(raw))
	for _, r := range raw {
		key, value, err := splitPair(r, "header")
		if err != nil {
			return nil, err
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

// parseData decodes a JSON object body. An empty string means no body.
func parseData(raw string) (httpclient.Data, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var data httpclient.Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("invalid --data (expected a JSON object): %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("invalid --data (expected a JSON object, got null)")
	}
	return data, nil
}
