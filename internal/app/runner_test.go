package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/reqaid/internal/config"
	"github.com/samvad-hq/reqaid/internal/profiles"
	"github.com/samvad-hq/reqaid/pkg/httpclient"
)

func newTestConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "profiles.yaml")
	content := "profiles:\n  - name: local\n    base_url: " + baseURL + "\n    headers:\n      X-Test: \"1\"\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write profiles file: %v", err)
	}
	return &config.Config{
		ProfilesFile:           file,
		Timeout:                5 * time.Second,
		HistoryType:            "bbolt",
		HistoryPath:            filepath.Join(dir, "history.db"),
		HistoryTTL:             time.Hour,
		HistoryCleanupInterval: time.Hour,
	}
}

func newTestRunner(t *testing.T, baseURL string) *Runner {
	t.Helper()
	runner, err := NewRunner(newTestConfig(t, baseURL), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	t.Cleanup(func() { runner.Close() })
	return runner
}

func TestRunnerRunRecordsHistory(t *testing.T) {
	var gotQuery, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotHeader = r.Header.Get("X-Test")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))
	defer srv.Close()

	runner := newTestRunner(t, srv.URL+"/api")

	res, err := runner.Run(context.Background(), Call{
		Profile:  "local",
		Method:   "get",
		Endpoint: "/items",
		Params:   httpclient.Params{"limit": 5},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.StatusCode != http.StatusAccepted || string(res.Body) != "queued" {
		t.Fatalf("unexpected result %d %q", res.StatusCode, res.Body)
	}
	if gotQuery != "limit=5" || gotHeader != "1" {
		t.Fatalf("unexpected request query=%q header=%q", gotQuery, gotHeader)
	}

	entries, err := runner.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Profile != "local" || e.Method != "GET" || e.StatusCode != http.StatusAccepted {
		t.Fatalf("unexpected entry %+v", e)
	}
	if !strings.HasPrefix(e.URL, srv.URL+"/api/items") {
		t.Fatalf("unexpected entry url %q", e.URL)
	}
}

func TestRunnerRunRecordsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	runner := newTestRunner(t, base)

	if _, err := runner.Run(context.Background(), Call{Profile: "local", Method: "POST", Endpoint: "items", Data: httpclient.Data{"name": "x"}}); err == nil {
		t.Fatalf("expected transport error")
	}

	entries, err := runner.History(0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 1 || entries[0].Error == "" || entries[0].StatusCode != 0 {
		t.Fatalf("expected failed entry, got %+v", entries)
	}
}

func TestRunnerRunRejectsUnknownProfileAndMethod(t *testing.T) {
	runner := newTestRunner(t, "http://example.invalid")

	if _, err := runner.Run(context.Background(), Call{Profile: "missing", Method: "GET"}); err == nil {
		t.Fatalf("expected unknown profile error")
	}
	_, err := runner.Run(context.Background(), Call{Profile: "local", Method: "Get"})
	if !errors.Is(err, httpclient.ErrInvalidMethod) {
		t.Fatalf("expected ErrInvalidMethod, got %v", err)
	}

	_, err = runner.Run(context.Background(), Call{
		Profile: "local",
		Method:  "GET",
		Params:  httpclient.Params{"ch": make(chan int)},
	})
	if !errors.Is(err, httpclient.ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}

	entries, err := runner.History(0)
	if err != nil || len(entries) != 0 {
		t.Fatalf("rejected calls must not be recorded: %v %v", entries, err)
	}
}

// stubRequester returns a canned response without touching the network.
type stubRequester struct {
	calls   int
	headers httpclient.Headers
}

func (s *stubRequester) Do(_ context.Context, _ string, _ string, _ *httpclient.Payload, headers httpclient.Headers) (*resty.Response, error) {
	s.calls++
	s.headers = headers
	return &resty.Response{RawResponse: &http.Response{StatusCode: http.StatusTeapot, Status: "418 I'm a teapot", Header: http.Header{}}}, nil
}

func TestRunnerUsesInjectedRequester(t *testing.T) {
	runner := newTestRunner(t, "http://example.invalid")
	stub := &stubRequester{}
	runner.clientFor = func(profiles.Profile) httpclient.Requester { return stub }

	res, err := runner.Run(context.Background(), Call{
		Profile: "local",
		Method:  "DELETE",
		Headers: httpclient.Headers{"X-Call": "1"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stub.calls != 1 || stub.headers["X-Call"] != "1" {
		t.Fatalf("stub not called as expected: %+v", stub)
	}
	if res.StatusCode != http.StatusTeapot {
		t.Fatalf("unexpected status %d", res.StatusCode)
	}
	if res.URL != "http://example.invalid" {
		t.Fatalf("unexpected url %q", res.URL)
	}
}

func TestJoinURL(t *testing.T) {
	cases := []struct{ base, endpoint, want string }{
		{"http://h/api", "/items", "http://h/api/items"},
		{"http://h/api/", "items", "http://h/api/items"},
		{"http://h", "", "http://h"},
		{"http://h", "https://other/x", "https://other/x"},
	}
	for _, tc := range cases {
		if got := joinURL(tc.base, tc.endpoint); got != tc.want {
			t.Fatalf("joinURL(%q, %q) = %q, want %q", tc.base, tc.endpoint, got, tc.want)
		}
	}
}
