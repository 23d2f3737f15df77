package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/reqaid/internal/app"
	"github.com/samvad-hq/reqaid/internal/config"
	"github.com/samvad-hq/reqaid/pkg/httpclient"
)

func newTestOpener(t *testing.T, baseURL string) runnerFunc {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "profiles.yaml")
	content := "profiles:\n  - name: local\n    base_url: " + baseURL + "\n    auth:\n      username: u\n      password: secret\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write profiles file: %v", err)
	}
	cfg := &config.Config{
		ProfilesFile:           file,
		Timeout:                5 * time.Second,
		HistoryType:            "bbolt",
		HistoryPath:            filepath.Join(dir, "history.db"),
		HistoryTTL:             time.Hour,
		HistoryCleanupInterval: time.Hour,
	}

	var runner *app.Runner
	t.Cleanup(func() {
		if runner != nil {
			runner.Close()
		}
	})
	return func() (*app.Runner, error) {
		if runner != nil {
			return runner, nil
		}
		r, err := app.NewRunner(cfg, nil)
		runner = r
		return r, err
	}
}

func execute(t *testing.T, open runnerFunc, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRequestCommand(t *testing.T) {
	var gotBody, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotAuth, _, _ = r.BasicAuth()
		w.Header().Set("X-Reply", "yes")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	open := newTestOpener(t, srv.URL)
	out, err := execute(t, open, "request", "local", "post", "/items", "--data", `{"name":"x"}`, "-i")
	if err != nil {
		t.Fatalf("request command: %v", err)
	}
	if !strings.HasPrefix(out, "201 Created") {
		t.Fatalf("unexpected status line: %q", out)
	}
	if !strings.Contains(out, "X-Reply: yes") {
		t.Fatalf("expected response headers in output: %q", out)
	}
	if !strings.HasSuffix(out, "{\"id\":1}\n") {
		t.Fatalf("expected body at end of output: %q", out)
	}
	if strings.TrimSpace(gotBody) != `{"name":"x"}` || gotAuth != "u" {
		t.Fatalf("unexpected request body=%q auth=%q", gotBody, gotAuth)
	}

	out, err = execute(t, open, "history")
	if err != nil {
		t.Fatalf("history command: %v", err)
	}
	if !strings.Contains(out, "POST") || !strings.Contains(out, "201") {
		t.Fatalf("history missing request: %q", out)
	}
}

func TestProfilesCommandHidesPassword(t *testing.T) {
	open := newTestOpener(t, "http://example.invalid")
	out, err := execute(t, open, "profiles")
	if err != nil {
		t.Fatalf("profiles command: %v", err)
	}
	if !strings.Contains(out, "local") || !strings.Contains(out, "http://example.invalid") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("password leaked: %q", out)
	}
}

func TestRequestCommandValidatesArgs(t *testing.T) {
	open := newTestOpener(t, "http://example.invalid")
	if _, err := execute(t, open, "request", "local", "GET"); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
	_, err := execute(t, open, "request", "local", "BREW", "/")
	if !errors.Is(err, httpclient.ErrInvalidMethod) {
		t.Fatalf("expected ErrInvalidMethod, got %v", err)
	}
	if _, err := execute(t, open, "request", "local", "GET", "/", "--param", "bad"); err == nil {
		t.Fatalf("expected error for malformed param")
	}
}

func TestRequestHelpListsMethods(t *testing.T) {
	open := newTestOpener(t, "http://example.invalid")
	out, err := execute(t, open, "request", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, m := range []string{"GET", "PATCH", "LINK", "UNLINK"} {
		if !strings.Contains(out, m) {
			t.Fatalf("help does not mention %s: %q", m, out)
		}
	}
}
