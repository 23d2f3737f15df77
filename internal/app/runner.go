package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/reqaid/internal/config"
	"github.com/samvad-hq/reqaid/internal/logger"
	"github.com/samvad-hq/reqaid/internal/profiles"
	"github.com/samvad-hq/reqaid/internal/storage"
	"github.com/samvad-hq/reqaid/pkg/httpclient"
)

// Call describes one request issued through a named profile.
type Call struct {
	Profile  string
	Method   string
	Endpoint string
	Params   httpclient.Params
	Data     httpclient.Data
	Headers  httpclient.Headers
}

// Result is what the CLI prints for a completed call.
type Result struct {
	URL        string
	Status     string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Runner wires profiles, request clients and the history store together.
type Runner struct {
	cfg       *config.Config
	profiles  *profiles.Registry
	store     storage.Store
	log       logger.Logger
	clientFor func(profiles.Profile) httpclient.Requester
}

// NewRunner loads the profiles file and opens the history store.
func NewRunner(cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	reg, err := profiles.Load(cfg.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	names := make([]string, 0, len(reg.All()))
	for _, p := range reg.All() {
		names = append(names, p.Name)
	}
	log.DebugObj("profiles loaded", "profiles_meta", map[string]any{
		"count": len(names),
		"names": names,
	})

	store, err := storage.NewStore(cfg.HistoryType, cfg.HistoryPath, storage.Options{
		EntryTTL:        cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init history store: %w", err)
	}

	timeout := cfg.Timeout
	return &Runner{
		cfg:      cfg,
		profiles: reg,
		store:    store,
		log:      log,
		clientFor: func(p profiles.Profile) httpclient.Requester {
			return p.NewClient(httpclient.WithTimeout(timeout))
		},
	}, nil
}

// Profiles returns the configured profiles.
func (r *Runner) Profiles() []profiles.Profile {
	return r.profiles.All()
}

// Run issues one request. Transport failures are recorded in history and
// returned unchanged; a non-2xx status is a successful Result. Calls the
// client rejects before sending are not recorded.
func (r *Runner) Run(ctx context.Context, call Call) (*Result, error) {
	if r == nil || r.profiles == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}

	profile, ok := r.profiles.Get(call.Profile)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", call.Profile)
	}

	var payload *httpclient.Payload
	if len(call.Params) > 0 || call.Data != nil {
		payload = &httpclient.Payload{Params: call.Params, Data: call.Data}
	}

	start := time.Now()
	resp, reqErr := r.clientFor(profile).Do(ctx, call.Method, call.Endpoint, payload, call.Headers)
	elapsed := time.Since(start)
	if errors.Is(reqErr, httpclient.ErrInvalidMethod) || errors.Is(reqErr, httpclient.ErrInvalidParams) {
		return nil, reqErr
	}

	entry := storage.Entry{
		Profile:    profile.Name,
		Method:     strings.ToUpper(call.Method),
		URL:        joinURL(profile.BaseURL, call.Endpoint),
		DurationMs: elapsed.Milliseconds(),
		At:         start,
	}
	if resp != nil && resp.Request != nil && resp.Request.URL != "" {
		entry.URL = resp.Request.URL
	}
	if reqErr != nil {
		entry.Error = reqErr.Error()
	} else {
		entry.StatusCode = resp.StatusCode()
	}
	if err := r.store.Record(entry); err != nil {
		r.log.WarnObj("failed to record history", "error", err)
	}

	if reqErr != nil {
		r.log.ErrorObj("request failed", "request", entry)
		return nil, reqErr
	}
	r.log.InfoObj("request completed", "request", entry)

	return &Result{
		URL:        entry.URL,
		Status:     resp.Status(),
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		Duration:   elapsed,
	}, nil
}

// History returns up to limit recent calls, newest first.
func (r *Runner) History(limit int) ([]storage.Entry, error) {
	if r == nil || r.store == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}
	return r.store.List(limit)
}

// Close releases the history store.
func (r *Runner) Close() error {
	if r == nil || r.store == nil {
		return nil
	}
	return r.store.Close()
}

// joinURL mirrors how the client joins endpoints, for history entries of failed calls.
func joinURL(base, endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	base = strings.TrimRight(base, "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return base + endpoint
}
