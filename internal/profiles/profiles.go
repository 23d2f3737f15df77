package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samvad-hq/reqaid/pkg/httpclient"
	"gopkg.in/yaml.v3"
)

// Package profiles loads named client configurations (YAML/JSON).

// Profile is a named base URL with its default headers and optional basic auth.
type Profile struct {
	Name    string                  `json:"name" yaml:"name"`
	BaseURL string                  `json:"base_url" yaml:"base_url"`
	Headers map[string]string       `json:"headers" yaml:"headers"`
	Auth    *httpclient.Credentials `json:"auth,omitempty" yaml:"auth,omitempty"`
}

// NewClient builds a RequestClient bound to the profile.
func (p Profile) NewClient(opts ...httpclient.Option) *httpclient.Client {
	return httpclient.New(p.BaseURL, httpclient.Headers(p.Headers), p.Auth, opts...)
}

// Summary describes the profile without exposing credentials.
func (p Profile) Summary() map[string]any {
	names := make([]string, 0, len(p.Headers))
	for k := range p.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	return map[string]any{
		"name":     p.Name,
		"base_url": p.BaseURL,
		"headers":  names,
		"auth":     p.Auth != nil,
	}
}

type document struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Registry is an immutable, name-indexed set of profiles.
type Registry struct {
	profiles []Profile
	idx      map[string]Profile
}

// Load reads a profiles file. The format is picked from the extension
// (.yaml, .yml, .json); files without one are tried as YAML then JSON.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("profiles file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	doc, err := parseDocument(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(doc.Profiles)
}

// NewRegistry validates profiles and indexes them by name.
func NewRegistry(list []Profile) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.New("profiles file contains no profiles entries")
	}

	reg := &Registry{
		profiles: make([]Profile, 0, len(list)),
		idx:      make(map[string]Profile, len(list)),
	}
	for i := range list {
		p := sanitizeProfile(list[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profile[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.Name]; exists {
			return nil, fmt.Errorf("duplicate profile name %q", p.Name)
		}
		reg.profiles = append(reg.profiles, p)
		reg.idx[p.Name] = p
	}
	return reg, nil
}

// All returns the profiles in file order.
func (r *Registry) All() []Profile {
	if r == nil {
		return nil
	}
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Get returns the profile with the given name.
func (r *Registry) Get(name string) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}
	p, ok := r.idx[strings.TrimSpace(name)]
	return p, ok
}

func parseDocument(data []byte, ext string) (document, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		doc, err := unmarshalDocument(d.name, data, d.fn)
		if err == nil {
			return doc, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return document{}, fmt.Errorf("profiles file format not recognized (expected YAML or JSON): %w", lastErr)
	}
	return document{}, fmt.Errorf("profiles file extension %q not supported (expected .yaml, .yml or .json)", ext)
}

type unmarshalFn func([]byte, any) error

func unmarshalDocument(name string, data []byte, fn unmarshalFn) (document, error) {
	var doc document
	if err := fn(data, &doc); err != nil {
		return document{}, fmt.Errorf("decode %s profiles: %w", name, err)
	}
	return doc, nil
}

func sanitizeProfile(p Profile) Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.BaseURL = strings.TrimSpace(p.BaseURL)

	if len(p.Headers) > 0 {
		headers := make(map[string]string, len(p.Headers))
		for k, v := range p.Headers {
			if k = strings.TrimSpace(k); k != "" {
				headers[k] = v
			}
		}
		p.Headers = headers
	}
	if p.Auth != nil {
		auth := *p.Auth
		p.Auth = &auth
	}
	return p
}

func validateProfile(p Profile) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required for profile %q", p.Name)
	}
	if p.Auth != nil && p.Auth.Username == "" {
		return fmt.Errorf("auth.username is required for profile %q", p.Name)
	}
	return nil
}
