package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Package profiles contains named backend targets loaded from YAML/JSON files.

// Profile describes one deployment of the expenses backend.
type Profile struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	BaseURL        string            `json:"base_url" yaml:"base_url"`
	User           string            `json:"user" yaml:"user"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	Config         map[string]any    `json:"config" yaml:"config"`
}

type profilesFile struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

const defaultTimeoutSeconds = 15

// Registry holds the loaded profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles []Profile
	idx      map[string]Profile
}

// LoadRegistry loads profiles from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("profiles file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	parsed, err := parseProfiles(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Profiles) == 0 {
		return nil, errors.New("profiles file contains no profiles entries")
	}

	reg := &Registry{
		profiles: make([]Profile, len(parsed.Profiles)),
		idx:      make(map[string]Profile, len(parsed.Profiles)),
	}
	for i := range parsed.Profiles {
		p := sanitizeProfile(parsed.Profiles[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		reg.profiles[i] = p
		reg.idx[p.ID] = p
	}

	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseProfiles(data []byte, ext string) (profilesFile, error) {
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

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out profilesFile
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}

	return profilesFile{}, errors.New("profiles file format not recognized (expected YAML or JSON)")
}

func sanitizeProfile(p Profile) Profile {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	p.User = strings.TrimSpace(p.User)

	if p.Config == nil {
		p.Config = map[string]any{}
	}
	if p.TimeoutSeconds <= 0 {
		p.TimeoutSeconds = defaultTimeoutSeconds
	}
	return p
}

func validateProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required for profile %q", p.ID)
	}
	if !strings.HasPrefix(p.BaseURL, "http://") && !strings.HasPrefix(p.BaseURL, "https://") {
		return fmt.Errorf("base_url for profile %q must be http or https", p.ID)
	}
	return nil
}

// ByID returns the profile with the given id.
func (r *Registry) ByID(id string) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// All returns a copy of the loaded profiles in file order.
func (r *Registry) All() []Profile {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Timeout returns the request timeout for the profile.
func (p Profile) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}
