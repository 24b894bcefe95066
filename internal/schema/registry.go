// Package schema implements the schema registry: a config-file driven
// catalog of JSON schemas addressable by id, URL or local path, with
// recursive link resolution and a small JSON-Schema subset validator.
package schema

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	// ErrConfig indicates the registry config file could not be read or
	// decoded.
	ErrConfig = errors.New("schema: invalid registry config")

	// ErrNotFound indicates an id or source that resolves to nothing.
	ErrNotFound = errors.New("schema: not found")
)

// Entry describes one registered schema. Source is a local file path or an
// HTTP(S) URL; Links name other entries (or sources) this schema depends
// on.
type Entry struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Source        string   `yaml:"source"`
	SchemaVersion string   `yaml:"schemaVersion"`
	Links         []string `yaml:"links"`
}

type configFile struct {
	Schemas []Entry `yaml:"schemas"`
}

// Registry resolves schema content by id, URL or path.
type Registry struct {
	entries []Entry
	fetcher Fetcher
}

// Empty returns a registry with no entries; raw URLs and paths still
// resolve.
func Empty(fetcher Fetcher) *Registry {
	return &Registry{fetcher: fetcher}
}

// Load reads a registry config (YAML or JSON; the decoder accepts both)
// and returns a Registry using fetcher for remote sources.
func Load(path string, fetcher Fetcher) (*Registry, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return Parse(payload, fetcher)
}

// Parse decodes registry config content.
func Parse(payload []byte, fetcher Fetcher) (*Registry, error) {
	var cfg configFile
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	for i, entry := range cfg.Schemas {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrConfig, i)
		}
		if entry.Source == "" {
			return nil, fmt.Errorf("%w: entry %q has no source", ErrConfig, entry.ID)
		}
	}

	return &Registry{entries: cfg.Schemas, fetcher: fetcher}, nil
}

// IDs returns the registered schema ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		ids = append(ids, entry.ID)
	}
	sort.Strings(ids)
	return ids
}

// Entries returns the registered entries in config order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

func (r *Registry) lookup(idOrSource string) (Entry, bool) {
	for _, entry := range r.entries {
		if entry.ID == idOrSource || entry.Source == idOrSource {
			return entry, true
		}
	}
	return Entry{}, false
}

// Source returns schema content by id, URL or local path. Ids resolve
// through the registry; anything else is treated directly as a URL or
// path.
func (r *Registry) Source(ctx context.Context, idOrSource string) (string, error) {
	source := idOrSource
	if entry, ok := r.lookup(idOrSource); ok {
		source = entry.Source
	}

	if isRemote(source) {
		if r.fetcher == nil {
			return "", fmt.Errorf("%w: remote source %q with no fetcher configured", ErrNotFound, source)
		}
		return r.fetcher.Fetch(ctx, source)
	}

	payload, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrNotFound, idOrSource, err)
	}
	return string(payload), nil
}

// ResolveLinks returns the schema named by idOrSource and, transitively,
// every linked schema, keyed by registry id (or by the raw source for
// unregistered ones). Link cycles terminate.
func (r *Registry) ResolveLinks(ctx context.Context, idOrSource string) (map[string]string, error) {
	resolved := make(map[string]string)
	visited := make(map[string]bool)
	if err := r.resolve(ctx, idOrSource, resolved, visited); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *Registry) resolve(ctx context.Context, idOrSource string, resolved map[string]string, visited map[string]bool) error {
	if visited[idOrSource] {
		return nil
	}
	visited[idOrSource] = true

	content, err := r.Source(ctx, idOrSource)
	if err != nil {
		return err
	}

	key := idOrSource
	entry, registered := r.lookup(idOrSource)
	if registered {
		key = entry.ID
	}
	resolved[key] = content

	if registered {
		for _, link := range entry.Links {
			if err := r.resolve(ctx, link, resolved, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
