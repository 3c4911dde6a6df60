package feed

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed feeds.yml
var defaultRegistryYAML []byte

var ErrUnknownCategory = errors.New("unknown category")

type Category struct {
	Key   string      `yaml:"key"`
	Feeds []FeedEntry `yaml:"feeds"`
}

type registryFile struct {
	Categories []Category `yaml:"categories"`
}

// Registry is the static category -> feed list mapping. It is immutable
// after construction.
type Registry struct {
	keys  []string
	feeds map[string][]FeedEntry
}

func NewRegistry(categories []Category) (*Registry, error) {
	r := &Registry{
		keys:  make([]string, 0, len(categories)),
		feeds: make(map[string][]FeedEntry, len(categories)),
	}

	for i, category := range categories {
		if err := validateCategory(category); err != nil {
			return nil, fmt.Errorf("invalid category at index %d: %w", i, err)
		}
		if _, ok := r.feeds[category.Key]; ok {
			return nil, fmt.Errorf("duplicate category: %s", category.Key)
		}

		entries := make([]FeedEntry, len(category.Feeds))
		for j, entry := range category.Feeds {
			entries[j] = FeedEntry{
				Source: strings.TrimSpace(entry.Source),
				URL:    strings.TrimSpace(entry.URL),
			}
		}

		r.keys = append(r.keys, category.Key)
		r.feeds[category.Key] = entries
	}

	return r, nil
}

// DefaultRegistry returns the embedded registry.
func DefaultRegistry() *Registry {
	r, err := parseRegistry(defaultRegistryYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded feed registry is invalid: %v", err))
	}
	return r
}

// LoadRegistry reads a registry YAML file. An empty path selects the
// embedded default.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	r, err := parseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("invalid registry %s: %w", path, err)
	}

	slog.Debug("Feed registry loaded", "path", path, "categories", len(r.keys))
	return r, nil
}

func parseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return NewRegistry(file.Categories)
}

// Categories returns the category keys in registry order.
func (r *Registry) Categories() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Registry) Has(category string) bool {
	_, ok := r.feeds[category]
	return ok
}

// Feeds returns a copy of the category's feed list; unknown categories
// yield an empty list.
func (r *Registry) Feeds(category string) []FeedEntry {
	entries := r.feeds[category]
	out := make([]FeedEntry, len(entries))
	copy(out, entries)
	return out
}

func (r *Registry) FeedCount() int {
	count := 0
	for _, entries := range r.feeds {
		count += len(entries)
	}
	return count
}

func validateCategory(category Category) error {
	key := strings.TrimSpace(category.Key)
	if key == "" {
		return fmt.Errorf("category key is required")
	}
	if key != category.Key {
		return fmt.Errorf("category key %q has surrounding whitespace", category.Key)
	}
	if key == LocalCategory {
		return fmt.Errorf("category key %q is reserved", LocalCategory)
	}

	for i, entry := range category.Feeds {
		if strings.TrimSpace(entry.Source) == "" {
			return fmt.Errorf("feed at index %d: source is required", i)
		}
		u, err := url.Parse(strings.TrimSpace(entry.URL))
		if err != nil {
			return fmt.Errorf("feed at index %d: invalid url: %w", i, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed at index %d: url must be http or https", i)
		}
		if u.Host == "" {
			return fmt.Errorf("feed at index %d: url host is required", i)
		}
	}

	return nil
}
