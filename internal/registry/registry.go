// Package registry loads the static feed configuration: an ordered list
// of categories, each with an ordered list of feed descriptors. The
// ordering is load-bearing; it fixes the first-seen-wins tie-break used
// by the deduplicator.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jinxlover/daily-unbiased-news/internal/domain"
)

// FeedDescriptor is one feed entry inside a category.
type FeedDescriptor struct {
	URL   string `json:"url" yaml:"url"`
	Label string `json:"label" yaml:"label"`
}

// Category groups feeds under a topical name. Promote lists source
// domains that are moved ahead of equally recent items in this category.
type Category struct {
	Name    string           `json:"name" yaml:"name"`
	Promote []string         `json:"promote" yaml:"promote"`
	Feeds   []FeedDescriptor `json:"feeds" yaml:"feeds"`
}

type registryFile struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Registry is the immutable feed configuration for one run.
type Registry struct {
	categories []Category
}

// Load reads the registry from a YAML or JSON file, expanding
// environment variables. An empty or malformed registry is an error;
// there is nothing useful to fetch without one.
func Load(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("registry file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	file, err := parseRegistry(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Categories) == 0 {
		return nil, errors.New("registry contains no categories")
	}

	seen := make(map[string]struct{}, len(file.Categories))
	for i := range file.Categories {
		cat := sanitizeCategory(file.Categories[i])
		if err := validateCategory(cat); err != nil {
			return nil, fmt.Errorf("categories[%d]: %w", i, err)
		}
		if _, dup := seen[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = struct{}{}
		file.Categories[i] = cat
	}

	return &Registry{categories: file.Categories}, nil
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		exts []string
		fn   func([]byte, any) error
	}{
		{name: "yaml", exts: []string{".yaml", ".yml"}, fn: yaml.Unmarshal},
		{name: "json", exts: []string{".json"}, fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && !contains(d.exts, ext) {
			continue
		}
		var file registryFile
		if err := d.fn(data, &file); err == nil {
			return file, nil
		}
	}

	return registryFile{}, errors.New("registry format not recognized (expected YAML or JSON)")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func sanitizeCategory(cat Category) Category {
	cat.Name = strings.TrimSpace(cat.Name)

	promote := make([]string, 0, len(cat.Promote))
	for _, p := range cat.Promote {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			promote = append(promote, p)
		}
	}
	if len(promote) == 0 {
		promote = nil
	}
	cat.Promote = promote

	for i := range cat.Feeds {
		cat.Feeds[i].URL = strings.TrimSpace(cat.Feeds[i].URL)
		cat.Feeds[i].Label = strings.TrimSpace(cat.Feeds[i].Label)
	}
	return cat
}

func validateCategory(cat Category) error {
	if cat.Name == "" {
		return errors.New("name is required")
	}
	if len(cat.Feeds) == 0 {
		return fmt.Errorf("category %q has no feeds", cat.Name)
	}
	for i, feed := range cat.Feeds {
		if feed.URL == "" {
			return fmt.Errorf("category %q feeds[%d]: url is required", cat.Name, i)
		}
		parsed, err := url.Parse(feed.URL)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return fmt.Errorf("category %q feeds[%d]: url %q is not an absolute URL", cat.Name, i, feed.URL)
		}
	}
	return nil
}

// Categories returns the ordered category list.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// CategoryNames returns category names in registry order.
func (r *Registry) CategoryNames() []string {
	out := make([]string, len(r.categories))
	for i, cat := range r.categories {
		out[i] = cat.Name
	}
	return out
}

// Sources flattens the registry into feed sources, preserving category
// order then feed order.
func (r *Registry) Sources() []domain.FeedSource {
	var out []domain.FeedSource
	for _, cat := range r.categories {
		for _, feed := range cat.Feeds {
			out = append(out, domain.FeedSource{
				Category: cat.Name,
				URL:      feed.URL,
				Label:    feed.Label,
			})
		}
	}
	return out
}

// PromoteFor returns the promoted source domains for a category, or nil.
func (r *Registry) PromoteFor(category string) []string {
	for _, cat := range r.categories {
		if cat.Name == category {
			return cat.Promote
		}
	}
	return nil
}

// FeedCount returns the total number of feeds across all categories.
func (r *Registry) FeedCount() int {
	n := 0
	for _, cat := range r.categories {
		n += len(cat.Feeds)
	}
	return n
}
