// Package bias maps outlet domains to a static provenance score. The
// table is data, not inference: unknown domains score 0.
package bias

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scores are coarse by design: -1 lean-left, 0 center or unknown,
// +1 lean-right.
const (
	LeanLeft  = -1
	Center    = 0
	LeanRight = 1
)

// Table is an immutable domain to score lookup.
type Table struct {
	scores map[string]int
}

// DefaultTable returns the built-in outlet table.
func DefaultTable() *Table {
	return &Table{scores: map[string]int{
		"theguardian.com":     LeanLeft,
		"nytimes.com":         LeanLeft,
		"cnn.com":             LeanLeft,
		"msnbc.com":           LeanLeft,
		"huffpost.com":        LeanLeft,
		"vox.com":             LeanLeft,
		"reuters.com":         Center,
		"apnews.com":          Center,
		"bbc.co.uk":           Center,
		"bbc.com":             Center,
		"npr.org":             Center,
		"aljazeera.com":       Center,
		"foxnews.com":         LeanRight,
		"nypost.com":          LeanRight,
		"washingtontimes.com": LeanRight,
		"dailywire.com":       LeanRight,
		"breitbart.com":       LeanRight,
		"telegraph.co.uk":     LeanRight,
	}}
}

type tableFile struct {
	Domains map[string]int `yaml:"domains"`
}

// LoadTable reads a domain table from a YAML file. Entries outside
// [-1, 1] are rejected; the file replaces the built-in table entirely.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bias table: %w", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode bias table: %w", err)
	}
	if len(file.Domains) == 0 {
		return nil, fmt.Errorf("bias table %s contains no domains", path)
	}

	scores := make(map[string]int, len(file.Domains))
	for dom, score := range file.Domains {
		dom = normalizeDomain(dom)
		if dom == "" {
			continue
		}
		if score < LeanLeft || score > LeanRight {
			return nil, fmt.Errorf("bias table: domain %q has score %d outside [-1, 1]", dom, score)
		}
		scores[dom] = score
	}

	return &Table{scores: scores}, nil
}

// ScoreFor looks up the score for an outlet domain. Unmapped domains are
// center/unknown.
func (t *Table) ScoreFor(domain string) int {
	if t == nil {
		return Center
	}
	if score, ok := t.scores[normalizeDomain(domain)]; ok {
		return score
	}
	return Center
}

// Len returns the number of mapped domains.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.scores)
}

func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(domain, "www.")
}
