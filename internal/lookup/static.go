package lookup

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sudeep-search/sudeep/internal/search"
)

// Entry is one canned query. A non-empty Fail simulates a lookup failure.
type Entry struct {
	Query   string          `yaml:"query"`
	Results []search.Result `yaml:"results"`
	Fail    string          `yaml:"fail,omitempty"`
}

type file struct {
	Entries []Entry `yaml:"entries"`
}

// Static serves canned entries from memory. Matching is case-insensitive
// on the trimmed query.
type Static struct {
	entries map[string]Entry
}

func NewStatic(entries []Entry) *Static {
	index := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		key := normalizeQuery(entry.Query)
		if key == "" {
			continue
		}
		index[key] = entry
	}
	return &Static{entries: index}
}

// DefaultEntries is the built-in data set: "food" resolves to two items and
// "cpu" simulates a missing subsection.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Query: "food",
			Results: []search.Result{
				{URL: "https://example.com/biryani", Body: "Best biryani in town, da!"},
				{URL: "https://example.com/dosa", Body: "Authentic masala dosa, super macha!"},
			},
		},
		{Query: "cpu", Fail: "subsection not found"},
	}
}

func NewDefaultStatic() *Static {
	return NewStatic(DefaultEntries())
}

// LoadStatic reads entries from a YAML file of the form
//
//	entries:
//	  - query: food
//	    results:
//	      - href: https://example.com/biryani
//	        body: Best biryani in town, da!
//	  - query: cpu
//	    fail: subsection not found
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var parsed file
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse lookup file %s: %w", path, err)
	}
	return NewStatic(parsed.Entries), nil
}

func (s *Static) Lookup(ctx context.Context, query string) ([]search.Result, error) {
	entry, ok := s.entries[normalizeQuery(query)]
	if !ok {
		return nil, ErrNotFound
	}
	if entry.Fail != "" {
		return nil, &FailureError{Query: query, Reason: entry.Fail}
	}
	if len(entry.Results) == 0 {
		return nil, ErrNotFound
	}
	results := make([]search.Result, len(entry.Results))
	copy(results, entry.Results)
	return results, nil
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
