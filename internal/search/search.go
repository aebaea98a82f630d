// Package search queries live web search backends.
//
// Every backend implements [Provider]. A backend returns an empty slice,
// never an error, when the query simply has no hits; errors are reserved
// for transport and protocol failures.
package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultLimit is the number of results requested when a caller passes zero.
const DefaultLimit = 10

// Result is a single {url, body} record. Either field may be empty; the
// formatter substitutes placeholders.
type Result struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	URL   string `json:"href" yaml:"href"`
	Body  string `json:"body" yaml:"body"`
}

// Provider is the interface that search backends implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "duckduckgo", "searxng").
	Name() string

	// Search returns at most limit results for query.
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

type Config struct {
	Provider   string
	SearXNGURL string
	Timeout    time.Duration
}

type ErrUnsupportedProvider struct {
	Provider string
}

func (e ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported search provider: %s", e.Provider)
}

// StatusError is returned when a backend answers with a non-success status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

func NewProvider(cfg Config) (Provider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "duckduckgo":
		return NewDuckDuckGoWithClient(client), nil
	case "searxng":
		if strings.TrimSpace(cfg.SearXNGURL) == "" {
			return nil, fmt.Errorf("searxng: SEARXNG_URL is required")
		}
		return NewSearXNGWithClient(cfg.SearXNGURL, client), nil
	default:
		return nil, ErrUnsupportedProvider{Provider: cfg.Provider}
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
