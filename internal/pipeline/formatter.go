package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/clean"
	"github.com/sudeep-search/sudeep/internal/lookup"
	"github.com/sudeep-search/sudeep/internal/search"
)

// MaxLines caps the number of formatted result lines.
const MaxLines = 10

var errNoProvider = errors.New("no search provider configured")

// Formatter turns a query into "<url> - <body>" lines, preferring the
// structured source and falling back to the live provider.
type Formatter struct {
	source   lookup.Source
	provider search.Provider
	limit    int
	logger   *zap.Logger
}

func NewFormatter(source lookup.Source, provider search.Provider, limit int, logger *zap.Logger) *Formatter {
	if limit <= 0 || limit > MaxLines {
		limit = MaxLines
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{source: source, provider: provider, limit: limit, logger: logger}
}

// Format never fails; the returned outcome always carries at least one line.
func (f *Formatter) Format(ctx context.Context, query string) Outcome {
	if lines := f.structured(ctx, query); len(lines) > 0 {
		f.logger.Info("using structured results", zap.Int("count", len(lines)))
		return Outcome{Kind: StructuredHit, Lines: lines}
	}
	f.logger.Info("structured data not usable, falling back to search provider")
	return f.fallback(ctx, query)
}

func (f *Formatter) structured(ctx context.Context, query string) (lines []string) {
	if f.source == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("structured lookup panicked", zap.Any("panic", r))
			lines = nil
		}
	}()

	items, err := f.source.Lookup(ctx, query)
	var failure *lookup.FailureError
	switch {
	case errors.Is(err, lookup.ErrNotFound):
		f.logger.Debug("no structured data for query")
		return nil
	case errors.As(err, &failure):
		f.logger.Warn("structured lookup reported a failure", zap.String("reason", failure.Reason))
		return nil
	case err != nil:
		f.logger.Error("structured lookup failed", zap.Error(err))
		return nil
	}
	return formatLines(items, structuredPlaceholder, f.limit)
}

func (f *Formatter) fallback(ctx context.Context, query string) Outcome {
	items, err := f.search(ctx, query)
	if err != nil {
		f.logger.Error("search provider failed", zap.Error(err))
		return Outcome{Kind: ProviderFailure, Lines: []string{SearchFailed(query)}, Err: err}
	}
	if len(items) == 0 {
		f.logger.Warn("search provider returned no results")
		return Outcome{Kind: ProviderEmpty, Lines: []string{NoResults(query)}}
	}
	lines := formatLines(items, snippetPlaceholder, f.limit)
	if len(lines) == 0 {
		f.logger.Warn("search provider results were all empty after cleaning", zap.Int("raw", len(items)))
		return Outcome{Kind: ProviderUnusable, Lines: []string{NoValidResults(query)}}
	}
	f.logger.Info("search provider succeeded", zap.String("provider", f.provider.Name()), zap.Int("count", len(lines)))
	return Outcome{Kind: ProviderHit, Lines: lines}
}

func (f *Formatter) search(ctx context.Context, query string) (items []search.Result, err error) {
	if f.provider == nil {
		return nil, errNoProvider
	}
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("search provider panicked: %v", r)
		}
	}()
	return f.provider.Search(ctx, query, f.limit)
}

func formatLines(items []search.Result, placeholder string, limit int) []string {
	raw := make([]string, 0, len(items))
	for _, item := range items {
		url := strings.TrimSpace(item.URL)
		if url == "" {
			url = "#"
		}
		body := strings.TrimSpace(item.Body)
		if body == "" {
			body = placeholder
		}
		raw = append(raw, url+" - "+body)
	}
	return clean.Lines(raw, limit)
}
