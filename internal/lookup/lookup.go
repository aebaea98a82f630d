// Package lookup provides the structured data consulted before any live
// web search.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/sudeep-search/sudeep/internal/search"
)

// ErrNotFound means the source holds no data for the query.
var ErrNotFound = errors.New("no structured data for query")

// FailureError is a recoverable lookup failure. Callers treat it exactly
// like ErrNotFound and move on to the live provider.
type FailureError struct {
	Query  string
	Reason string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("structured lookup for %q failed: %s", e.Query, e.Reason)
}

// Source answers structured lookups. Implementations return ErrNotFound
// on a miss and never a nil slice together with a nil error.
type Source interface {
	Lookup(ctx context.Context, query string) ([]search.Result, error)
}

// Pinger is implemented by sources backed by a remote system.
type Pinger interface {
	Ping(ctx context.Context) error
}

// None is a source that never has data.
type None struct{}

func (None) Lookup(ctx context.Context, query string) ([]search.Result, error) {
	return nil, ErrNotFound
}
