package lookup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sudeep-search/sudeep/internal/search"
)

func TestStatic_DefaultFood(t *testing.T) {
	source := NewDefaultStatic()

	results, err := source.Lookup(context.Background(), "FOOD")
	require.NoError(t, err)
	require.Equal(t, []search.Result{
		{URL: "https://example.com/biryani", Body: "Best biryani in town, da!"},
		{URL: "https://example.com/dosa", Body: "Authentic masala dosa, super macha!"},
	}, results)
}

func TestStatic_DefaultCPUFails(t *testing.T) {
	source := NewDefaultStatic()

	results, err := source.Lookup(context.Background(), "Cpu")
	require.Nil(t, results)
	var failure *FailureError
	require.True(t, errors.As(err, &failure))
	require.Equal(t, "subsection not found", failure.Reason)
	require.Equal(t, "Cpu", failure.Query)
}

func TestStatic_Miss(t *testing.T) {
	_, err := NewDefaultStatic().Lookup(context.Background(), "garam masala")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStatic_ResultsAreCopied(t *testing.T) {
	source := NewDefaultStatic()
	first, err := source.Lookup(context.Background(), "food")
	require.NoError(t, err)
	first[0].URL = "mutated"

	second, err := source.Lookup(context.Background(), "food")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/biryani", second[0].URL)
}

func TestStatic_EmptyEntryIsMiss(t *testing.T) {
	source := NewStatic([]Entry{{Query: "ghost"}, {Query: "  "}})
	_, err := source.Lookup(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = source.Lookup(context.Background(), "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadStatic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookup.yaml")
	content := `entries:
  - query: Chai
    results:
      - href: https://example.com/chai
        body: Cutting chai, macha
      - body: No link for this one
  - query: traffic
    fail: silk board jammed
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	source, err := LoadStatic(path)
	require.NoError(t, err)

	results, err := source.Lookup(context.Background(), "chai")
	require.NoError(t, err)
	require.Equal(t, []search.Result{
		{URL: "https://example.com/chai", Body: "Cutting chai, macha"},
		{Body: "No link for this one"},
	}, results)

	_, err = source.Lookup(context.Background(), "traffic")
	var failure *FailureError
	require.True(t, errors.As(err, &failure))
	require.Contains(t, err.Error(), "silk board jammed")

	_, err = source.Lookup(context.Background(), "food")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadStatic_Errors(t *testing.T) {
	_, err := LoadStatic(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries: [:"), 0o600))
	_, err = LoadStatic(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse lookup file")
}

func TestNone(t *testing.T) {
	_, err := None{}.Lookup(context.Background(), "food")
	require.ErrorIs(t, err, ErrNotFound)
}
