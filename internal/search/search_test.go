package search

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(Config{})
	require.NoError(t, err)
	require.IsType(t, &DuckDuckGo{}, provider)
	require.Equal(t, "duckduckgo", provider.Name())

	provider, err = NewProvider(Config{Provider: "SearXNG", SearXNGURL: "http://searx.test/", Timeout: time.Second})
	require.NoError(t, err)
	searx, ok := provider.(*SearXNG)
	require.True(t, ok)
	require.Equal(t, "http://searx.test", searx.baseURL)
	require.Equal(t, time.Second, searx.httpClient.Timeout)
}

func TestNewProvider_SearXNGRequiresURL(t *testing.T) {
	_, err := NewProvider(Config{Provider: "searxng"})
	require.Error(t, err)
}

func TestNewProvider_Unsupported(t *testing.T) {
	_, err := NewProvider(Config{Provider: "altavista"})
	var unsupported ErrUnsupportedProvider
	require.True(t, errors.As(err, &unsupported))
	require.Equal(t, "unsupported search provider: altavista", err.Error())
}
