package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/api"
	"github.com/sudeep-search/sudeep/internal/config"
	"github.com/sudeep-search/sudeep/internal/llm"
	"github.com/sudeep-search/sudeep/internal/lookup"
	"github.com/sudeep-search/sudeep/internal/persona"
	"github.com/sudeep-search/sudeep/internal/pipeline"
	"github.com/sudeep-search/sudeep/internal/search"
)

type stubServer struct {
	err error
}

func (s stubServer) Start(ctx context.Context, addr string) error {
	return s.err
}

type stubProvider struct {
	items []search.Result
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	return s.items, nil
}

func captureDeps() func() {
	origLoadConfig := loadConfig
	origNewLogger := newLogger
	origNewServer := newServer
	origNotifyContext := notifyContext
	origStdout := stdout
	origNewStaticLookup := newStaticLookup
	origNewPostgresLookup := newPostgresLookup
	origNewSearchProvider := newSearchProvider
	origNewLLMProvider := newLLMProvider
	origLoadPersonaFile := loadPersonaFile
	origReadPersonas := readPersonas

	return func() {
		loadConfig = origLoadConfig
		newLogger = origNewLogger
		newServer = origNewServer
		notifyContext = origNotifyContext
		stdout = origStdout
		newStaticLookup = origNewStaticLookup
		newPostgresLookup = origNewPostgresLookup
		newSearchProvider = origNewSearchProvider
		newLLMProvider = origNewLLMProvider
		loadPersonaFile = origLoadPersonaFile
		readPersonas = origReadPersonas
	}
}

// stubDeps replaces every external dependency with an offline stand-in.
func stubDeps(t *testing.T, cfg config.Config) {
	t.Helper()
	t.Cleanup(captureDeps())

	loadConfig = func() (config.Config, error) {
		return cfg, nil
	}
	newLogger = func(string, string) (*zap.Logger, error) {
		return zap.NewNop(), nil
	}
	newSearchProvider = func(search.Config) (search.Provider, error) {
		return stubProvider{}, nil
	}
	readPersonas = func() (persona.Set, error) {
		return persona.Set{}, os.ErrNotExist
	}
	notifyContext = func(ctx context.Context, _ ...os.Signal) (context.Context, context.CancelFunc) {
		return context.WithCancel(ctx)
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestServeStartsServerWithPipeline(t *testing.T) {
	stubDeps(t, config.Config{Port: "0", LookupSource: "static", LLMProvider: "groq"})

	var gotSearcher api.Searcher
	var gotSource lookup.Source
	newServer = func(searcher api.Searcher, source lookup.Source, _ config.Config, _ *zap.Logger) server {
		gotSearcher, gotSource = searcher, source
		return stubServer{}
	}

	require.NoError(t, execute(t))
	require.NotNil(t, gotSearcher)
	require.IsType(t, &lookup.Static{}, gotSource)
}

func TestServeWithBrokenPipelineStillStarts(t *testing.T) {
	stubDeps(t, config.Config{Port: "0", LookupSource: "bogus"})

	called := false
	newServer = func(searcher api.Searcher, _ lookup.Source, _ config.Config, _ *zap.Logger) server {
		called = true
		require.Nil(t, searcher)
		return stubServer{}
	}

	require.NoError(t, execute(t, "serve"))
	require.True(t, called)
}

func TestServeReturnsServerError(t *testing.T) {
	stubDeps(t, config.Config{Port: "0"})
	newServer = func(api.Searcher, lookup.Source, config.Config, *zap.Logger) server {
		return stubServer{err: errors.New("address in use")}
	}

	require.Error(t, execute(t, "serve"))
}

func TestConfigLoadFailure(t *testing.T) {
	stubDeps(t, config.Config{})
	loadConfig = func() (config.Config, error) {
		return config.Config{}, errors.New("config load failed")
	}

	require.Error(t, execute(t, "search", "food"))
}

func TestLoggerFailure(t *testing.T) {
	stubDeps(t, config.Config{})
	newLogger = func(string, string) (*zap.Logger, error) {
		return nil, errors.New("bad level")
	}

	require.Error(t, execute(t, "serve"))
}

func TestVerboseForcesDebugLevel(t *testing.T) {
	stubDeps(t, config.Config{LogLevel: "error"})
	var gotLevel string
	newLogger = func(level string, _ string) (*zap.Logger, error) {
		gotLevel = level
		return zap.NewNop(), nil
	}
	var out bytes.Buffer
	stdout = &out

	require.NoError(t, execute(t, "--verbose", "search", "food"))
	require.Equal(t, "debug", gotLevel)
}

func TestSearchPrintsStructuredResults(t *testing.T) {
	stubDeps(t, config.Config{LookupSource: "static", LLMProvider: "groq"})
	var out bytes.Buffer
	stdout = &out

	require.NoError(t, execute(t, "search", "FOOD"))

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, []string{
		"https://example.com/biryani - Best biryani in town, da!",
		"https://example.com/dosa - Authentic masala dosa, super macha!",
	}, resp.Results)
	require.Equal(t, pipeline.CommentNoCredential, resp.Comment)
}

func TestSearchJoinsArguments(t *testing.T) {
	stubDeps(t, config.Config{LookupSource: "none"})
	var out bytes.Buffer
	stdout = &out

	require.NoError(t, execute(t, "search", "masala", "dosa"))

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, []string{pipeline.NoResults("masala dosa")}, resp.Results)
}

func TestSearchWithBrokenPipelinePrintsSystemDown(t *testing.T) {
	stubDeps(t, config.Config{LookupSource: "static"})
	newSearchProvider = func(search.Config) (search.Provider, error) {
		return nil, search.ErrUnsupportedProvider{Provider: "bogus"}
	}
	var out bytes.Buffer
	stdout = &out

	require.NoError(t, execute(t, "search", "food"))

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, []string{pipeline.SystemDown}, resp.Results)
	require.Equal(t, pipeline.CommentOffline, resp.Comment)
}

func TestSearchRequiresQuery(t *testing.T) {
	stubDeps(t, config.Config{})
	require.Error(t, execute(t, "search"))
}

func TestOpenLookup(t *testing.T) {
	t.Cleanup(captureDeps())

	source, closeFn, err := openLookup(config.Config{LookupSource: "none"})
	require.NoError(t, err)
	require.Equal(t, lookup.None{}, source)
	closeFn()

	_, _, err = openLookup(config.Config{LookupSource: "mongo"})
	require.EqualError(t, err, "unsupported lookup source: mongo")

	newPostgresLookup = func(conn string) (*lookup.PostgresSource, error) {
		require.Equal(t, "postgres://example", conn)
		return nil, errors.New("connection refused")
	}
	_, _, err = openLookup(config.Config{LookupSource: "postgres", PostgresURL: "postgres://example"})
	require.EqualError(t, err, "connection refused")

	_, _, err = openLookup(config.Config{LookupSource: "static", LookupFile: "/does/not/exist.yaml"})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenLLM(t *testing.T) {
	t.Cleanup(captureDeps())
	logger := zap.NewNop()

	backend, err := openLLM(config.Config{LLMProvider: "groq"}, logger)
	require.NoError(t, err)
	require.Nil(t, backend)

	backend, err = openLLM(config.Config{LLMProvider: "local"}, logger)
	require.NoError(t, err)
	require.Equal(t, llm.LocalProvider{}, backend)

	var got llm.Config
	newLLMProvider = func(cfg llm.Config) (llm.Provider, error) {
		got = cfg
		return llm.LocalProvider{}, nil
	}
	backend, err = openLLM(config.Config{LLMProvider: "groq", GroqAPIKey: "key", LLMModel: "m", LLMTimeoutSeconds: 5}, logger)
	require.NoError(t, err)
	require.NotNil(t, backend)
	require.Equal(t, "key", got.APIKey)
	require.Equal(t, "m", got.Model)
	require.Equal(t, "groq", got.Provider)
}

func TestLoadPersonas(t *testing.T) {
	t.Cleanup(captureDeps())

	loadPersonaFile = func(path string) (persona.Set, error) {
		require.Equal(t, "/etc/personas.yaml", path)
		return persona.Set{Translator: "t", Commenter: "c"}, nil
	}
	set, err := loadPersonas(config.Config{PersonasFile: "/etc/personas.yaml"})
	require.NoError(t, err)
	require.Equal(t, "t", set.Translator)

	readPersonas = func() (persona.Set, error) {
		return persona.Set{}, os.ErrNotExist
	}
	set, err = loadPersonas(config.Config{})
	require.NoError(t, err)
	require.Equal(t, persona.Default(), set)

	readPersonas = func() (persona.Set, error) {
		return persona.Set{}, errors.New("parse persona file: bad yaml")
	}
	_, err = loadPersonas(config.Config{})
	require.Error(t, err)
}
