package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/config"
	"github.com/sudeep-search/sudeep/internal/llm"
	"github.com/sudeep-search/sudeep/internal/lookup"
	"github.com/sudeep-search/sudeep/internal/persona"
	"github.com/sudeep-search/sudeep/internal/pipeline"
	"github.com/sudeep-search/sudeep/internal/search"
)

var (
	newStaticLookup = func(path string) (lookup.Source, error) {
		if path == "" {
			return lookup.NewDefaultStatic(), nil
		}
		source, err := lookup.LoadStatic(path)
		if err != nil {
			return nil, err
		}
		return source, nil
	}
	newPostgresLookup = func(conn string) (*lookup.PostgresSource, error) {
		return lookup.NewPostgres(conn)
	}
	newSearchProvider = search.NewProvider
	newLLMProvider    = llm.NewProvider
	loadPersonaFile   = persona.Load
	readPersonas      = persona.ReadFromDisk
)

// buildPipeline assembles the pipeline from configuration. The returned
// func releases resources held by the lookup source.
func buildPipeline(cfg config.Config, logger *zap.Logger) (*pipeline.Pipeline, lookup.Source, func(), error) {
	source, closeFn, err := openLookup(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("lookup source: %w", err)
	}

	provider, err := newSearchProvider(search.Config{
		Provider:   cfg.SearchProvider,
		SearXNGURL: cfg.SearXNGURL,
		Timeout:    time.Duration(cfg.SearchTimeoutSeconds) * time.Second,
	})
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("search provider: %w", err)
	}

	backend, err := openLLM(cfg, logger)
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("llm provider: %w", err)
	}

	personas, err := loadPersonas(cfg)
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("personas: %w", err)
	}

	p := pipeline.New(pipeline.Options{
		Lookup:     source,
		Search:     provider,
		LLM:        backend,
		Personas:   personas,
		MaxResults: cfg.SearchMaxResults,
		Logger:     logger,
	})
	return p, source, closeFn, nil
}

func openLookup(cfg config.Config) (lookup.Source, func(), error) {
	switch cfg.LookupSource {
	case "", "static":
		source, err := newStaticLookup(cfg.LookupFile)
		return source, func() {}, err
	case "postgres":
		source, err := newPostgresLookup(cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return source, func() { _ = source.Close() }, nil
	case "none":
		return lookup.None{}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported lookup source: %s", cfg.LookupSource)
	}
}

// openLLM returns nil when no credential is configured, which the pipeline
// treats as "skip translation and use the canned comment".
func openLLM(cfg config.Config, logger *zap.Logger) (llm.Provider, error) {
	if cfg.LLMProvider != "local" && !cfg.LLMConfigured() {
		logger.Warn("no API key for LLM provider, translation and comments disabled", zap.String("provider", cfg.LLMProvider))
		return nil, nil
	}
	return newLLMProvider(llm.Config{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		APIKey:   cfg.LLMAPIKey(),
		Timeout:  time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
	})
}

func loadPersonas(cfg config.Config) (persona.Set, error) {
	if cfg.PersonasFile != "" {
		return loadPersonaFile(cfg.PersonasFile)
	}
	set, err := readPersonas()
	if errors.Is(err, os.ErrNotExist) {
		return persona.Default(), nil
	}
	if err != nil {
		return persona.Set{}, err
	}
	return set, nil
}
