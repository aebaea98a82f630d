package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/api"
	"github.com/sudeep-search/sudeep/internal/config"
	"github.com/sudeep-search/sudeep/internal/logging"
	"github.com/sudeep-search/sudeep/internal/lookup"
	"github.com/sudeep-search/sudeep/internal/pipeline"
)

type server interface {
	Start(ctx context.Context, addr string) error
}

var (
	loadConfig = func() (config.Config, error) {
		return config.Load(), nil
	}
	newLogger = logging.New
	newServer = func(searcher api.Searcher, source lookup.Source, cfg config.Config, logger *zap.Logger) server {
		return api.NewServer(searcher, source, cfg, logger)
	}
	notifyContext           = signal.NotifyContext
	stdout        io.Writer = os.Stdout
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "sudeep",
		Short: "Sudeep search: web results rewritten in Bangalore English",
		Long: `Sudeep looks a query up in its structured data, falls back to a live web
search, and rewrites the results through an LLM persona with a sarcastic
comment on top.

Run without arguments to start the web server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the search web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(verbose)
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run one search and print the JSON response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(verbose, strings.Join(args, " "))
		},
	}

	root.AddCommand(serveCmd, searchCmd)
	return root
}

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
	lookup   lookup.Source
	close    func()
}

func setup(verbose bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := newLogger(level, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, close: func() {}}
	p, source, closeFn, err := buildPipeline(cfg, logger)
	if err != nil {
		// The server still starts and answers every search with the
		// "system down" response.
		logger.Error("failed to initialize search pipeline", zap.Error(err))
		return a, nil
	}
	a.pipeline, a.lookup, a.close = p, source, closeFn
	logger.Info("search pipeline initialized",
		zap.String("search_provider", cfg.SearchProvider),
		zap.String("lookup_source", cfg.LookupSource),
		zap.Bool("llm_configured", p.LLMConfigured()),
	)
	return a, nil
}

func (a *app) shutdown() {
	a.close()
	_ = a.logger.Sync()
}

func runServe(verbose bool) error {
	a, err := setup(verbose)
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var searcher api.Searcher
	if a.pipeline != nil {
		searcher = a.pipeline
	}
	srv := newServer(searcher, a.lookup, a.cfg, a.logger)

	addr := fmt.Sprintf(":%s", a.cfg.Port)
	a.logger.Info("sudeep search listening", zap.String("addr", addr))
	if err := srv.Start(ctx, addr); err != nil {
		return err
	}
	return nil
}

func runSearch(verbose bool, query string) error {
	a, err := setup(verbose)
	if err != nil {
		return err
	}
	defer a.shutdown()

	ctx, cancel := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	resp := pipeline.Response{Results: []string{pipeline.SystemDown}, Comment: pipeline.CommentOffline}
	if a.pipeline != nil {
		resp = a.pipeline.Kickoff(ctx, query)
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}
