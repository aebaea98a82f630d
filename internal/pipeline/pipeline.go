// Package pipeline turns a search query into stylized result lines and a
// comment. Every stage degrades to a canned message instead of failing, so
// Kickoff always produces a renderable Response.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/llm"
	"github.com/sudeep-search/sudeep/internal/lookup"
	"github.com/sudeep-search/sudeep/internal/persona"
	"github.com/sudeep-search/sudeep/internal/search"
)

// Response is the only artifact handed to callers.
type Response struct {
	Results []string `json:"results"`
	Comment string   `json:"comment"`
}

type Options struct {
	Lookup     lookup.Source
	Search     search.Provider
	LLM        llm.Provider // nil when no credential is configured
	Personas   persona.Set
	MaxResults int
	Logger     *zap.Logger
}

type Pipeline struct {
	formatter  *Formatter
	translator *Translator
	commenter  *Commenter
	logger     *zap.Logger
	llmReady   bool
	newTraceID func() string
}

func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	personas := opts.Personas.WithDefaults()
	return &Pipeline{
		formatter:  NewFormatter(opts.Lookup, opts.Search, opts.MaxResults, logger.Named("formatter")),
		translator: NewTranslator(opts.LLM, personas.Translator, logger.Named("translator")),
		commenter:  NewCommenter(opts.LLM, personas.Commenter, logger.Named("commenter")),
		logger:     logger,
		llmReady:   opts.LLM != nil,
		newTraceID: uuid.NewString,
	}
}

// LLMConfigured reports whether a completion backend was supplied.
func (p *Pipeline) LLMConfigured() bool {
	return p.llmReady
}

// Kickoff runs comment generation, result formatting and translation for
// one query. It never panics and never returns empty fields.
func (p *Pipeline) Kickoff(ctx context.Context, query string) Response {
	logger := p.logger.With(zap.String("query", query), zap.String("trace_id", p.newTraceID()))
	logger.Info("starting search kickoff")

	comment := p.comment(ctx, query, logger)

	outcome := p.format(ctx, query, logger)
	results := outcome.Lines
	if outcome.Failed() || HasSentinel(results) {
		logger.Info("skipping translation for error results", zap.Stringer("outcome", outcome.Kind))
	} else {
		results = p.translate(ctx, results, query, logger)
	}

	if len(results) == 0 {
		results = []string{Crashed(query)}
	}
	if comment == "" {
		comment = CommentCrashed
	}

	logger.Info("kickoff finished", zap.Stringer("outcome", outcome.Kind), zap.Int("results", len(results)))
	return Response{Results: results, Comment: comment}
}

func (p *Pipeline) comment(ctx context.Context, query string, logger *zap.Logger) (comment string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("comment generation panicked", zap.Any("panic", r))
			comment = CommentCrashed
		}
	}()
	return p.commenter.Comment(ctx, query)
}

func (p *Pipeline) format(ctx context.Context, query string, logger *zap.Logger) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("result formatting panicked", zap.Any("panic", r))
			outcome = Outcome{Kind: Crash, Lines: []string{Crashed(query)}}
		}
	}()
	return p.formatter.Format(ctx, query)
}

func (p *Pipeline) translate(ctx context.Context, lines []string, query string, logger *zap.Logger) (results []string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("translation panicked", zap.Any("panic", r))
			results = []string{Crashed(query)}
		}
	}()
	return p.translator.Translate(ctx, lines, query)
}
