package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/clean"
	"github.com/sudeep-search/sudeep/internal/llm"
)

const (
	translateTemperature = 0.9
	translateMaxTokens   = 500
)

// Translator rewrites result lines through the completion backend. A nil
// backend means no credential is configured.
type Translator struct {
	backend llm.Provider
	prompt  string
	logger  *zap.Logger
}

func NewTranslator(backend llm.Provider, prompt string, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{backend: backend, prompt: prompt, logger: logger}
}

// Translate returns the rewritten lines, or lines itself whenever the
// rewrite is skipped or fails.
func (t *Translator) Translate(ctx context.Context, lines []string, query string) []string {
	if t.backend == nil {
		t.logger.Warn("completion backend not configured, skipping translation")
		return lines
	}
	if len(lines) == 0 || HasSentinel(lines) {
		t.logger.Info("skipping translation for error or empty results")
		return lines
	}

	t.logger.Info("translating results", zap.Int("count", len(lines)))
	content, err := t.generate(ctx, lines, query)
	if err != nil {
		t.logger.Error("translation failed", zap.Error(err))
		return lines
	}

	translated := clean.Lines(strings.Split(content, "\n"), 0)
	if len(translated) == 0 {
		t.logger.Warn("translation returned no usable lines, keeping originals")
		return lines
	}
	return translated
}

func (t *Translator) generate(ctx context.Context, lines []string, query string) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			content, err = "", fmt.Errorf("completion backend panicked: %v", r)
		}
	}()
	return t.backend.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: t.prompt},
			{Role: "user", Content: fmt.Sprintf("Query: '%s'. Results to translate:\n%s", query, strings.Join(lines, "\n"))},
		},
		Temperature: translateTemperature,
		MaxTokens:   translateMaxTokens,
	})
}
