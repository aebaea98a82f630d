package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/llm"
)

const (
	commentTemperature = 0.9
	commentMaxTokens   = 100
)

// Commenter produces the one-line roast shown next to the results.
type Commenter struct {
	backend llm.Provider
	prompt  string
	logger  *zap.Logger
}

func NewCommenter(backend llm.Provider, prompt string, logger *zap.Logger) *Commenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Commenter{backend: backend, prompt: prompt, logger: logger}
}

// Comment always returns a non-empty string.
func (c *Commenter) Comment(ctx context.Context, query string) string {
	if c.backend == nil {
		c.logger.Warn("completion backend not configured, returning default comment")
		return CommentNoCredential
	}

	text, err := c.generate(ctx, query)
	text = strings.TrimSpace(text)
	switch {
	case errors.Is(err, llm.ErrEmptyResponse), err == nil && text == "":
		c.logger.Warn("completion backend returned an empty comment")
		return CommentEmpty
	case err != nil:
		c.logger.Error("comment generation failed", zap.Error(err))
		return CommentFailed
	}
	c.logger.Debug("generated comment", zap.String("comment", text))
	return text
}

func (c *Commenter) generate(ctx context.Context, query string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("completion backend panicked: %v", r)
		}
	}()
	return c.backend.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: c.prompt},
			{Role: "user", Content: fmt.Sprintf("Query: '%s'", query)},
		},
		Temperature: commentTemperature,
		MaxTokens:   commentMaxTokens,
	})
}
