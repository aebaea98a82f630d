package llm

import (
	"context"
	"errors"
)

// LocalProvider stands in when no remote backend is wanted. Every call
// fails, which sends callers down their fallback paths.
type LocalProvider struct{}

func (LocalProvider) Generate(ctx context.Context, req Request) (string, error) {
	return "", errors.New("local LLM mode is not implemented")
}
