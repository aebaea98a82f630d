package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	"github.com/sudeep-search/sudeep/internal/llm"
	"github.com/sudeep-search/sudeep/internal/search"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// isComment matches requests issued by the Commenter.
func isComment(req llm.Request) bool {
	return req.MaxTokens == commentMaxTokens
}

func isTranslate(req llm.Request) bool {
	return req.MaxTokens == translateMaxTokens
}

type fakeSource struct {
	items []search.Result
	err   error
	panic bool
	calls int
}

func (f *fakeSource) Lookup(ctx context.Context, query string) ([]search.Result, error) {
	f.calls++
	if f.panic {
		panic("lookup exploded")
	}
	return f.items, f.err
}

type fakeProvider struct {
	items     []search.Result
	err       error
	panic     bool
	calls     int
	lastLimit int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	f.calls++
	f.lastLimit = limit
	if f.panic {
		panic("search exploded")
	}
	return f.items, f.err
}
