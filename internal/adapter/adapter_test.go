package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/account-intel/internal/orchestrator"
	"github.com/sells-group/account-intel/pkg/anthropic"
	"github.com/sells-group/account-intel/pkg/tavily"
)

type fakeSearch struct {
	resp *tavily.SearchResponse
	err  error
	got  string
}

func (f *fakeSearch) Search(ctx context.Context, query string, opts ...tavily.SearchOption) (*tavily.SearchResponse, error) {
	f.got = query
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeLLM struct {
	reply string
	err   error
	slow  time.Duration
	req   anthropic.MessageRequest
}

func (f *fakeLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.req = req
	if f.slow > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.slow):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.reply}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 40},
	}, nil
}

func TestSearch_MapsResults(t *testing.T) {
	search := &fakeSearch{resp: &tavily.SearchResponse{
		Results: []tavily.SearchResult{
			{Title: "Q4 earnings", URL: "https://ir.acme.com/q4", Content: "revenue up", PublishedDate: "2026-02-11"},
			{Title: "About", URL: "https://acme.com/about", Content: "anvils"},
		},
	}}
	a := New(search, &fakeLLM{}, Config{EnableWebSearch: true})

	records, err := a.Search(context.Background(), "Acme Corp earnings")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Acme Corp earnings", search.got)
	assert.Equal(t, "https://ir.acme.com/q4", records[0].URL)
	assert.Equal(t, 1, records[0].Rank)
	assert.Equal(t, 2, records[1].Rank)
	assert.Equal(t, "2026-02-11", records[0].PublishedAt)
}

func TestSearch_DisabledReturnsNothing(t *testing.T) {
	search := &fakeSearch{err: errors.New("must not be called")}
	a := New(search, &fakeLLM{}, Config{EnableWebSearch: false})

	records, err := a.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, search.got, "provider must not be reached when disabled")
}

func TestSearch_ProviderError(t *testing.T) {
	a := New(&fakeSearch{err: errors.New("boom")}, &fakeLLM{}, Config{EnableWebSearch: true})
	_, err := a.Search(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "web search")
}

func TestExtract_DecodesJSON(t *testing.T) {
	llm := &fakeLLM{reply: `{"legal_name": "Acme Corp", "industry": "Manufacturing"}`}
	a := New(&fakeSearch{}, llm, Config{Model: "claude-sonnet-4-5-20250929"})

	var out struct {
		LegalName string `json:"legal_name"`
		Industry  string `json:"industry"`
	}
	usage, err := a.Extract(context.Background(), "system prompt", "extract the profile", &out)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", out.LegalName)
	assert.Equal(t, int64(100), usage.InputTokens)
	assert.Equal(t, int64(40), usage.OutputTokens)

	require.Len(t, llm.req.System, 1)
	assert.Equal(t, "system prompt", llm.req.System[0].Text)
}

func TestExtract_StripsCodeFences(t *testing.T) {
	llm := &fakeLLM{reply: "```json\n{\"legal_name\": \"Acme Corp\"}\n```"}
	a := New(&fakeSearch{}, llm, Config{})

	var out struct {
		LegalName string `json:"legal_name"`
	}
	_, err := a.Extract(context.Background(), "", "p", &out)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", out.LegalName)
}

func TestExtract_MalformedReply(t *testing.T) {
	llm := &fakeLLM{reply: "Here is the profile you asked for: it is a company."}
	a := New(&fakeSearch{}, llm, Config{})

	var out map[string]any
	usage, err := a.Extract(context.Background(), "", "p", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, orchestrator.ErrMalformedOutput)
	// Usage is still reported so failed phases count toward totals.
	assert.Equal(t, int64(100), usage.InputTokens)
}

func TestExtract_EmptyReply(t *testing.T) {
	a := New(&fakeSearch{}, &fakeLLM{reply: "   "}, Config{})
	var out map[string]any
	_, err := a.Extract(context.Background(), "", "p", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, orchestrator.ErrMalformedOutput)
}

func TestExtract_PerCallTimeout(t *testing.T) {
	llm := &fakeLLM{reply: "{}", slow: 500 * time.Millisecond}
	a := New(&fakeSearch{}, llm, Config{CallTimeout: 20 * time.Millisecond})

	var out map[string]any
	_, err := a.Extract(context.Background(), "", "p", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
	assert.Equal(t, "", stripFences("  "))
}
