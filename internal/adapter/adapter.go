// Package adapter joins the web search and extraction providers behind the
// surface the research phases call. Every outbound call gets its own
// deadline so one slow provider cannot consume a whole phase budget.
package adapter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
	"github.com/sells-group/account-intel/pkg/anthropic"
	"github.com/sells-group/account-intel/pkg/tavily"
)

const (
	defaultModel       = "claude-sonnet-4-5-20250929"
	defaultMaxTokens   = 8192
	defaultCallTimeout = 120 * time.Second
)

// Adapter is what a research phase sees of the outside world.
type Adapter interface {
	// Search runs a web search and returns ranked source records. When web
	// search is disabled it returns no records and no error; extraction
	// then proceeds from the model's own knowledge.
	Search(ctx context.Context, query string, opts ...tavily.SearchOption) ([]model.SourceRecord, error)

	// Extract sends a prompt to the extraction model and decodes its JSON
	// reply into out. Replies that are not valid JSON for out are reported
	// as malformed output.
	Extract(ctx context.Context, system, prompt string, out any) (model.TokenUsage, error)

	// Model reports the extraction model in use, for cost attribution.
	Model() string
}

// Config carries the adapter knobs the config layer resolves.
type Config struct {
	Model           string
	MaxTokens       int64
	CallTimeout     time.Duration
	EnableWebSearch bool
}

type providerAdapter struct {
	search tavily.Client
	llm    anthropic.Client
	cfg    Config
}

// New builds an Adapter over the given providers.
func New(search tavily.Client, llm anthropic.Client, cfg Config) Adapter {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	return &providerAdapter{search: search, llm: llm, cfg: cfg}
}

func (a *providerAdapter) Model() string {
	return a.cfg.Model
}

func (a *providerAdapter) Search(ctx context.Context, query string, opts ...tavily.SearchOption) ([]model.SourceRecord, error) {
	if !a.cfg.EnableWebSearch {
		zap.L().Debug("web search disabled, skipping query", zap.String("query", query))
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancel()

	resp, err := a.search.Search(callCtx, query, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "adapter: web search")
	}

	records := make([]model.SourceRecord, 0, len(resp.Results))
	for i, r := range resp.Results {
		records = append(records, model.SourceRecord{
			URL:         r.URL,
			Title:       r.Title,
			Snippet:     r.Content,
			PublishedAt: r.PublishedDate,
			Rank:        i + 1,
		})
	}
	return records, nil
}

func (a *providerAdapter) Extract(ctx context.Context, system, prompt string, out any) (model.TokenUsage, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancel()

	req := anthropic.MessageRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	}
	if system != "" {
		req.System = anthropic.BuildCachedSystemBlocks(system)
	}

	resp, err := a.llm.CreateMessage(callCtx, req)
	if err != nil {
		// Surface the per-call deadline as the outer context's error so the
		// failure classifies as a timeout rather than a generic error.
		if callCtx.Err() != nil && ctx.Err() == nil {
			return model.TokenUsage{}, eris.Wrap(callCtx.Err(), "adapter: extraction call timed out")
		}
		return model.TokenUsage{}, eris.Wrap(err, "adapter: extraction call")
	}

	usage := model.TokenUsage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	resp.Usage.LogCost(a.cfg.Model, "extract")

	raw := stripFences(resp.Text())
	if raw == "" {
		return usage, eris.Wrap(orchestrator.ErrMalformedOutput, "adapter: empty extraction reply")
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		zap.L().Warn("extraction reply is not valid JSON",
			zap.String("model", a.cfg.Model),
			zap.Error(err),
		)
		return usage, eris.Wrap(orchestrator.ErrMalformedOutput, err.Error())
	}
	return usage, nil
}

// stripFences removes a markdown code fence around a JSON reply. Models
// sometimes wrap output in ```json blocks despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
