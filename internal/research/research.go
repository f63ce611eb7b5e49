// Package research implements the analysis phases and the agent that runs
// them against a subject company.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/account-intel/internal/adapter"
	"github.com/sells-group/account-intel/internal/catalog"
	"github.com/sells-group/account-intel/internal/graph"
	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
	"github.com/sells-group/account-intel/pkg/anthropic"
)

// Agent drives a full research run: phase producers wired into the
// dependency graph, executed concurrently, aggregated into one result.
type Agent struct {
	adapter adapter.Adapter
	catalog *catalog.Catalog
	now     func() time.Time
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithCatalog supplies a product catalog for optimization recommendations.
func WithCatalog(c *catalog.Catalog) AgentOption {
	return func(a *Agent) {
		a.catalog = c
	}
}

// WithClock overrides the clock used for recency scoring.
func WithClock(now func() time.Time) AgentOption {
	return func(a *Agent) {
		a.now = now
	}
}

// NewAgent creates an Agent over the given provider adapter.
func NewAgent(ad adapter.Adapter, opts ...AgentOption) *Agent {
	a := &Agent{
		adapter: ad,
		now:     time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run researches subject through every phase and returns the aggregated
// analysis. Phase failures are recorded on the result, not returned; the
// error covers only graph or producer wiring problems.
func (a *Agent) Run(ctx context.Context, subject string, obs orchestrator.Observer) (*model.AnalysisResult, error) {
	producers := map[model.PhaseName]orchestrator.Producer{
		model.PhaseProfile:      a.profileProducer(subject),
		model.PhaseUnits:        a.unitsProducer(subject),
		model.PhasePriorities:   a.prioritiesProducer(subject),
		model.PhaseOpportunity:  a.opportunityProducer(subject),
		model.PhaseOptimization: a.optimizationProducer(subject),
		model.PhaseSynthesis:    a.synthesisProducer(subject),
	}

	ex, err := orchestrator.NewExecutor(graph.Default(), producers, obs)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	started := a.now()
	zap.L().Info("research run starting",
		zap.String("id", id),
		zap.String("subject", subject),
	)

	results := ex.Run(ctx)
	out := orchestrator.Aggregate(id, subject, started, results)

	var usage anthropic.TokenUsage
	for _, r := range results {
		usage.InputTokens += r.TokenUsage.InputTokens
		usage.OutputTokens += r.TokenUsage.OutputTokens
	}
	out.TotalCost = usage.EstimateCost(a.adapter.Model())

	return out, nil
}

// formatSources renders search records the way extraction prompts expect.
func formatSources(records []model.SourceRecord) string {
	if len(records) == 0 {
		return "No results found"
	}
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "\nSource: %s\nTitle: %s\nContent: %s\n---", r.URL, r.Title, r.Snippet)
	}
	return b.String()
}
