// Package orchestrator schedules the research phases over their dependency
// graph: phases in a layer run concurrently, failures are contained to their
// phase, and dependents of a failed phase are skipped rather than crashed.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/account-intel/internal/graph"
	"github.com/sells-group/account-intel/internal/model"
)

// ErrMalformedOutput marks extraction output that failed structural
// validation. Producers wrap it so the executor can classify the failure.
var ErrMalformedOutput = errors.New("malformed extraction output")

// Outputs exposes the success payloads of completed dependencies to a
// producer. Only phases that succeeded appear.
type Outputs map[model.PhaseName]any

// PhaseStats lets a producer report counts the executor records on the
// phase result.
type PhaseStats struct {
	Sources int
	Claims  int
	Usage   model.TokenUsage
}

// PhaseContext carries everything a producer may use besides the context:
// dependency outputs, a progress reporter for sub-step labels, and a stats
// sink.
type PhaseContext struct {
	Deps   Outputs
	Report func(stage string)
	Stats  *PhaseStats
}

// Producer executes one phase and returns its success payload.
type Producer func(ctx context.Context, pc PhaseContext) (any, error)

// Executor runs every phase of a graph to a terminal state.
type Executor struct {
	graph     *graph.Graph
	producers map[model.PhaseName]Producer
	observer  Observer
}

// NewExecutor validates that every phase in the graph has a producer.
func NewExecutor(g *graph.Graph, producers map[model.PhaseName]Producer, obs Observer) (*Executor, error) {
	for _, phase := range g.Phases() {
		if producers[phase] == nil {
			return nil, eris.Errorf("orchestrator: no producer registered for phase %q", phase)
		}
	}
	return &Executor{graph: g, producers: producers, observer: obs}, nil
}

// Run executes all phases layer by layer and returns once every phase is
// terminal. It never returns an error: operational failures live on the
// individual phase results. Wall-clock time is the sum of each layer's
// slowest phase.
//
// The results map is owned by this goroutine. Phase goroutines write only
// their own slot of the layer's slice; the merge after Wait is the sole
// point where their results become visible.
func (e *Executor) Run(ctx context.Context) map[model.PhaseName]*model.PhaseResult {
	log := zap.L().Named("executor")
	dispatch := newDispatcher(e.observer)
	defer dispatch.close()

	results := make(map[model.PhaseName]*model.PhaseResult, len(e.graph.Phases()))

	for _, layerPhases := range e.graph.Layers() {
		g, gCtx := errgroup.WithContext(ctx)
		layerResults := make([]*model.PhaseResult, len(layerPhases))

		for i, phase := range layerPhases {
			// Dependency outcomes are known: the previous layers are fully
			// terminal before this one starts.
			if failedDep, ok := e.failedDependency(phase, results); ok {
				log.Info("phase skipped, upstream failed",
					zap.String("phase", string(phase)),
					zap.String("upstream", string(failedDep)),
				)
				results[phase] = &model.PhaseResult{
					Name:  phase,
					State: model.PhaseFailed,
					Failure: &model.PhaseFailure{
						Kind:     model.FailureUpstream,
						Message:  fmt.Sprintf("dependency %s failed", failedDep),
						Upstream: failedDep,
					},
				}
				dispatch.notify(phase, "skipped (upstream failure)")
				continue
			}

			// Snapshot dependency payloads before launch; prior layers are
			// terminal, so nothing mutates them once the goroutine runs.
			deps := make(Outputs, 4)
			for _, dep := range e.graph.DependenciesOf(phase) {
				deps[dep] = results[dep].Payload
			}

			g.Go(func() error {
				layerResults[i] = e.runPhase(gCtx, phase, deps, dispatch, log)
				// Errors are contained per phase; never fail the group so
				// siblings keep running.
				return nil
			})
		}

		_ = g.Wait()
		for _, r := range layerResults {
			if r != nil {
				results[r.Name] = r
			}
		}
	}

	return results
}

// failedDependency returns the first dependency of phase that did not
// succeed, if any.
func (e *Executor) failedDependency(phase model.PhaseName, results map[model.PhaseName]*model.PhaseResult) (model.PhaseName, bool) {
	for _, dep := range e.graph.DependenciesOf(phase) {
		if r, ok := results[dep]; !ok || !r.Succeeded() {
			return dep, true
		}
	}
	return "", false
}

// runPhase invokes one producer and converts whatever happens into a
// terminal PhaseResult. Panics are recovered into a failure so no phase can
// take down its siblings.
func (e *Executor) runPhase(ctx context.Context, phase model.PhaseName, deps Outputs, dispatch *dispatcher, log *zap.Logger) (result *model.PhaseResult) {
	stats := &PhaseStats{}
	start := time.Now()
	result = &model.PhaseResult{
		Name:      phase,
		State:     model.PhaseRunning,
		StartedAt: start.UTC(),
	}

	finish := func() {
		result.Duration = time.Since(start).Milliseconds()
		result.Sources = stats.Sources
		result.Claims = stats.Claims
		result.TokenUsage = stats.Usage
	}

	defer func() {
		if r := recover(); r != nil {
			finish()
			result.State = model.PhaseFailed
			result.Payload = nil
			result.Failure = &model.PhaseFailure{
				Kind:    model.FailureAdapterError,
				Message: fmt.Sprintf("panic: %v", r),
			}
			log.Error("phase panicked",
				zap.String("phase", string(phase)),
				zap.Any("panic", r),
			)
			dispatch.notify(phase, "failed")
		}
	}()

	dispatch.notify(phase, "started")
	log.Info("phase started", zap.String("phase", string(phase)))

	payload, err := e.producers[phase](ctx, PhaseContext{
		Deps:   deps,
		Report: func(stage string) { dispatch.notify(phase, stage) },
		Stats:  stats,
	})
	finish()

	if err != nil {
		result.State = model.PhaseFailed
		result.Failure = classifyFailure(err)
		log.Error("phase failed",
			zap.String("phase", string(phase)),
			zap.String("kind", string(result.Failure.Kind)),
			zap.Int64("duration_ms", result.Duration),
			zap.Error(err),
		)
		dispatch.notify(phase, "failed")
		return result
	}

	result.State = model.PhaseSucceeded
	result.Payload = payload
	log.Info("phase complete",
		zap.String("phase", string(phase)),
		zap.Int64("duration_ms", result.Duration),
		zap.Int("sources", stats.Sources),
		zap.Int("claims", stats.Claims),
	)
	dispatch.notify(phase, "complete")
	return result
}

// classifyFailure maps a producer error onto the failure taxonomy. Timeouts
// become AdapterTimeout; validation failures become MalformedOutput;
// everything else (including caller cancellation) is an AdapterError.
func classifyFailure(err error) *model.PhaseFailure {
	kind := model.FailureAdapterError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = model.FailureAdapterTimeout
	case errors.Is(err, ErrMalformedOutput):
		kind = model.FailureMalformedOutput
	}
	return &model.PhaseFailure{Kind: kind, Message: err.Error()}
}
