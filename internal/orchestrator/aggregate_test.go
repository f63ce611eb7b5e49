package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/account-intel/internal/model"
)

func succeededResult(phase model.PhaseName, payload any) *model.PhaseResult {
	return &model.PhaseResult{
		Name:     phase,
		State:    model.PhaseSucceeded,
		Payload:  payload,
		Duration: (2 * time.Second).Milliseconds(),
		Sources:  3,
		TokenUsage: model.TokenUsage{
			InputTokens:  1000,
			OutputTokens: 500,
		},
	}
}

func fullResults() map[model.PhaseName]*model.PhaseResult {
	return map[model.PhaseName]*model.PhaseResult{
		model.PhaseProfile:      succeededResult(model.PhaseProfile, &model.ProfilePayload{LegalName: "Acme Corp"}),
		model.PhaseUnits:        succeededResult(model.PhaseUnits, &model.UnitsPayload{}),
		model.PhasePriorities:   succeededResult(model.PhasePriorities, &model.PrioritiesPayload{}),
		model.PhaseOpportunity:  succeededResult(model.PhaseOpportunity, &model.OpportunityPayload{}),
		model.PhaseOptimization: succeededResult(model.PhaseOptimization, &model.OptimizationPayload{}),
		model.PhaseSynthesis:    succeededResult(model.PhaseSynthesis, &model.SynthesisPayload{}),
	}
}

func TestAggregate_Complete(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	out := Aggregate("run-1", "Acme Corp", started, fullResults())

	assert.Equal(t, "run-1", out.ID)
	assert.Equal(t, "Acme Corp", out.Subject)
	assert.Equal(t, model.RunComplete, out.RunStatus)
	assert.Empty(t, out.Failures)
	assert.Equal(t, 6, out.SucceededCount())

	require.NotNil(t, out.Profile)
	assert.Equal(t, "Acme Corp", out.Profile.LegalName)
	assert.NotNil(t, out.Units)
	assert.NotNil(t, out.Priorities)
	assert.NotNil(t, out.Opportunity)
	assert.NotNil(t, out.Optimization)
	assert.NotNil(t, out.Synthesis)

	assert.Equal(t, int64(9000), out.TotalTokens)
	assert.Len(t, out.Phases, 6)
}

func TestAggregate_PartialSuccess(t *testing.T) {
	results := fullResults()
	timeout := &model.PhaseFailure{Kind: model.FailureAdapterTimeout, Message: "landscape search timed out"}
	results[model.PhaseOpportunity] = &model.PhaseResult{
		Name:    model.PhaseOpportunity,
		State:   model.PhaseFailed,
		Failure: timeout,
	}
	results[model.PhaseOptimization] = &model.PhaseResult{
		Name:  model.PhaseOptimization,
		State: model.PhaseFailed,
		Failure: &model.PhaseFailure{
			Kind:     model.FailureUpstream,
			Message:  "dependency opportunity_analysis failed",
			Upstream: model.PhaseOpportunity,
		},
	}
	results[model.PhaseSynthesis] = &model.PhaseResult{
		Name:  model.PhaseSynthesis,
		State: model.PhaseFailed,
		Failure: &model.PhaseFailure{
			Kind:     model.FailureUpstream,
			Message:  "dependency opportunity_analysis failed",
			Upstream: model.PhaseOpportunity,
		},
	}

	out := Aggregate("run-2", "Acme Corp", time.Now(), results)

	assert.Equal(t, model.RunPartialSuccess, out.RunStatus)
	assert.Equal(t, 3, out.SucceededCount())
	assert.Nil(t, out.Opportunity)
	assert.Nil(t, out.Optimization)
	assert.Nil(t, out.Synthesis)
	assert.NotNil(t, out.Profile)
	assert.NotNil(t, out.Units)
	assert.NotNil(t, out.Priorities)

	require.Len(t, out.Failures, 3)
	assert.Equal(t, timeout, out.Failures[model.PhaseOpportunity])
	assert.Equal(t, model.PhaseOpportunity, out.Failures[model.PhaseSynthesis].Upstream)
}

func TestAggregate_ProfileFailureMeansFailed(t *testing.T) {
	results := fullResults()
	results[model.PhaseProfile] = &model.PhaseResult{
		Name:    model.PhaseProfile,
		State:   model.PhaseFailed,
		Failure: &model.PhaseFailure{Kind: model.FailureAdapterError, Message: "no results"},
	}

	out := Aggregate("run-3", "Acme Corp", time.Now(), results)

	assert.Equal(t, model.RunFailed, out.RunStatus)
	assert.Nil(t, out.Profile)
}

func TestAggregate_MissingPhaseGetsFailureMarker(t *testing.T) {
	results := fullResults()
	delete(results, model.PhaseSynthesis)

	out := Aggregate("run-4", "Acme Corp", time.Now(), results)

	require.Contains(t, out.Failures, model.PhaseSynthesis)
	assert.Equal(t, "phase did not run", out.Failures[model.PhaseSynthesis].Message)
	assert.Equal(t, model.RunPartialSuccess, out.RunStatus)
	assert.Len(t, out.Phases, 6)
}

func TestAggregate_WrongPayloadTypeIsMalformed(t *testing.T) {
	results := fullResults()
	results[model.PhaseUnits] = succeededResult(model.PhaseUnits, &model.ProfilePayload{})

	out := Aggregate("run-5", "Acme Corp", time.Now(), results)

	assert.Nil(t, out.Units)
	require.Contains(t, out.Failures, model.PhaseUnits)
	assert.Equal(t, model.FailureMalformedOutput, out.Failures[model.PhaseUnits].Kind)
	assert.Equal(t, model.RunPartialSuccess, out.RunStatus)
}

func TestAggregate_PhaseSummariesOrdered(t *testing.T) {
	out := Aggregate("run-6", "Acme Corp", time.Now(), fullResults())

	require.Len(t, out.Phases, 6)
	for i, phase := range model.AllPhases() {
		assert.Equal(t, phase, out.Phases[i].Name)
	}
}
