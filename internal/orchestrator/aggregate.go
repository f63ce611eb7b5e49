package orchestrator

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/account-intel/internal/model"
)

// Aggregate assembles the final AnalysisResult from the executor's terminal
// phase results: one slot per phase's success payload, failure markers for
// the rest, and the run-level status. It never fails; it only reflects what
// the phases produced.
func Aggregate(id, subject string, startedAt time.Time, results map[model.PhaseName]*model.PhaseResult) *model.AnalysisResult {
	out := &model.AnalysisResult{
		ID:          id,
		Subject:     subject,
		StartedAt:   startedAt.UTC(),
		CompletedAt: time.Now().UTC(),
		Failures:    make(map[model.PhaseName]*model.PhaseFailure),
	}

	var usage model.TokenUsage
	for _, phase := range model.AllPhases() {
		r, ok := results[phase]
		if !ok {
			// A phase the executor never reached (cancelled run). Record a
			// failure marker so the slot is never silently empty.
			out.Failures[phase] = &model.PhaseFailure{
				Kind:    model.FailureAdapterError,
				Message: "phase did not run",
			}
			out.Phases = append(out.Phases, model.PhaseSummary{
				Name:    phase,
				State:   model.PhaseFailed,
				Failure: out.Failures[phase],
			})
			continue
		}

		out.Phases = append(out.Phases, model.PhaseSummary{
			Name:     r.Name,
			State:    r.State,
			Duration: r.Duration,
			Sources:  r.Sources,
			Claims:   r.Claims,
			Failure:  r.Failure,
		})
		usage.Add(r.TokenUsage)

		if !r.Succeeded() {
			out.Failures[phase] = r.Failure
			continue
		}
		fillSlot(out, phase, r.Payload)
	}

	out.TotalTokens = usage.InputTokens + usage.OutputTokens
	out.RunStatus = runStatus(out)

	zap.L().Info("run aggregated",
		zap.String("id", id),
		zap.String("subject", subject),
		zap.String("status", string(out.RunStatus)),
		zap.Int("succeeded", out.SucceededCount()),
		zap.Int("failed", len(out.Failures)),
	)
	return out
}

// fillSlot copies a phase payload into its typed result slot. A payload of
// an unexpected type is recorded as a malformed-output failure instead of
// panicking.
func fillSlot(out *model.AnalysisResult, phase model.PhaseName, payload any) {
	ok := false
	switch phase {
	case model.PhaseProfile:
		out.Profile, ok = payload.(*model.ProfilePayload)
	case model.PhaseUnits:
		out.Units, ok = payload.(*model.UnitsPayload)
	case model.PhasePriorities:
		out.Priorities, ok = payload.(*model.PrioritiesPayload)
	case model.PhaseOpportunity:
		out.Opportunity, ok = payload.(*model.OpportunityPayload)
	case model.PhaseOptimization:
		out.Optimization, ok = payload.(*model.OptimizationPayload)
	case model.PhaseSynthesis:
		out.Synthesis, ok = payload.(*model.SynthesisPayload)
	}
	if !ok {
		out.Failures[phase] = &model.PhaseFailure{
			Kind:    model.FailureMalformedOutput,
			Message: "phase payload has unexpected type",
		}
		for i := range out.Phases {
			if out.Phases[i].Name == phase {
				out.Phases[i].State = model.PhaseFailed
				out.Phases[i].Failure = out.Failures[phase]
			}
		}
	}
}

// runStatus derives the run-level status. Profile failing means nothing else
// could proceed in this topology.
func runStatus(out *model.AnalysisResult) model.RunStatus {
	if _, profileFailed := out.Failures[model.PhaseProfile]; profileFailed {
		return model.RunFailed
	}
	if len(out.Failures) > 0 {
		return model.RunPartialSuccess
	}
	return model.RunComplete
}
