package model

import "time"

// RunStatus summarizes the outcome of a full orchestration run.
type RunStatus string

const (
	// RunComplete: every phase succeeded.
	RunComplete RunStatus = "complete"
	// RunPartialSuccess: Profile succeeded, at least one other phase failed.
	RunPartialSuccess RunStatus = "partial_success"
	// RunFailed: Profile itself failed; nothing downstream could proceed.
	RunFailed RunStatus = "failed"
)

// AnalysisResult is the aggregate of one orchestration run: one slot per
// phase's success payload (nil if that phase failed), failure markers for
// the phases that did not succeed, and a run-level status.
type AnalysisResult struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	RunStatus   RunStatus `json:"run_status"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	Profile      *ProfilePayload      `json:"company_profile,omitempty"`
	Units        *UnitsPayload        `json:"business_units,omitempty"`
	Priorities   *PrioritiesPayload   `json:"strategic_priorities,omitempty"`
	Opportunity  *OpportunityPayload  `json:"agreement_landscape,omitempty"`
	Optimization *OptimizationPayload `json:"optimization_opportunities,omitempty"`
	Synthesis    *SynthesisPayload    `json:"content_synthesis,omitempty"`

	Failures map[PhaseName]*PhaseFailure `json:"failures,omitempty"`
	Phases   []PhaseSummary              `json:"phases"`

	TotalTokens int64   `json:"total_tokens,omitempty"`
	TotalCost   float64 `json:"total_cost_usd,omitempty"`
}

// PhaseSummary is the per-phase timing and state record kept on the result.
type PhaseSummary struct {
	Name     PhaseName     `json:"name"`
	State    PhaseState    `json:"state"`
	Duration int64         `json:"duration_ms"`
	Sources  int           `json:"sources,omitempty"`
	Claims   int           `json:"claims,omitempty"`
	Failure  *PhaseFailure `json:"failure,omitempty"`
}

// SucceededCount returns how many phases reached Succeeded.
func (a *AnalysisResult) SucceededCount() int {
	n := 0
	for _, p := range a.Phases {
		if p.State == PhaseSucceeded {
			n++
		}
	}
	return n
}
