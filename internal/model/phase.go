package model

import "time"

// PhaseName identifies one of the six fixed research phases.
type PhaseName string

const (
	PhaseProfile      PhaseName = "profile"
	PhaseUnits        PhaseName = "units_analysis"
	PhasePriorities   PhaseName = "priorities_analysis"
	PhaseOpportunity  PhaseName = "opportunity_analysis"
	PhaseOptimization PhaseName = "optimization_analysis"
	PhaseSynthesis    PhaseName = "content_synthesis"
)

// AllPhases returns the fixed phase set in declaration order.
func AllPhases() []PhaseName {
	return []PhaseName{
		PhaseProfile,
		PhaseUnits,
		PhasePriorities,
		PhaseOpportunity,
		PhaseOptimization,
		PhaseSynthesis,
	}
}

// PhaseState is the lifecycle state of a phase within a single run.
type PhaseState string

const (
	PhasePending   PhaseState = "pending"
	PhaseRunning   PhaseState = "running"
	PhaseSucceeded PhaseState = "succeeded"
	PhaseFailed    PhaseState = "failed"
)

// Terminal reports whether the state is Succeeded or Failed.
func (s PhaseState) Terminal() bool {
	return s == PhaseSucceeded || s == PhaseFailed
}

// FailureKind classifies why a phase failed.
type FailureKind string

const (
	FailureAdapterError    FailureKind = "adapter_error"
	FailureAdapterTimeout  FailureKind = "adapter_timeout"
	FailureMalformedOutput FailureKind = "malformed_output"
	FailureUpstream        FailureKind = "upstream_failure"
)

// PhaseFailure records the cause of a failed phase. For upstream skips,
// Upstream names the dependency that failed.
type PhaseFailure struct {
	Kind     FailureKind `json:"kind"`
	Message  string      `json:"message"`
	Upstream PhaseName   `json:"upstream,omitempty"`
}

// PhaseResult is the terminal outcome of one phase: either a success payload
// or a failure cause, never both. Immutable once produced.
type PhaseResult struct {
	Name       PhaseName     `json:"name"`
	State      PhaseState    `json:"state"`
	Payload    any           `json:"payload,omitempty"`
	Failure    *PhaseFailure `json:"failure,omitempty"`
	StartedAt  time.Time     `json:"started_at,omitempty"`
	Duration   int64         `json:"duration_ms"`
	Sources    int           `json:"sources,omitempty"`
	Claims     int           `json:"claims,omitempty"`
	TokenUsage TokenUsage    `json:"token_usage,omitempty"`
}

// Succeeded reports whether the phase reached the Succeeded state.
func (r *PhaseResult) Succeeded() bool {
	return r != nil && r.State == PhaseSucceeded
}

// TokenUsage tracks model token consumption for a phase or run.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens,omitempty"`
	OutputTokens int64 `json:"output_tokens,omitempty"`
}

// Add accumulates usage from another TokenUsage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
