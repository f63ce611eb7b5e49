package model

// SourceRecord is one retrieved web document reference, scoped to the phase
// call that requested it.
type SourceRecord struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Rank        int    `json:"rank"`
}

// Claim is an extracted quotation or factual assertion attributed to a source.
// The cited date is freeform ("Oct 2024", "Q3 2024"); the scoring engine
// extracts the year token for recency.
type Claim struct {
	Quote     string `json:"quote"`
	Speaker   string `json:"speaker,omitempty"`
	Source    string `json:"source,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	CitedDate string `json:"cited_date,omitempty"`
}

// ConfidenceTier is the coarse display bucket for a confidence score.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// FactorBreakdown holds the four contributing factor values of a
// ConfidenceScore, each in [0,1] before weighting.
type FactorBreakdown struct {
	Credibility  float64 `json:"credibility"`
	Verification float64 `json:"verification"`
	Completeness float64 `json:"completeness"`
	Recency      float64 `json:"recency"`
}

// ConfidenceScore is the deterministic trust score attached to a Claim.
type ConfidenceScore struct {
	Score   float64         `json:"score"`
	Tier    ConfidenceTier  `json:"tier"`
	Factors FactorBreakdown `json:"factors"`
}

// ScoredClaim pairs a Claim with its computed ConfidenceScore.
type ScoredClaim struct {
	Claim      Claim           `json:"claim"`
	Confidence ConfidenceScore `json:"confidence"`
}
