package confidence

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sells-group/account-intel/internal/model"
)

// Factor weights. Must sum to 1.0.
const (
	weightCredibility  = 0.40
	weightVerification = 0.30
	weightCompleteness = 0.20
	weightRecency      = 0.10
)

// Tier thresholds: score >= 0.80 is High, >= 0.60 is Medium, else Low.
const (
	tierHighThreshold   = 0.80
	tierMediumThreshold = 0.60
)

// neutralRecency applies when the claim carries no parseable date.
const neutralRecency = 0.5

var yearPattern = regexp.MustCompile(`20\d{2}`)

// Score computes the confidence score for one claim given the source records
// retrieved by its originating phase. It never fails: missing or malformed
// fields are treated as absent for their factor. now anchors recency so a
// run scores consistently throughout.
func Score(claim model.Claim, sources []model.SourceRecord, now time.Time) model.ConfidenceScore {
	factors := model.FactorBreakdown{
		Credibility:  scoreCredibility(claim.Source, claim.SourceURL),
		Verification: scoreVerification(claim.SourceURL, sources),
		Completeness: scoreCompleteness(claim),
		Recency:      scoreRecency(claim.CitedDate, now),
	}

	score := weightCredibility*factors.Credibility +
		weightVerification*factors.Verification +
		weightCompleteness*factors.Completeness +
		weightRecency*factors.Recency

	return model.ConfidenceScore{
		Score:   clamp01(score),
		Tier:    TierFor(clamp01(score)),
		Factors: factors,
	}
}

// ScoreAll scores a batch of claims against the same source set.
func ScoreAll(claims []model.Claim, sources []model.SourceRecord, now time.Time) []model.ScoredClaim {
	out := make([]model.ScoredClaim, len(claims))
	for i, c := range claims {
		out[i] = model.ScoredClaim{Claim: c, Confidence: Score(c, sources, now)}
	}
	return out
}

// TierFor maps a score to its display tier using the fixed thresholds.
func TierFor(score float64) model.ConfidenceTier {
	switch {
	case score >= tierHighThreshold:
		return model.TierHigh
	case score >= tierMediumThreshold:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// scoreCompleteness scales linearly with how many of the four attribution
// fields are present: speaker, source description, source URL, cited date.
func scoreCompleteness(claim model.Claim) float64 {
	present := 0
	for _, f := range []string{claim.Speaker, claim.Source, claim.SourceURL, claim.CitedDate} {
		if f != "" {
			present++
		}
	}
	return float64(present) / 4.0
}

// scoreRecency decays with the age of the cited date's year token relative
// to now. Dates are freeform ("Oct 2024"); only the year is extracted. A
// missing or unparseable date scores the fixed neutral value, not zero.
func scoreRecency(citedDate string, now time.Time) float64 {
	match := yearPattern.FindString(citedDate)
	if match == "" {
		return neutralRecency
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return neutralRecency
	}

	yearsAgo := now.Year() - year
	switch {
	case yearsAgo <= 1:
		return 1.0
	case yearsAgo == 2:
		return 0.8
	case yearsAgo <= 5:
		return 0.6
	default:
		return 0.3
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
