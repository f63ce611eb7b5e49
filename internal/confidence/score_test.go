package confidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/account-intel/internal/model"
)

var scoringNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func TestScore_Deterministic(t *testing.T) {
	claim := model.Claim{
		Quote:     "We expect double-digit growth next year.",
		Speaker:   "Jane Smith, CEO",
		Source:    "Q4 2025 earnings call",
		SourceURL: "https://seekingalpha.com/article/q4-2025-call",
		CitedDate: "Feb 2026",
	}
	sources := []model.SourceRecord{
		{URL: "https://seekingalpha.com/article/q4-2025-call", Title: "Q4 call", Rank: 1},
		{URL: "https://example.com/other", Rank: 2},
	}

	first := Score(claim, sources, scoringNow)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(claim, sources, scoringNow))
	}
}

func TestScore_Bounds(t *testing.T) {
	cases := []struct {
		name    string
		claim   model.Claim
		sources []model.SourceRecord
	}{
		{name: "empty claim no sources"},
		{
			name: "full attribution exact match",
			claim: model.Claim{
				Quote: "q", Speaker: "s", Source: "investor relations", SourceURL: "https://ir.acme.com/call", CitedDate: "2026",
			},
			sources: []model.SourceRecord{{URL: "https://ir.acme.com/call"}},
		},
		{
			name:  "malformed url",
			claim: model.Claim{SourceURL: "::not a url::"},
			sources: []model.SourceRecord{
				{URL: "https://example.com"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.claim, tc.sources, scoringNow)
			assert.GreaterOrEqual(t, got.Score, 0.0)
			assert.LessOrEqual(t, got.Score, 1.0)
		})
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	assert.Equal(t, model.TierHigh, TierFor(0.80))
	assert.Equal(t, model.TierMedium, TierFor(0.60))
	assert.Equal(t, model.TierLow, TierFor(0.5999))
	assert.Equal(t, model.TierHigh, TierFor(1.0))
	assert.Equal(t, model.TierLow, TierFor(0.0))
}

// With search disabled there are no source records at all; verification must
// score the structural neutral 0.6, not the 0.3 not-found penalty.
func TestScore_NoSearchNeutrality(t *testing.T) {
	claim := model.Claim{
		Quote:     "quote",
		SourceURL: "https://example.com/somewhere",
	}
	got := Score(claim, nil, scoringNow)
	assert.InDelta(t, 0.6, got.Factors.Verification, 1e-9)

	// With sources present but no match, the penalty applies instead.
	got = Score(claim, []model.SourceRecord{{URL: "https://other.com/page"}}, scoringNow)
	assert.InDelta(t, 0.3, got.Factors.Verification, 1e-9)
}

// Earnings-call transcript with exact URL match, full attribution, dated this
// year: 0.40*0.9 + 0.30*1.0 + 0.20*1.0 + 0.10*1.0 = 0.96 → High.
func TestScore_TranscriptExactMatchScenario(t *testing.T) {
	claim := model.Claim{
		Quote:     "Agreement automation is our top operational priority.",
		Speaker:   "Jane Smith, CEO",
		Source:    "Q4 earnings call transcript",
		SourceURL: "https://seekingalpha.com/article/acme-q4-call",
		CitedDate: "Aug 2026",
	}
	sources := []model.SourceRecord{
		{URL: "https://seekingalpha.com/article/acme-q4-call", Rank: 1},
	}

	got := Score(claim, sources, scoringNow)
	assert.InDelta(t, 0.9, got.Factors.Credibility, 1e-9)
	assert.InDelta(t, 1.0, got.Factors.Verification, 1e-9)
	assert.InDelta(t, 1.0, got.Factors.Completeness, 1e-9)
	assert.InDelta(t, 1.0, got.Factors.Recency, 1e-9)
	assert.InDelta(t, 0.96, got.Score, 1e-9)
	assert.Equal(t, model.TierHigh, got.Tier)
}

func TestScoreCredibility_Tiers(t *testing.T) {
	cases := []struct {
		source string
		url    string
		want   float64
	}{
		{"investor relations deck", "", 1.0},
		{"", "https://ir.acme.com/q4", 1.0},
		{"", "https://www.sec.gov/filing/10-k", 1.0},
		{"Q3 earnings call", "", 0.9},
		{"annual report 2025", "", 0.9},
		{"on-record interview", "", 0.8},
		{"", "https://www.bloomberg.com/news/article", 0.8},
		{"", "https://techcrunch.com/2026/01/01/acme", 0.6},
		{"company blog", "", 0.4},
		{"", "https://medium.com/@someone/post", 0.4},
		{"some newsletter", "https://unknown-site.io/post", 0.5},
		{"", "", 0.5},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, scoreCredibility(tc.source, tc.url), 1e-9,
			"source=%q url=%q", tc.source, tc.url)
	}
}

func TestScoreVerification_MatchLadder(t *testing.T) {
	sources := []model.SourceRecord{
		{URL: "https://news.acme.com/2026/launch?utm=x"},
		{URL: "https://blog.acme.com/post/"},
	}

	// Exact (case/space insensitive).
	assert.InDelta(t, 1.0, scoreVerification("  HTTPS://news.acme.com/2026/launch?utm=x ", sources), 1e-9)
	// Same domain and path, different query.
	assert.InDelta(t, 0.9, scoreVerification("https://news.acme.com/2026/launch?utm=other", sources), 1e-9)
	// Trailing slash normalization counts as a path match.
	assert.InDelta(t, 0.9, scoreVerification("https://blog.acme.com/post", sources), 1e-9)
	// Same domain only.
	assert.InDelta(t, 0.7, scoreVerification("https://news.acme.com/elsewhere", sources), 1e-9)
	// No match.
	assert.InDelta(t, 0.3, scoreVerification("https://rivals.com/story", sources), 1e-9)
	// Empty cited URL with sources present is the not-found penalty.
	assert.InDelta(t, 0.3, scoreVerification("", sources), 1e-9)
}

func TestScoreCompleteness_Linear(t *testing.T) {
	assert.InDelta(t, 0.0, scoreCompleteness(model.Claim{Quote: "only a quote"}), 1e-9)
	assert.InDelta(t, 0.25, scoreCompleteness(model.Claim{Speaker: "x"}), 1e-9)
	assert.InDelta(t, 0.5, scoreCompleteness(model.Claim{Speaker: "x", Source: "y"}), 1e-9)
	assert.InDelta(t, 1.0, scoreCompleteness(model.Claim{
		Speaker: "x", Source: "y", SourceURL: "https://z", CitedDate: "2026",
	}), 1e-9)
}

func TestScoreRecency_Decay(t *testing.T) {
	cases := []struct {
		date string
		want float64
	}{
		{"Aug 2026", 1.0},
		{"2025", 1.0},
		{"Q3 2024", 0.8},
		{"2022", 0.6},
		{"2019", 0.3},
		{"", 0.5},
		{"sometime recently", 0.5},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, scoreRecency(tc.date, scoringNow), 1e-9, "date=%q", tc.date)
	}
}

func TestScoreAll_PreservesOrder(t *testing.T) {
	claims := []model.Claim{
		{Quote: "a"},
		{Quote: "b", Speaker: "s", Source: "earnings call", SourceURL: "https://x.test/a", CitedDate: "2026"},
	}
	scored := ScoreAll(claims, nil, scoringNow)
	require.Len(t, scored, 2)
	assert.Equal(t, "a", scored[0].Claim.Quote)
	assert.Equal(t, "b", scored[1].Claim.Quote)
	assert.Greater(t, scored[1].Confidence.Score, scored[0].Confidence.Score)
}
