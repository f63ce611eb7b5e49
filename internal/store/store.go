package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/model"
)

// AnalysisFilter specifies criteria for listing analyses.
type AnalysisFilter struct {
	Status  model.RunStatus `json:"status,omitempty"`
	Subject string          `json:"subject,omitempty"`
	Limit   int             `json:"limit,omitempty"`
	Offset  int             `json:"offset,omitempty"`
}

// AnalysisSummary is the list-view projection of a stored analysis.
type AnalysisSummary struct {
	ID          string          `json:"id"`
	Subject     string          `json:"subject"`
	Status      model.RunStatus `json:"status"`
	Succeeded   int             `json:"phases_succeeded"`
	TotalTokens int64           `json:"total_tokens"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ClaimRecord is one persisted scored claim, flattened for querying.
type ClaimRecord struct {
	AnalysisID string  `json:"analysis_id"`
	Subject    string  `json:"subject"`
	Quote      string  `json:"quote"`
	Speaker    string  `json:"speaker"`
	SourceURL  string  `json:"source_url"`
	Score      float64 `json:"score"`
	Tier       string  `json:"tier"`
}

// Stats summarizes the stored corpus.
type Stats struct {
	TotalAnalyses int                     `json:"total_analyses"`
	TotalClaims   int                     `json:"total_claims"`
	ByStatus      map[model.RunStatus]int `json:"by_status"`
}

// ErrNotFound is returned when a requested analysis does not exist.
var ErrNotFound = eris.New("analysis not found")

// Store defines the persistence interface for completed analyses.
type Store interface {
	SaveAnalysis(ctx context.Context, a *model.AnalysisResult) error
	GetAnalysis(ctx context.Context, id string) (*model.AnalysisResult, error)
	LatestBySubject(ctx context.Context, subject string) (*model.AnalysisResult, error)
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisSummary, error)
	DeleteAnalysis(ctx context.Context, id string) error

	TopClaims(ctx context.Context, limit int) ([]ClaimRecord, error)
	Stats(ctx context.Context) (*Stats, error)

	Migrate(ctx context.Context) error
	Close() error
}

// flattenClaims pulls every scored executive quote out of an analysis for
// the claims table.
func flattenClaims(a *model.AnalysisResult) []ClaimRecord {
	if a.Priorities == nil {
		return nil
	}
	var out []ClaimRecord
	for _, p := range a.Priorities.Priorities {
		for _, q := range p.Quotes {
			out = append(out, ClaimRecord{
				AnalysisID: a.ID,
				Subject:    a.Subject,
				Quote:      q.Claim.Quote,
				Speaker:    q.Claim.Speaker,
				SourceURL:  q.Claim.SourceURL,
				Score:      q.Confidence.Score,
				Tier:       string(q.Confidence.Tier),
			})
		}
	}
	return out
}
