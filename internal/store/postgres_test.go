package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/account-intel/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetAnalysis_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT document FROM analyses WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetAnalysis(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAnalysis_Found(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	in := sampleAnalysis("run-1", "Acme", model.RunComplete, time.Now().UTC())
	doc, err := json.Marshal(in)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT document FROM analyses WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"document"}).AddRow(doc))

	got, err := s.GetAnalysis(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Subject)
	assert.Equal(t, model.RunComplete, got.RunStatus)
	require.NotNil(t, got.Priorities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LatestBySubject_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT document FROM analyses WHERE subject = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("Initech").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.LatestBySubject(context.Background(), "Initech")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAnalysis(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	a := sampleAnalysis("run-1", "Acme", model.RunComplete, time.Now().UTC())

	mock.ExpectExec(`INSERT INTO analyses`).
		WithArgs("run-1", "Acme", "complete", pgxmock.AnyArg(), 2, int64(4200), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM claims WHERE analysis_id = \$1`).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"claims"},
		[]string{"analysis_id", "subject", "quote", "speaker", "source_url", "score", "tier"}).
		WillReturnResult(2)

	require.NoError(t, s.SaveAnalysis(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAnalysis_NoClaims(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	a := sampleAnalysis("run-1", "Acme", model.RunFailed, time.Now().UTC())
	a.Priorities = nil

	mock.ExpectExec(`INSERT INTO analyses`).
		WithArgs("run-1", "Acme", "failed", pgxmock.AnyArg(), 2, int64(4200), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM claims WHERE analysis_id = \$1`).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	// No COPY when there are no claims to insert.
	require.NoError(t, s.SaveAnalysis(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAnalyses(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "subject", "status", "succeeded", "total_tokens", "created_at"}).
		AddRow("run-2", "Acme", "complete", 6, int64(9000), now).
		AddRow("run-1", "Acme", "partial_success", 4, int64(5000), now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT id, subject, status, succeeded, total_tokens, created_at FROM analyses`).
		WithArgs("%Acme%", 100).
		WillReturnRows(rows)

	out, err := s.ListAnalyses(context.Background(), AnalysisFilter{Subject: "Acme"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "run-2", out[0].ID)
	assert.Equal(t, model.RunComplete, out[0].Status)
	assert.Equal(t, 6, out[0].Succeeded)
	assert.Equal(t, int64(5000), out[1].TotalTokens)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteAnalysis(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM analyses WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.DeleteAnalysis(context.Background(), "run-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteAnalysis_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM analyses WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, s.DeleteAnalysis(context.Background(), "missing"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_TopClaims(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	speaker := "CEO"
	rows := pgxmock.NewRows([]string{"analysis_id", "subject", "quote", "speaker", "source_url", "score", "tier"}).
		AddRow("run-1", "Acme", "We are all in on automation.", &speaker, nil, 0.91, "high").
		AddRow("run-1", "Acme", "Costs will come down.", nil, nil, 0.55, "low")

	mock.ExpectQuery(`SELECT analysis_id, subject, quote, speaker, source_url, score, tier FROM claims`).
		WithArgs(10).
		WillReturnRows(rows)

	out, err := s.TopClaims(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "CEO", out[0].Speaker)
	assert.Equal(t, 0.91, out[0].Score)
	assert.Empty(t, out[1].Speaker)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Stats(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM analyses GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("complete", int64(3)).
			AddRow("failed", int64(1)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM claims`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalAnalyses)
	assert.Equal(t, 12, stats.TotalClaims)
	assert.Equal(t, 3, stats.ByStatus[model.RunComplete])
	assert.Equal(t, 1, stats.ByStatus[model.RunFailed])
	assert.NoError(t, mock.ExpectationsWereMet())
}
