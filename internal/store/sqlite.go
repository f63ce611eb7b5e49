package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/account-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id          TEXT PRIMARY KEY,
	subject     TEXT NOT NULL,
	status      TEXT NOT NULL,
	document    TEXT NOT NULL,
	succeeded   INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS claims (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
	subject     TEXT NOT NULL,
	quote       TEXT NOT NULL,
	speaker     TEXT,
	source_url  TEXT,
	score       REAL NOT NULL,
	tier        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_subject ON analyses(subject);
CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status);
CREATE INDEX IF NOT EXISTS idx_claims_analysis_id ON claims(analysis_id);
CREATE INDEX IF NOT EXISTS idx_claims_score ON claims(score DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *model.AnalysisResult) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analysis")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO analyses (id, subject, status, document, succeeded, total_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   subject = excluded.subject,
		   status = excluded.status,
		   document = excluded.document,
		   succeeded = excluded.succeeded,
		   total_tokens = excluded.total_tokens`,
		a.ID, a.Subject, string(a.RunStatus), string(doc),
		a.SucceededCount(), a.TotalTokens, a.CompletedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert analysis %s", a.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE analysis_id = ?`, a.ID); err != nil {
		return eris.Wrap(err, "sqlite: clear claims")
	}
	for _, c := range flattenClaims(a) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO claims (analysis_id, subject, quote, speaker, source_url, score, tier)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.AnalysisID, c.Subject, c.Quote, c.Speaker, c.SourceURL, c.Score, c.Tier,
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert claim")
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.AnalysisResult, error) {
	row := s.db.QueryRowContext(ctx, `SELECT document FROM analyses WHERE id = ?`, id)
	return scanDocument(row)
}

func (s *SQLiteStore) LatestBySubject(ctx context.Context, subject string) (*model.AnalysisResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT document FROM analyses WHERE subject = ? ORDER BY created_at DESC LIMIT 1`,
		subject,
	)
	return scanDocument(row)
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisSummary, error) {
	query := `SELECT id, subject, status, succeeded, total_tokens, created_at FROM analyses WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Subject != "" {
		query += ` AND subject LIKE ?`
		args = append(args, "%"+filter.Subject+"%")
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	var out []AnalysisSummary
	for rows.Next() {
		var sum AnalysisSummary
		if err := rows.Scan(&sum.ID, &sum.Subject, &sum.Status, &sum.Succeeded, &sum.TotalTokens, &sum.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan summary")
		}
		out = append(out, sum)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}

func (s *SQLiteStore) DeleteAnalysis(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete analysis %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) TopClaims(ctx context.Context, limit int) ([]ClaimRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT analysis_id, subject, quote, speaker, source_url, score, tier
		 FROM claims ORDER BY score DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: top claims")
	}
	defer rows.Close()

	var out []ClaimRecord
	for rows.Next() {
		var c ClaimRecord
		var speaker, url sql.NullString
		if err := rows.Scan(&c.AnalysisID, &c.Subject, &c.Quote, &speaker, &url, &c.Score, &c.Tier); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan claim")
		}
		c.Speaker = speaker.String
		c.SourceURL = url.String
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: top claims iterate")
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByStatus: make(map[model.RunStatus]int)}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM analyses GROUP BY status`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: stats")
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan stats")
		}
		stats.ByStatus[model.RunStatus(status)] = n
		stats.TotalAnalyses += n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: stats iterate")
	}

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`)
	if err := row.Scan(&stats.TotalClaims); err != nil {
		return nil, eris.Wrap(err, "sqlite: count claims")
	}
	return stats, nil
}

func scanDocument(row *sql.Row) (*model.AnalysisResult, error) {
	var doc string
	err := row.Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan document")
	}
	var a model.AnalysisResult
	if err := json.Unmarshal([]byte(doc), &a); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
	}
	return &a, nil
}
