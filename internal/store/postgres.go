package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/db"
	"github.com/sells-group/account-intel/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"upsert_analysis": `INSERT INTO analyses (id, subject, status, document, succeeded, total_tokens, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
		  subject = EXCLUDED.subject,
		  status = EXCLUDED.status,
		  document = EXCLUDED.document,
		  succeeded = EXCLUDED.succeeded,
		  total_tokens = EXCLUDED.total_tokens`,
	"get_analysis":       `SELECT document FROM analyses WHERE id = $1`,
	"latest_by_subject":  `SELECT document FROM analyses WHERE subject = $1 ORDER BY created_at DESC LIMIT 1`,
	"delete_analysis":    `DELETE FROM analyses WHERE id = $1`,
	"clear_claims":       `DELETE FROM claims WHERE analysis_id = $1`,
	"top_claims":         `SELECT analysis_id, subject, quote, speaker, source_url, score, tier FROM claims ORDER BY score DESC LIMIT $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	subject      TEXT NOT NULL,
	status       TEXT NOT NULL,
	document     JSONB NOT NULL,
	succeeded    INT NOT NULL DEFAULT 0,
	total_tokens BIGINT NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS claims (
	id          BIGSERIAL PRIMARY KEY,
	analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
	subject     TEXT NOT NULL,
	quote       TEXT NOT NULL,
	speaker     TEXT,
	source_url  TEXT,
	score       DOUBLE PRECISION NOT NULL,
	tier        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_subject ON analyses(subject);
CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status);
CREATE INDEX IF NOT EXISTS idx_claims_analysis_id ON claims(analysis_id);
CREATE INDEX IF NOT EXISTS idx_claims_score ON claims(score DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	} else {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, a *model.AnalysisResult) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal analysis")
	}

	_, err = s.pool.Exec(ctx, preparedStatements["upsert_analysis"],
		a.ID, a.Subject, string(a.RunStatus), doc,
		a.SucceededCount(), a.TotalTokens, a.CompletedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert analysis %s", a.ID)
	}

	if _, err := s.pool.Exec(ctx, preparedStatements["clear_claims"], a.ID); err != nil {
		return eris.Wrap(err, "postgres: clear claims")
	}

	claims := flattenClaims(a)
	if len(claims) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, []any{c.AnalysisID, c.Subject, c.Quote, c.Speaker, c.SourceURL, c.Score, c.Tier})
	}
	_, err = db.CopyFrom(ctx, s.pool, "claims",
		[]string{"analysis_id", "subject", "quote", "speaker", "source_url", "score", "tier"},
		rows,
	)
	return eris.Wrap(err, "postgres: copy claims")
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id string) (*model.AnalysisResult, error) {
	return s.scanDocument(s.pool.QueryRow(ctx, preparedStatements["get_analysis"], id))
}

func (s *PostgresStore) LatestBySubject(ctx context.Context, subject string) (*model.AnalysisResult, error) {
	return s.scanDocument(s.pool.QueryRow(ctx, preparedStatements["latest_by_subject"], subject))
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisSummary, error) {
	query := `SELECT id, subject, status, succeeded, total_tokens, created_at FROM analyses WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	if filter.Subject != "" {
		args = append(args, "%"+filter.Subject+"%")
		query += ` AND subject ILIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyses")
	}
	defer rows.Close()

	var out []AnalysisSummary
	for rows.Next() {
		var sum AnalysisSummary
		if err := rows.Scan(&sum.ID, &sum.Subject, &sum.Status, &sum.Succeeded, &sum.TotalTokens, &sum.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan summary")
		}
		out = append(out, sum)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list analyses iterate")
}

func (s *PostgresStore) DeleteAnalysis(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, preparedStatements["delete_analysis"], id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete analysis %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) TopClaims(ctx context.Context, limit int) ([]ClaimRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, preparedStatements["top_claims"], limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: top claims")
	}
	defer rows.Close()

	var out []ClaimRecord
	for rows.Next() {
		var c ClaimRecord
		var speaker, url *string
		if err := rows.Scan(&c.AnalysisID, &c.Subject, &c.Quote, &speaker, &url, &c.Score, &c.Tier); err != nil {
			return nil, eris.Wrap(err, "postgres: scan claim")
		}
		if speaker != nil {
			c.Speaker = *speaker
		}
		if url != nil {
			c.SourceURL = *url
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: top claims iterate")
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByStatus: make(map[model.RunStatus]int)}

	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM analyses GROUP BY status`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: stats")
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan stats")
		}
		stats.ByStatus[model.RunStatus(status)] = int(n)
		stats.TotalAnalyses += int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: stats iterate")
	}

	var claims int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM claims`).Scan(&claims); err != nil {
		return nil, eris.Wrap(err, "postgres: count claims")
	}
	stats.TotalClaims = int(claims)
	return stats, nil
}

func (s *PostgresStore) scanDocument(row pgx.Row) (*model.AnalysisResult, error) {
	var doc []byte
	err := row.Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan document")
	}
	var a model.AnalysisResult
	if err := json.Unmarshal(doc, &a); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal analysis")
	}
	return &a, nil
}

