package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Workup/internal/scoring"
	"github.com/MikeSquared-Agency/Workup/internal/workup"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the tables and indexes if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const riskBundleColumns = `id, assessment_id, algorithm_version, overall, risk_level, bundle, requested_by, created_at`

func (s *PostgresStore) SaveRiskBundle(ctx context.Context, rec *RiskBundleRecord) error {
	bundleJSON, err := json.Marshal(rec.Bundle)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO workup_risk_bundles (assessment_id, algorithm_version, overall, risk_level, bundle, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		rec.AssessmentID, rec.AlgorithmVersion, rec.Overall, string(rec.RiskLevel), bundleJSON, rec.RequestedBy,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (s *PostgresStore) LatestRiskBundle(ctx context.Context, assessmentID string) (*RiskBundleRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+riskBundleColumns+`
		FROM workup_risk_bundles WHERE assessment_id = $1
		ORDER BY created_at DESC LIMIT 1`, assessmentID)
	rec, err := scanRiskBundle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (s *PostgresStore) ListRiskBundles(ctx context.Context, filter RecordFilter) ([]*RiskBundleRecord, error) {
	query, args := filteredQuery(`SELECT `+riskBundleColumns+` FROM workup_risk_bundles`, filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RiskBundleRecord
	for rows.Next() {
		rec, err := scanRiskBundle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const workupColumns = `id, assessment_id, funnel_slug, status, evidence_pack_hash, result, requested_by, created_at`

func (s *PostgresStore) SaveWorkup(ctx context.Context, rec *WorkupRecord) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal workup: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO workup_results (assessment_id, funnel_slug, status, evidence_pack_hash, result, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		rec.AssessmentID, rec.FunnelSlug, string(rec.Status), rec.EvidencePackHash, resultJSON, rec.RequestedBy,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (s *PostgresStore) LatestWorkup(ctx context.Context, assessmentID string) (*WorkupRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+workupColumns+`
		FROM workup_results WHERE assessment_id = $1
		ORDER BY created_at DESC LIMIT 1`, assessmentID)
	rec, err := scanWorkup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (s *PostgresStore) ListWorkups(ctx context.Context, filter RecordFilter) ([]*WorkupRecord, error) {
	query, args := filteredQuery(`SELECT `+workupColumns+` FROM workup_results`, filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*WorkupRecord
	for rows.Next() {
		rec, err := scanWorkup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func filteredQuery(base string, filter RecordFilter) (string, []interface{}) {
	query := base + ` WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.AssessmentID != "" {
		n++
		query += fmt.Sprintf(" AND assessment_id = $%d", n)
		args = append(args, filter.AssessmentID)
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}
	return query, args
}

func scanRiskBundle(row pgx.Row) (*RiskBundleRecord, error) {
	rec := &RiskBundleRecord{}
	var riskLevel string
	var bundleJSON []byte
	if err := row.Scan(
		&rec.ID, &rec.AssessmentID, &rec.AlgorithmVersion, &rec.Overall, &riskLevel,
		&bundleJSON, &rec.RequestedBy, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.RiskLevel = scoring.RiskLevel(riskLevel)
	if bundleJSON != nil {
		if err := json.Unmarshal(bundleJSON, &rec.Bundle); err != nil {
			return nil, fmt.Errorf("decode bundle %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func scanWorkup(row pgx.Row) (*WorkupRecord, error) {
	rec := &WorkupRecord{}
	var status string
	var resultJSON []byte
	if err := row.Scan(
		&rec.ID, &rec.AssessmentID, &rec.FunnelSlug, &status, &rec.EvidencePackHash,
		&resultJSON, &rec.RequestedBy, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.Status = workup.Status(status)
	if resultJSON != nil {
		if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
			return nil, fmt.Errorf("decode workup %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}
