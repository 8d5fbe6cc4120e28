package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m3movement/dealfinder/internal/domain"
)

// RunStore implements domain.RunStore using PostgreSQL. Each run snapshot is
// stored whole as JSONB, keyed by run id, with the counters duplicated into
// columns for cheap queries. Upserting the same run twice is a no-op apart
// from refreshing the stored document, which keeps re-ingests idempotent.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore creates a new RunStore backed by the given connection pool.
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

const upsertRunQuery = `
	INSERT INTO runs (
		run_id, run_timestamp, total_swappa, total_newegg, total_ebay_sold,
		opportunity_count, data
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (run_id) DO UPDATE SET
		run_timestamp     = EXCLUDED.run_timestamp,
		total_swappa      = EXCLUDED.total_swappa,
		total_newegg      = EXCLUDED.total_newegg,
		total_ebay_sold   = EXCLUDED.total_ebay_sold,
		opportunity_count = EXCLUDED.opportunity_count,
		data              = EXCLUDED.data`

// Upsert inserts or refreshes a single run snapshot.
func (s *RunStore) Upsert(ctx context.Context, run domain.RunSnapshot) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("postgres: marshal run %d: %w", run.RunID, err)
	}

	_, err = s.pool.Exec(ctx, upsertRunQuery,
		run.RunID, run.Timestamp,
		run.TotalSwappa, run.TotalNewegg, run.TotalEbaySold,
		len(run.Opportunities), data,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert run %d: %w", run.RunID, err)
	}
	return nil
}

// UpsertBatch inserts or refreshes multiple runs in a single batch.
func (s *RunStore) UpsertBatch(ctx context.Context, runs []domain.RunSnapshot) error {
	if len(runs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, run := range runs {
		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("postgres: marshal run %d: %w", run.RunID, err)
		}
		batch.Queue(upsertRunQuery,
			run.RunID, run.Timestamp,
			run.TotalSwappa, run.TotalNewegg, run.TotalEbaySold,
			len(run.Opportunities), data,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range runs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: upsert run batch: %w", err)
		}
	}
	return nil
}

// GetByRunID returns a single run snapshot. It returns domain.ErrNotFound
// when no run with the given id has been stored.
func (s *RunStore) GetByRunID(ctx context.Context, runID int) (domain.RunSnapshot, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM runs WHERE run_id = $1`, runID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RunSnapshot{}, domain.ErrNotFound
		}
		return domain.RunSnapshot{}, fmt.Errorf("postgres: get run %d: %w", runID, err)
	}

	return unmarshalRun(data)
}

// ListRecent returns the most recent runs in ascending run-id order.
func (s *RunStore) ListRecent(ctx context.Context, limit int) ([]domain.RunSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT data FROM (
			SELECT run_id, data FROM runs ORDER BY run_id DESC LIMIT $1
		) recent ORDER BY run_id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ListBefore returns all runs recorded strictly before the cutoff, in
// ascending run-id order. Used by the cold-storage archiver.
func (s *RunStore) ListBefore(ctx context.Context, before time.Time) ([]domain.RunSnapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM runs WHERE created_at < $1 ORDER BY run_id ASC`, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list runs before %s: %w", before.Format(time.RFC3339), err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Count returns the number of stored runs.
func (s *RunStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count runs: %w", err)
	}
	return n, nil
}

func scanRuns(rows pgx.Rows) ([]domain.RunSnapshot, error) {
	var runs []domain.RunSnapshot
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("postgres: scan run: %w", err)
		}
		run, err := unmarshalRun(data)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate runs: %w", err)
	}
	return runs, nil
}

func unmarshalRun(data []byte) (domain.RunSnapshot, error) {
	var run domain.RunSnapshot
	if err := json.Unmarshal(data, &run); err != nil {
		return domain.RunSnapshot{}, fmt.Errorf("postgres: unmarshal run: %w", err)
	}
	return run, nil
}
