package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/mpn/internal/digest"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Run is one recorded scenario run.
type Run struct {
	ID          string    `json:"id"`
	Scenario    string    `json:"scenario"`
	Mode        string    `json:"mode"`
	Seed        uint64    `json:"seed"`
	AI          bool      `json:"ai"`
	Temperature float64   `json:"temperature"`
	CreatedAt   time.Time `json:"created_at"`
	FrameCount  int       `json:"frame_count"`
	Pass        bool      `json:"pass"`

	// Digest folds the digests of the run's frames in order. Set by
	// FinishRun.
	Digest string `json:"digest,omitempty"`
}

// NewRunID returns a time-ordered run identifier (UUIDv7).
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteRun inserts a run record, replacing any row with the same ID.
func (s *Store) WriteRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, mode, seed, ai, temperature, created_at, frame_count, pass, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scenario = excluded.scenario,
			mode = excluded.mode,
			seed = excluded.seed,
			ai = excluded.ai,
			temperature = excluded.temperature,
			frame_count = excluded.frame_count,
			pass = excluded.pass,
			digest = excluded.digest
	`,
		r.ID,
		r.Scenario,
		r.Mode,
		int64(r.Seed),
		r.AI,
		r.Temperature,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		r.FrameCount,
		r.Pass,
		r.Digest,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// FinishRun records a run's outcome and seals it with the digest of the
// frames written so far. frameCount is the number of frames the run played.
func (s *Store) FinishRun(ctx context.Context, runID string, frameCount int, pass bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("finish run: begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT digest FROM frames WHERE run_id = ? ORDER BY frame_index ASC
	`, runID)
	if err != nil {
		return fmt.Errorf("finish run: query digests: %w", err)
	}
	var digests []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			rows.Close()
			return fmt.Errorf("finish run: scan digest: %w", err)
		}
		digests = append(digests, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("finish run: iterate digests: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE runs SET frame_count = ?, pass = ?, digest = ? WHERE id = ?
	`, frameCount, pass, digest.Run(digests), runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrNotFound)
	}
	return tx.Commit()
}

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, mode, seed, ai, temperature, created_at, frame_count, pass, digest
		FROM runs WHERE id = ?
	`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return r, err
}

// ListRuns returns every run, oldest first.
// Returns an empty slice (not nil) when the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, mode, seed, ai, temperature, created_at, frame_count, pass, digest
		FROM runs
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		seed    int64
		created string
	)
	if err := row.Scan(&r.ID, &r.Scenario, &r.Mode, &seed, &r.AI, &r.Temperature,
		&created, &r.FrameCount, &r.Pass, &r.Digest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	r.Seed = uint64(seed)
	r.CreatedAt = t
	return r, nil
}
