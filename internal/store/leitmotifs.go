package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/mpn/internal/leitmotif"
)

// WriteLeitmotif stores an actor's registry entry for a run, replacing any
// earlier entry for the same actor.
func (s *Store) WriteLeitmotif(ctx context.Context, runID string, e leitmotif.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("write leitmotif: marshal entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO leitmotifs (run_id, actor_id, motif_id, use_count, entry)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, actor_id) DO UPDATE SET
			motif_id = excluded.motif_id,
			use_count = excluded.use_count,
			entry = excluded.entry
	`,
		runID,
		e.Base.ActorID,
		e.Base.ID,
		e.UseCount,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("write leitmotif: %w", err)
	}
	return nil
}

// ReadLeitmotif returns an actor's stored entry. It returns ErrNotFound
// when the run has no entry for the actor.
func (s *Store) ReadLeitmotif(ctx context.Context, runID, actorID string) (leitmotif.Entry, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT entry FROM leitmotifs WHERE run_id = ? AND actor_id = ?
	`, runID, actorID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return leitmotif.Entry{}, fmt.Errorf("leitmotif %s/%s: %w", runID, actorID, ErrNotFound)
	}
	if err != nil {
		return leitmotif.Entry{}, fmt.Errorf("read leitmotif: %w", err)
	}

	var e leitmotif.Entry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return leitmotif.Entry{}, fmt.Errorf("unmarshal leitmotif: %w", err)
	}
	return e, nil
}
