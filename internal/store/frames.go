package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/mpn/internal/digest"
	"github.com/roach88/mpn/internal/score"
)

// FrameRecord is one stored orchestrator output.
type FrameRecord struct {
	RunID  string       `json:"run_id"`
	Name   string       `json:"name"`
	Digest string       `json:"digest"`
	Output score.Output `json:"output"`
}

// WriteFrame stores one frame of a run. The run must exist (foreign key
// constraint). Writing the same frame index twice replaces the earlier row.
func (s *Store) WriteFrame(ctx context.Context, runID, name string, out score.Output) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("write frame: marshal output: %w", err)
	}
	sum, err := digest.Frame(out)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO frames (run_id, frame_index, name, speaker, tension, digest, output)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, frame_index) DO UPDATE SET
			name = excluded.name,
			speaker = excluded.speaker,
			tension = excluded.tension,
			digest = excluded.digest,
			output = excluded.output
	`,
		runID,
		out.FrameIndex,
		name,
		out.Speaker,
		out.Harmony.Tension,
		sum,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrames returns a run's frames in frame order.
// Returns an empty slice (not nil) if the run has no frames.
func (s *Store) ReadFrames(ctx context.Context, runID string) ([]FrameRecord, error) {
	return s.queryFrames(ctx, `
		SELECT run_id, name, digest, output FROM frames
		WHERE run_id = ?
		ORDER BY frame_index ASC
	`, runID)
}

// ReadSpeakerFrames returns the frames of a run in which actorID spoke.
func (s *Store) ReadSpeakerFrames(ctx context.Context, runID, actorID string) ([]FrameRecord, error) {
	return s.queryFrames(ctx, `
		SELECT run_id, name, digest, output FROM frames
		WHERE run_id = ? AND speaker = ?
		ORDER BY frame_index ASC
	`, runID, actorID)
}

func (s *Store) queryFrames(ctx context.Context, query string, args ...any) ([]FrameRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	frames := []FrameRecord{}
	for rows.Next() {
		var (
			rec  FrameRecord
			data string
		)
		if err := rows.Scan(&rec.RunID, &rec.Name, &rec.Digest, &data); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &rec.Output); err != nil {
			return nil, fmt.Errorf("unmarshal frame output: %w", err)
		}
		frames = append(frames, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate frames: %w", err)
	}
	return frames, nil
}
