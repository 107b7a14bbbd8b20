package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mpn/internal/store"
)

func TestReplayDeterministic(t *testing.T) {
	dbPath, runID := recordElsinore(t)

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--run", runID, elsinorePath)
	require.NoError(t, err)

	var res ReplayResult
	resp := decodeData(t, out, &res)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, res.Deterministic)
	assert.Equal(t, runID, res.RunID)
	assert.Equal(t, 3, res.Frames)
	assert.Empty(t, res.Divergences)
	assert.Len(t, res.Digest, 64)
	assert.Equal(t, res.StoredDigest, res.Digest)
}

func TestReplayWithRecordedSettings(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mpn.db")
	out, err := execute(t, NewRunCommand(&RootOptions{Format: "json"}),
		"--db", dbPath, "--mode", "jazz-noir", "--seed", "9", "--ai", "--temperature", "0.3", elsinorePath)
	require.NoError(t, err)
	var summary RunSummary
	decodeData(t, out, &summary)

	out, err = execute(t, NewReplayCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--run", summary.RunID, elsinorePath)
	require.NoError(t, err)

	var res ReplayResult
	decodeData(t, out, &res)
	assert.True(t, res.Deterministic)
	assert.Equal(t, "JAZZ_NOIR", res.Mode)
	assert.Equal(t, uint64(9), res.Seed)
	assert.Equal(t, summary.Digest, res.Digest)
}

func TestReplayDetectsTamperedFrame(t *testing.T) {
	dbPath, runID := recordElsinore(t)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().ExecContext(context.Background(),
		`UPDATE frames SET digest = 'tampered' WHERE run_id = ? AND frame_index = 1`, runID)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--run", runID, elsinorePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var res ReplayResult
	resp := decodeData(t, out, &res)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeAssertion, resp.Error.Code)
	assert.False(t, res.Deterministic)
	require.Len(t, res.Divergences, 1)
	assert.Equal(t, 1, res.Divergences[0].Index)
	assert.Equal(t, "court", res.Divergences[0].Name)
	assert.Equal(t, "tampered", res.Divergences[0].Stored)
}

func TestReplayDetectsMissingFrame(t *testing.T) {
	dbPath, runID := recordElsinore(t)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().ExecContext(context.Background(),
		`DELETE FROM frames WHERE run_id = ? AND frame_index = 2`, runID)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--run", runID, elsinorePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[2] chapel")
	assert.Contains(t, out, "Replay diverged")
}

func TestReplayText(t *testing.T) {
	dbPath, runID := recordElsinore(t)

	out, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--run", runID, elsinorePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay "+runID+": elsinore")
	assert.Contains(t, out, "Deterministic")
}

func TestReplayErrors(t *testing.T) {
	dbPath, runID := recordElsinore(t)
	quartet := writeScenario(t, "quartet.yaml", quartetScenario)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown run", []string{"--db", dbPath, "--run", "ghost", elsinorePath}, "run not found"},
		{"scenario mismatch", []string{"--db", dbPath, "--run", runID, quartet}, "recorded scenario"},
		{"missing database", []string{"--db", filepath.Join(t.TempDir(), "none.db"), "--run", runID, elsinorePath}, "database not found"},
		{"missing scenario", []string{"--db", dbPath, "--run", runID, "/nonexistent/scenario.yaml"}, "scenario not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.want)
		})
	}
}
