package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mpn/internal/testutil"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
	assert.False(t, s.ReadOnly())
}

func TestOpen_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for range 3 {
		s, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, s.WriteRun(context.Background(), Run{
			ID: "run-1", Scenario: "elsinore", Mode: "SOLO", Seed: 1, CreatedAt: testutil.Epoch,
		}))
		require.NoError(t, s.Close())
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestOpen_RefusesNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	stamp(t, path, SchemaVersion+1)

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrSchemaVersion)

	_, err = Open(path, ReadOnly())
	assert.ErrorIs(t, err, ErrSchemaVersion)
}

func TestOpenReadOnly_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := Open(path, ReadOnly())
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.NoFileExists(t, path)
}

func TestOpenReadOnly_ForeignDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	stamp(t, path, 0)

	_, err := Open(path, ReadOnly())
	assert.ErrorIs(t, err, ErrSchemaVersion)
}

func TestOpenReadOnly_ReadsButRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	rw, err := Open(path)
	require.NoError(t, err)
	writeTestRun(t, rw, "run-1", testutil.Epoch)
	require.NoError(t, rw.Close())

	s, err := Open(path, ReadOnly())
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	assert.True(t, s.ReadOnly())
	assert.Equal(t, "1", pragma(t, s.db, "query_only"))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "elsinore", got.Scenario)

	assert.Error(t, s.WriteRun(ctx, Run{ID: "run-2", Scenario: "s", Mode: "SOLO", Seed: 1, CreatedAt: testutil.Epoch}))
	assert.Error(t, s.FinishRun(ctx, "run-1", 3, true))
}

func TestClose(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	assert.NotPanics(t, func() { _ = s.Close() })
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := openTestStore(t)
	require.NotNil(t, s.DB())
	assert.NoError(t, s.DB().Ping())
}

func TestPragmas(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		name string
		want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
		{"query_only", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pragma(t, s.db, tt.name))
		})
	}
}

func TestSchema_Tables(t *testing.T) {
	s := openTestStore(t)

	tables := map[string][]string{
		"runs":       {"id", "scenario", "mode", "seed", "created_at", "ai", "temperature", "frame_count", "pass", "digest"},
		"frames":     {"run_id", "frame_index", "name", "speaker", "tension", "digest", "output"},
		"leitmotifs": {"run_id", "actor_id", "motif_id", "use_count", "entry"},
	}
	for table, expected := range tables {
		columns := getTableColumns(t, s.db, table)
		for _, col := range expected {
			assert.Contains(t, columns, col, "%s table", table)
		}
	}
}

func TestSchema_SpeakerIndex(t *testing.T) {
	s := openTestStore(t)
	assert.Contains(t, getTableIndexes(t, s.db, "frames"), "idx_frames_speaker")
}

func TestSchema_VersionStamped(t *testing.T) {
	s := openTestStore(t)
	assert.Equal(t, fmt.Sprint(SchemaVersion), pragma(t, s.db, "user_version"))
}

func TestConstraint_FrameRequiresRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO frames (run_id, frame_index, name, speaker, tension, digest, output)
		VALUES ('missing', 0, 'f', '', 0, 'd', '{}')
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY")
}

func TestConstraint_DeleteRunCascades(t *testing.T) {
	s := openTestStore(t)

	stmts := []string{
		`INSERT INTO runs (id, scenario, mode, seed, created_at) VALUES ('r1', 's', 'FULL_ORCHESTRA', 1, '2026-01-01T00:00:00Z')`,
		`INSERT INTO frames (run_id, frame_index, name, speaker, tension, digest, output) VALUES ('r1', 0, 'f', '', 0, 'd', '{}')`,
		`INSERT INTO leitmotifs (run_id, actor_id, motif_id, use_count, entry) VALUES ('r1', 'a', 'm', 1, '{}')`,
	}
	for _, stmt := range stmts {
		_, err := s.db.Exec(stmt)
		require.NoError(t, err, "exec %q", stmt)
	}
	for _, table := range []string{"frames", "leitmotifs"} {
		assert.Equal(t, 1, countRows(t, s.db, table), "%s before delete", table)
	}

	_, err := s.db.Exec(`DELETE FROM runs WHERE id = 'r1'`)
	require.NoError(t, err)

	for _, table := range []string{"frames", "leitmotifs"} {
		assert.Zero(t, countRows(t, s.db, table), "%s after delete", table)
	}
}

// stamp creates a plain SQLite file at path with the given user_version.
func stamp(t *testing.T, path string, version int) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("CREATE TABLE other (x INTEGER)")
	require.NoError(t, err)
	_, err = db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version))
	require.NoError(t, err)
}

func pragma(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	var value string
	require.NoError(t, db.QueryRow("PRAGMA "+name).Scan(&value))
	return value
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, ctype      string
			dflt             any
		)
		require.NoError(t, rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	require.NoError(t, err)
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		indexes = append(indexes, name)
	}
	require.NoError(t, rows.Err())
	return slices.Sorted(slices.Values(indexes))
}
