package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/mpn/internal/leitmotif"
	"github.com/roach88/mpn/internal/score"
	"github.com/roach88/mpn/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestOrchestrator(t *testing.T) *score.Orchestrator {
	t.Helper()
	clock := testutil.NewSteppingClock(time.Second)
	reg := leitmotif.NewRegistry(
		leitmotif.WithIDGenerator(leitmotif.NewSequentialGenerator("motif")),
		leitmotif.WithNow(clock.Now),
	)
	o := score.New(score.WithRegistry(reg), score.WithSeed(7))
	for _, p := range testutil.Cast() {
		o.RegisterActor(p)
	}
	return o
}

func writeTestRun(t *testing.T, s *Store, id string, created time.Time) Run {
	t.Helper()
	r := Run{
		ID:        id,
		Scenario:  "elsinore",
		Mode:      "FULL_ORCHESTRA",
		Seed:      7,
		CreatedAt: created,
	}
	require.NoError(t, s.WriteRun(context.Background(), r))
	return r
}
