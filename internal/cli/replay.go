package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/mpn/internal/composer"
	"github.com/roach88/mpn/internal/digest"
	"github.com/roach88/mpn/internal/scenario"
	"github.com/roach88/mpn/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// Divergence is a frame whose replayed output differs from the recording.
// Stored or Replayed is empty when the frame exists on one side only.
type Divergence struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Stored   string `json:"stored"`
	Replayed string `json:"replayed"`
}

// ReplayResult holds the outcome of replaying one recorded run.
type ReplayResult struct {
	RunID         string       `json:"run_id"`
	Scenario      string       `json:"scenario"`
	Mode          string       `json:"mode"`
	Seed          uint64       `json:"seed"`
	Frames        int          `json:"frames"`
	Deterministic bool         `json:"deterministic"`
	Divergences   []Divergence `json:"divergences,omitempty"`
	StoredDigest  string       `json:"stored_digest"`
	Digest        string       `json:"digest"`
}

// RenderText implements TextRenderer.
func (r ReplayResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Replay %s: %s (%s, seed %d), %d frame(s)\n",
		r.RunID, r.Scenario, r.Mode, r.Seed, r.Frames)
	for _, d := range r.Divergences {
		fmt.Fprintf(w, "  ✗ [%d] %s\n", d.Index, d.Name)
		fmt.Fprintf(w, "      stored:   %s\n", orDash(d.Stored))
		fmt.Fprintf(w, "      replayed: %s\n", orDash(d.Replayed))
	}
	if r.Deterministic {
		fmt.Fprintf(w, "✓ Deterministic (%s)\n", r.Digest)
	} else {
		fmt.Fprintf(w, "✗ Replay diverged: %d frame(s) differ\n", len(r.Divergences))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a recorded run and verify determinism",
		Long: `Play a scenario again with the mode, seed and variation settings of a
recorded run, and compare the digest of every frame with the recording.

Exit codes:
  0 - Every frame matches the recording
  1 - Determinism verification failed (frames differ)
  2 - Command error (database or run not found, scenario mismatch)

Examples:
  mpn replay --db ./mpn.db --run 0190a6d2-... scenarios/elsinore.yaml
  mpn replay --db ./mpn.db --run 0190a6d2-... scenarios/elsinore.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides MPN_DB)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID (required)")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, path string) error {
	formatter := opts.formatter(cmd)

	s, err := scenario.Load(path)
	if err != nil {
		return scenarioLoadError(formatter, path, err)
	}

	st, err := openExistingStore(formatter, opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, store.ErrNotFound) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	if run.Scenario != s.Name {
		msg := fmt.Sprintf("run %s recorded scenario %q, not %q", run.ID, run.Scenario, s.Name)
		_ = formatter.Error(ErrCodeBadArgument, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	mode, ok := composer.ParseMode(run.Mode)
	if !ok {
		msg := fmt.Sprintf("run %s has unknown mode %q", run.ID, run.Mode)
		_ = formatter.Error(ErrCodeStore, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	stored, err := st.ReadFrames(ctx, run.ID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read frames", err)
	}

	result, err := scenario.Run(ctx, s,
		scenario.WithLogger(opts.logger()),
		scenario.WithMode(mode),
		scenario.WithSeed(run.Seed),
		scenario.WithAI(run.AI, run.Temperature),
	)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "scenario replay failed", err)
	}
	replayed, err := frameDigests(result.Outputs)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to digest replay", err)
	}

	res := ReplayResult{
		RunID:        run.ID,
		Scenario:     run.Scenario,
		Mode:         run.Mode,
		Seed:         run.Seed,
		Frames:       len(replayed),
		Divergences:  compareFrames(stored, replayed, s),
		StoredDigest: run.Digest,
		Digest:       digest.Run(replayed),
	}
	// An unfinished run has no stored digest; its frames still compare.
	res.Deterministic = len(res.Divergences) == 0 &&
		(run.Digest == "" || run.Digest == res.Digest)

	opts.logger().Debug("replay complete",
		"run_id", run.ID,
		"frames", res.Frames,
		"divergences", len(res.Divergences))

	if !res.Deterministic {
		msg := fmt.Sprintf("replay diverged from run %s", run.ID)
		if err := formatter.Failure(ErrCodeAssertion, msg, res); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(res)
}

// compareFrames pairs stored and replayed frame digests by frame index.
func compareFrames(stored []store.FrameRecord, replayed []string, s *scenario.Scenario) []Divergence {
	byIndex := make(map[int]store.FrameRecord, len(stored))
	n := len(replayed)
	for _, rec := range stored {
		i := int(rec.Output.FrameIndex)
		byIndex[i] = rec
		n = max(n, i+1)
	}

	var out []Divergence
	for i := range n {
		d := Divergence{Index: i}
		if rec, ok := byIndex[i]; ok {
			d.Name = rec.Name
			d.Stored = rec.Digest
		}
		if i < len(replayed) {
			d.Name = s.Frames[i].Name
			d.Replayed = replayed[i]
		}
		if d.Stored != d.Replayed {
			out = append(out, d)
		}
	}
	return out
}
