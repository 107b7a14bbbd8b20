package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mpn/internal/store"
)

// FramesOptions holds flags for the frames command.
type FramesOptions struct {
	*RootOptions
	Database string
	RunID    string
	Speaker  string
}

// FramesResult lists the recorded frames of one run.
type FramesResult struct {
	Run    store.Run           `json:"run"`
	Frames []store.FrameRecord `json:"frames"`
}

// RenderText implements TextRenderer.
func (r FramesResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Run %s: %s (%s, seed %d)\n", r.Run.ID, r.Run.Scenario, r.Run.Mode, r.Run.Seed)
	if len(r.Frames) == 0 {
		fmt.Fprintln(w, "  no frames")
		return
	}
	for _, f := range r.Frames {
		out := f.Output
		speaker := out.Speaker
		if speaker == "" {
			speaker = "-"
		}
		fmt.Fprintf(w, "  [%d] %-12s %-10s %-10s %-8s %-4s tension %.3f\n",
			out.FrameIndex, f.Name, speaker, out.Global.Key, out.Harmony.Chord,
			out.Harmony.RomanNumeral, out.Harmony.Tension)
	}
}

// RunsResult lists recorded runs.
type RunsResult struct {
	Runs []store.Run `json:"runs"`
}

// RenderText implements TextRenderer.
func (r RunsResult) RenderText(w io.Writer) {
	if len(r.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, run := range r.Runs {
		status := "✓"
		if !run.Pass {
			status = "✗"
		}
		fmt.Fprintf(w, "%s %s  %-16s %-16s %2d frames  %s\n",
			status, run.ID, run.Scenario, run.Mode, run.FrameCount, run.CreatedAt.Format(time.RFC3339))
	}
}

// NewFramesCommand creates the frames command.
func NewFramesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FramesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Show the recorded frames of a run",
		Long: `Read the frames recorded by "mpn run --db" for one run, optionally only
those in which a given actor spoke. Use --format json for the full
orchestrator output of every frame.

Examples:
  mpn frames --db ./mpn.db --run 0190a6d2-...
  mpn frames --db ./mpn.db --run 0190a6d2-... --speaker hamlet --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrames(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides MPN_DB)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID (required)")
	cmd.Flags().StringVar(&opts.Speaker, "speaker", "", "only frames in which this actor spoke")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runFrames(opts *FramesOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openExistingStore(formatter, opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, store.ErrNotFound) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	var frames []store.FrameRecord
	if opts.Speaker != "" {
		frames, err = st.ReadSpeakerFrames(ctx, opts.RunID, opts.Speaker)
	} else {
		frames, err = st.ReadFrames(ctx, opts.RunID)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read frames", err)
	}

	return formatter.Success(FramesResult{Run: run, Frames: frames})
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List recorded runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			st, err := openExistingStore(formatter, rootOpts, database)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context())
			if err != nil {
				_ = formatter.Error(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to list runs", err)
			}
			return formatter.Success(RunsResult{Runs: runs})
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "path to SQLite database (overrides MPN_DB)")

	return cmd
}

// openExistingStore opens the database named by the flag or MPN_DB
// read-only. Unlike run, read commands never create or change a database.
func openExistingStore(formatter *OutputFormatter, opts *RootOptions, flagPath string) (*store.Store, error) {
	path := flagPath
	if path == "" {
		path = opts.Config.DB
	}
	if path == "" {
		err := errors.New("no database: pass --db or set MPN_DB")
		_ = formatter.Error(ErrCodeBadArgument, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "no database", err)
	}

	st, err := store.Open(path, store.ReadOnly())
	if errors.Is(err, store.ErrNoDatabase) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("failed to open database: %v", err), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
