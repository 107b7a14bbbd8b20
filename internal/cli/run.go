package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mpn/internal/composer"
	"github.com/roach88/mpn/internal/digest"
	"github.com/roach88/mpn/internal/scenario"
	"github.com/roach88/mpn/internal/score"
	"github.com/roach88/mpn/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database    string
	Mode        string
	Seed        uint64
	AI          bool
	Temperature float64

	// Now stamps the run record. Defaults to time.Now.
	Now func() time.Time
}

// RunSummary is the result of the run command.
type RunSummary struct {
	RunID    string                   `json:"run_id,omitempty"`
	Scenario string                   `json:"scenario"`
	Mode     string                   `json:"mode"`
	Pass     bool                     `json:"pass"`
	Frames   []FrameLine              `json:"frames"`
	Errors   []string                 `json:"errors,omitempty"`
	Motifs   []scenario.MotifSnapshot `json:"motifs"`
	Digest   string                   `json:"digest"`
}

// FrameLine is the one-line summary of a frame.
type FrameLine struct {
	Index    int64   `json:"index"`
	Name     string  `json:"name"`
	Speaker  string  `json:"speaker,omitempty"`
	Key      string  `json:"key"`
	Tempo    int     `json:"tempo"`
	Dynamics string  `json:"dynamics"`
	Chord    string  `json:"chord"`
	Tension  float64 `json:"tension"`
}

// RenderText implements TextRenderer.
func (r RunSummary) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Scenario %s (%s)\n", r.Scenario, r.Mode)
	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID: %s\n", r.RunID)
	}
	fmt.Fprintf(w, "Digest: %s\n", r.Digest)
	for _, f := range r.Frames {
		speaker := f.Speaker
		if speaker == "" {
			speaker = "-"
		}
		fmt.Fprintf(w, "  [%d] %-12s %-10s %-10s %3d bpm %-3s %-8s tension %.3f\n",
			f.Index, f.Name, speaker, f.Key, f.Tempo, f.Dynamics, f.Chord, f.Tension)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  ✗ %s\n", e)
	}
	if r.Pass {
		fmt.Fprintln(w, "✓ All assertions passed")
	}
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Score a scenario frame by frame",
		Long: `Play every frame of a scenario through a fresh orchestrator, print a
summary of each frame, and check the scenario's assertions.

With --db (or MPN_DB) every frame output and the final leitmotifs are
recorded in a SQLite database under a new run ID.

Exit codes:
  0 - All assertions passed
  1 - One or more assertions failed
  2 - Command error (unreadable scenario, database error)

Examples:
  mpn run scenarios/elsinore.yaml
  mpn run scenarios/elsinore.yaml --db ./mpn.db --mode jazz_noir --seed 7`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides MPN_DB)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "orchestration mode (overrides the scenario and MPN_MODE)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "variation seed (overrides the scenario and MPN_SEED)")
	cmd.Flags().BoolVar(&opts.AI, "ai", false, "enable wider melodic variation (overrides MPN_AI_ENABLED)")
	cmd.Flags().Float64Var(&opts.Temperature, "temperature", 0.7, "variation temperature in [0,1] (overrides MPN_AI_TEMPERATURE)")

	return cmd
}

func runScenario(cmd *cobra.Command, opts *RunOptions, path string) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	s, err := scenario.Load(path)
	if err != nil {
		return scenarioLoadError(formatter, path, err)
	}

	runOpts, err := opts.runOptions(cmd, s)
	if err != nil {
		_ = formatter.Error(ErrCodeBadArgument, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	runOpts = append(runOpts, scenario.WithLogger(log))
	settings := scenario.Resolve(s, runOpts...)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.DB
	}

	var rec *recorder
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, fmt.Sprintf("failed to open database: %v", err), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		now := opts.Now
		if now == nil {
			now = time.Now
		}
		rec = &recorder{store: st, run: store.Run{
			ID:          store.NewRunID(),
			Scenario:    s.Name,
			Mode:        string(settings.Mode),
			Seed:        settings.Seed,
			AI:          settings.AI,
			Temperature: settings.Temperature,
			CreatedAt:   now(),
		}}
		if err := st.WriteRun(ctx, rec.run); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		runOpts = append(runOpts, scenario.WithObserver(rec.observe))
		log.Info("recording run", "run_id", rec.run.ID, "db", dbPath)
	}

	result, err := scenario.Run(ctx, s, runOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "scenario run failed", err)
	}

	if rec != nil {
		if err := rec.finish(ctx, result); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	summary, err := summarize(s, result)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to digest run", err)
	}
	if rec != nil {
		summary.RunID = rec.run.ID
	}
	summary.Mode = string(settings.Mode)

	if !result.Pass {
		msg := fmt.Sprintf("%d assertion(s) failed", len(result.Errors))
		if err := formatter.Failure(ErrCodeAssertion, msg, summary); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(summary)
}

// runOptions resolves mode, seed and variation settings. Explicit flags
// win, then the scenario file, then the environment.
func (o *RunOptions) runOptions(cmd *cobra.Command, s *scenario.Scenario) ([]scenario.RunOption, error) {
	var runOpts []scenario.RunOption

	switch {
	case cmd.Flags().Changed("mode"):
		m, ok := composer.ParseMode(o.Mode)
		if !ok {
			return nil, fmt.Errorf("unknown mode %q", o.Mode)
		}
		runOpts = append(runOpts, scenario.WithMode(m))
	case s.Mode == "" && o.Config.Mode != "":
		runOpts = append(runOpts, scenario.WithMode(o.Config.Mode))
	}

	switch {
	case cmd.Flags().Changed("seed"):
		if o.Seed == 0 {
			return nil, fmt.Errorf("seed must be non-zero")
		}
		runOpts = append(runOpts, scenario.WithSeed(o.Seed))
	case s.Seed == 0 && o.Config.Seed != 0:
		runOpts = append(runOpts, scenario.WithSeed(o.Config.Seed))
	}

	ai := o.Config.AIEnabled
	if cmd.Flags().Changed("ai") {
		ai = o.AI
	}
	temp := o.Config.AITemperature
	if cmd.Flags().Changed("temperature") {
		temp = o.Temperature
	}
	if temp < 0 || temp > 1 {
		return nil, fmt.Errorf("temperature must be in [0,1], got %g", temp)
	}
	if ai {
		runOpts = append(runOpts, scenario.WithAI(true, temp))
	}
	return runOpts, nil
}

func summarize(s *scenario.Scenario, r *scenario.Result) (RunSummary, error) {
	sums, err := frameDigests(r.Outputs)
	if err != nil {
		return RunSummary{}, err
	}
	snap := scenario.Snap(s, r)
	summary := RunSummary{
		Scenario: s.Name,
		Pass:     r.Pass,
		Frames:   make([]FrameLine, len(snap.Frames)),
		Errors:   r.Errors,
		Motifs:   snap.Motifs,
		Digest:   digest.Run(sums),
	}
	for i, f := range snap.Frames {
		summary.Frames[i] = FrameLine{
			Index:    f.Index,
			Name:     f.Name,
			Speaker:  f.Speaker,
			Key:      f.Key,
			Tempo:    f.Tempo,
			Dynamics: f.Dynamics,
			Chord:    f.Chord,
			Tension:  f.Tension,
		}
	}
	return summary, nil
}

func frameDigests(outputs []score.Output) ([]string, error) {
	sums := make([]string, len(outputs))
	for i, out := range outputs {
		d, err := digest.Frame(out)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		sums[i] = d
	}
	return sums, nil
}

// recorder persists a run as it is played.
type recorder struct {
	store *store.Store
	run   store.Run
}

func (r *recorder) observe(ctx context.Context, _ int, spec scenario.FrameSpec, out score.Output) error {
	return r.store.WriteFrame(ctx, r.run.ID, spec.Name, out)
}

func (r *recorder) finish(ctx context.Context, result *scenario.Result) error {
	for _, e := range result.Motifs {
		if err := r.store.WriteLeitmotif(ctx, r.run.ID, e); err != nil {
			return err
		}
	}
	return r.store.FinishRun(ctx, r.run.ID, len(result.Outputs), result.Pass)
}

// signalContext returns the command's context, cancelled on SIGINT or
// SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func scenarioLoadError(formatter *OutputFormatter, path string, err error) error {
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scenario not found: %s", path), nil)
		return WrapExitError(ExitCommandError, "scenario not found", err)
	}
	_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
	return WrapExitError(ExitFailure, "invalid scenario", err)
}
