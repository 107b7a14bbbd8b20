package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/mpn/internal/composer"
	"github.com/roach88/mpn/internal/leitmotif"
	"github.com/roach88/mpn/internal/score"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Outputs holds one snapshot per frame, in order.
	Outputs []score.Output `json:"outputs"`

	// Errors holds assertion failure messages.
	Errors []string `json:"errors,omitempty"`

	// Motifs holds each actor's leitmotif entry after the run, sorted by
	// actor ID.
	Motifs []leitmotif.Entry `json:"motifs"`
}

func (r *Result) addError(err error) {
	r.Errors = append(r.Errors, err.Error())
	r.Pass = false
}

// Observer is called after each frame. An error stops the run.
type Observer func(ctx context.Context, index int, spec FrameSpec, out score.Output) error

type runConfig struct {
	logger   *slog.Logger
	ids      leitmotif.IDGenerator
	observer Observer
	mode     composer.Mode
	seed     uint64
	ai       bool
	aiTemp   float64
}

// RunOption configures Run.
type RunOption func(*runConfig)

// WithLogger sets the logger passed to the orchestrator.
func WithLogger(l *slog.Logger) RunOption {
	return func(c *runConfig) { c.logger = l }
}

// WithIDGenerator replaces the sequential leitmotif ID generator.
func WithIDGenerator(g leitmotif.IDGenerator) RunOption {
	return func(c *runConfig) { c.ids = g }
}

// WithObserver registers a per-frame callback, typically a store writer.
func WithObserver(o Observer) RunOption {
	return func(c *runConfig) { c.observer = o }
}

// WithMode overrides the scenario's orchestration mode.
func WithMode(m composer.Mode) RunOption {
	return func(c *runConfig) { c.mode = m }
}

// WithSeed overrides the scenario's seed.
func WithSeed(seed uint64) RunOption {
	return func(c *runConfig) { c.seed = seed }
}

// WithAI enables wider melodic variation.
func WithAI(enabled bool, temperature float64) RunOption {
	return func(c *runConfig) {
		c.ai = enabled
		c.aiTemp = temperature
	}
}

func newRunConfig(s *Scenario, opts []RunOption) (runConfig, error) {
	cfg := runConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:    leitmotif.NewSequentialGenerator("motif"),
		seed:   s.Seed,
		mode:   composer.FullOrchestra,
	}
	if s.Mode != "" {
		m, ok := composer.ParseMode(s.Mode)
		if !ok {
			return runConfig{}, fmt.Errorf("unknown mode %q", s.Mode)
		}
		cfg.mode = m
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.seed == 0 {
		cfg.seed = 1
	}
	return cfg, nil
}

// Settings are the effective orchestration settings of a run.
type Settings struct {
	Mode        composer.Mode `json:"mode"`
	Seed        uint64        `json:"seed"`
	AI          bool          `json:"ai"`
	Temperature float64       `json:"temperature"`
}

// Resolve reports the settings Run would use for s with opts. A scenario
// whose mode cannot be read resolves to FULL_ORCHESTRA.
func Resolve(s *Scenario, opts ...RunOption) Settings {
	cfg, err := newRunConfig(s, opts)
	if err != nil {
		return Settings{Mode: composer.FullOrchestra, Seed: max(s.Seed, 1)}
	}
	return Settings{Mode: cfg.mode, Seed: cfg.seed, AI: cfg.ai, Temperature: cfg.aiTemp}
}

// Run plays every frame of s through a fresh orchestrator and evaluates
// the assertions. Assertion failures are reported in the Result; the
// returned error is reserved for runs that could not complete.
func Run(ctx context.Context, s *Scenario, opts ...RunOption) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("scenario is nil")
	}
	cfg, err := newRunConfig(s, opts)
	if err != nil {
		return nil, err
	}

	registry := leitmotif.NewRegistry(leitmotif.WithIDGenerator(cfg.ids))
	orc := score.New(
		score.WithLogger(cfg.logger),
		score.WithRegistry(registry),
		score.WithSeed(cfg.seed),
		score.WithMode(cfg.mode),
	)
	orc.SetAIConfig(cfg.ai, cfg.aiTemp)
	orc.UpdateAdjustments(s.Adjustments)
	for _, p := range s.Actors {
		orc.RegisterActor(p)
	}

	result := &Result{Pass: true, Outputs: make([]score.Output, 0, len(s.Frames)), Errors: []string{}}
	for i, spec := range s.Frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(spec.Adjustments) > 0 {
			orc.UpdateAdjustments(spec.Adjustments)
		}
		out := orc.ProcessFrame(frameOf(spec), spec.Trauma, spec.Entropy)
		result.Outputs = append(result.Outputs, out)
		cfg.logger.Debug("frame processed",
			"scenario", s.Name,
			"frame", out.FrameIndex,
			"speaker", out.Speaker,
			"tension", out.Harmony.Tension)

		if cfg.observer != nil {
			if err := cfg.observer(ctx, i, spec, out); err != nil {
				return nil, fmt.Errorf("frame %d (%s): %w", i, spec.Name, err)
			}
		}
	}
	result.Motifs = registry.Entries()

	for _, a := range s.Assertions {
		if err := evaluate(result.Outputs, a); err != nil {
			result.addError(err)
		}
	}
	return result, nil
}

func frameOf(spec FrameSpec) score.Frame {
	var f score.Frame
	if spec.Script != nil {
		f = *spec.Script
	}
	if f.Analysis == "" {
		f.Analysis = spec.FocusLayer
	}
	return f
}
