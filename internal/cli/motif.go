package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/harmony"
	"github.com/roach88/mpn/internal/instrument"
	"github.com/roach88/mpn/internal/leitmotif"
)

// MotifOptions holds flags for the motif command.
type MotifOptions struct {
	*RootOptions
	ID          string
	Name        string
	DISC        string
	Archetype   string
	Neuroticism float64
	Transform   string

	// IDs overrides the UUIDv7 leitmotif ID generator (for testing).
	IDs leitmotif.IDGenerator
}

// MotifResult is a generated leitmotif and the instrument chosen for it.
type MotifResult struct {
	Leitmotif  leitmotif.Leitmotif `json:"leitmotif"`
	Instrument string              `json:"instrument"`
}

// RenderText implements TextRenderer.
func (r MotifResult) RenderText(w io.Writer) {
	m := r.Leitmotif
	names := make([]string, len(m.PitchClasses))
	for i, pc := range m.PitchClasses {
		names[i] = harmony.PitchClassName(pc)
	}
	fmt.Fprintf(w, "Leitmotif %s for %s (%s)\n", m.ID, m.ActorName, m.ActorID)
	fmt.Fprintf(w, "  Pitches:        %s\n", strings.Join(names, " "))
	fmt.Fprintf(w, "  Rhythm:         %v\n", m.Rhythm)
	fmt.Fprintf(w, "  Key:            %s, octave %d, %d bpm\n", m.Key, m.BaseOctave, m.Tempo)
	fmt.Fprintf(w, "  Transformation: %s\n", m.CurrentTransformation)
	fmt.Fprintf(w, "  Instrument:     %s\n", r.Instrument)
}

// NewMotifCommand creates the motif command.
func NewMotifCommand(rootOpts *RootOptions) *cobra.Command {
	return newMotifCommand(&MotifOptions{RootOptions: rootOpts})
}

func newMotifCommand(opts *MotifOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "motif",
		Short: "Generate an actor's leitmotif",
		Long: `Derive the leitmotif for an actor profile given on the command line and
optionally apply one transformation to it.

Transformations: original, inverted, retrograde, augmented, diminished,
fragmented, chromatic_descent, whole_tone_ascent.

Examples:
  mpn motif --id hamlet --name Hamlet --disc 0.3,0.2,0.1,0.8 --neuroticism 0.8
  mpn motif --id claudius --disc 0.9,0.5,0.1,0.4 --archetype shadow --transform inverted`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMotif(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "actor ID (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "actor name (defaults to the ID)")
	cmd.Flags().StringVar(&opts.DISC, "disc", "", "DISC profile as D,I,S,C")
	cmd.Flags().StringVar(&opts.Archetype, "archetype", "", "narrative archetype")
	cmd.Flags().Float64Var(&opts.Neuroticism, "neuroticism", 0, "Big Five neuroticism in [0,1]")
	cmd.Flags().StringVar(&opts.Transform, "transform", "", "transformation to apply")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runMotif(opts *MotifOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	disc, err := parseDISC(opts.DISC)
	if err != nil {
		_ = formatter.Error(ErrCodeBadArgument, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --disc", err)
	}

	name := opts.Name
	if name == "" {
		name = opts.ID
	}
	p := actor.Profile{
		ID:        opts.ID,
		Name:      name,
		DISC:      disc,
		Archetype: actor.Archetype(opts.Archetype),
	}
	if cmd.Flags().Changed("neuroticism") {
		p.BigFive = &actor.BigFive{N: opts.Neuroticism}
	}

	if errs := actor.Validate(p); len(errs) > 0 {
		_ = formatter.Error(errs[0].Code, errs[0].Error(), errs)
		return WrapExitError(ExitFailure, "invalid actor profile", errs[0])
	}

	kind := leitmotif.Kind(opts.Transform)
	if opts.Transform != "" && !kind.Valid() {
		err := fmt.Errorf("unknown transformation %q", opts.Transform)
		_ = formatter.Error(ErrCodeBadArgument, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --transform", err)
	}

	ids := opts.IDs
	if ids == nil {
		ids = leitmotif.UUIDv7Generator{}
	}
	m := leitmotif.GenerateWithID(p, ids)
	if opts.Transform != "" {
		m = leitmotif.Transform(m, kind)
	}

	return formatter.Success(MotifResult{
		Leitmotif:  m,
		Instrument: instrument.Select(actor.Normalize(p)),
	})
}
