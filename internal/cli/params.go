package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/calculus"
	"github.com/roach88/mpn/internal/composer"
	"github.com/roach88/mpn/internal/leitmotif"
)

// ParamsOptions holds flags for the params command.
type ParamsOptions struct {
	*RootOptions
	Trauma  float64
	Entropy float64
	Text    string
	DISC    string
	Biases  []string
}

// ParamsResult is the musical reading of one psychometric state.
type ParamsResult struct {
	State          actor.State            `json:"state"`
	Params         calculus.MusicalParams `json:"params"`
	Level          composer.Level         `json:"level"`
	Transformation leitmotif.Kind         `json:"transformation"`
	Emotion        calculus.EmotionStyle  `json:"emotion"`
}

// RenderText implements TextRenderer.
func (r ParamsResult) RenderText(w io.Writer) {
	p := r.Params
	fmt.Fprintf(w, "State:     trauma %.2f  entropy %.2f  rsi R%.2f S%.2f I%.2f\n",
		r.State.Trauma, r.State.Entropy, r.State.RSI.Real, r.State.RSI.Symbolic, r.State.RSI.Imaginary)
	fmt.Fprintf(w, "Tempo:     %d bpm, %s\n", p.Tempo, p.TimeSignature)
	fmt.Fprintf(w, "Key:       %s (%s)\n", p.Key, p.Mode)
	fmt.Fprintf(w, "Dynamics:  %s (velocity %d), %s\n", p.DynamicLabel, p.Dynamic, p.Articulation)
	fmt.Fprintf(w, "Chord:     %s %s, tension %.3f\n", p.ChordRoot, p.ChordType, p.Tension)
	fmt.Fprintf(w, "Lead:      %s (%s)\n", p.Instrument, p.InstrumentFamily)
	fmt.Fprintf(w, "Level:     %s\n", r.Level)
	fmt.Fprintf(w, "Motif:     %s\n", r.Transformation)
	fmt.Fprintf(w, "Voice:     %s (rate %.2f, pitch %+d)\n", r.Emotion.Style, r.Emotion.Rate, r.Emotion.Pitch)
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParamsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Map a psychometric state to musical parameters",
		Long: `Print the musical parameters for one psychometric state. The register
balance is read from --text with the keyword classifier.

Examples:
  mpn params --trauma 0.8 --entropy 0.4 --text "I dreamed of the mask"
  mpn params --trauma 0.2 --disc 0.9,0.5,0.1,0.4 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Trauma, "trauma", 0, "trauma in [0,1] (clamped)")
	cmd.Flags().Float64Var(&opts.Entropy, "entropy", 0, "entropy in [0,1] (clamped)")
	cmd.Flags().StringVar(&opts.Text, "text", "", "dialogue text for the register classifier")
	cmd.Flags().StringVar(&opts.DISC, "disc", "", "DISC profile as D,I,S,C")
	cmd.Flags().StringSliceVar(&opts.Biases, "bias", nil, "cognitive bias (repeatable)")

	return cmd
}

func runParams(opts *ParamsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	disc, err := parseDISC(opts.DISC)
	if err != nil {
		_ = formatter.Error(ErrCodeBadArgument, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --disc", err)
	}

	state := actor.NormalizeState(actor.State{
		Trauma:  opts.Trauma,
		Entropy: opts.Entropy,
		RSI:     calculus.AnalyzeRSI(opts.Text),
		DISC:    disc,
		Biases:  opts.Biases,
	})

	return formatter.Success(ParamsResult{
		State:          state,
		Params:         calculus.PsychometricToMusical(state),
		Level:          composer.OrchestrationLevel(state.Trauma, state.Entropy),
		Transformation: leitmotif.SelectTransformation(state.Trauma, state.Entropy, state.RSI),
		Emotion:        calculus.EmotionFor(state),
	})
}

// parseDISC reads "D,I,S,C". Empty input means no profile.
func parseDISC(s string) (*actor.DISC, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("disc must have four comma-separated values (D,I,S,C), got %q", s)
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("disc value %q: %w", part, err)
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("disc value %g out of range [0,1]", f)
		}
		v[i] = f
	}
	return &actor.DISC{D: v[0], I: v[1], S: v[2], C: v[3]}, nil
}
