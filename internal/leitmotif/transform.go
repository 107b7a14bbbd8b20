package leitmotif

import (
	"slices"

	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/harmony"
)

// Transform returns a copy of m reshaped by kind, tagged with kind as its
// current transformation and with kind appended to its history. m is not
// modified. An invalid kind is treated as Original.
//
//	inverted          pitch classes mirrored around the root
//	retrograde        pitches and rhythm reversed
//	augmented         durations doubled
//	diminished        durations halved
//	fragmented        every other note kept, starting with the first
//	chromatic_descent root, root-1, root-2, ...
//	whole_tone_ascent root, root+2, root+4, ...
func Transform(m Leitmotif, kind Kind) Leitmotif {
	if !kind.Valid() {
		kind = Original
	}

	out := m
	out.PitchClasses = slices.Clone(m.PitchClasses)
	out.Intervals = slices.Clone(m.Intervals)
	out.Rhythm = slices.Clone(m.Rhythm)
	out.TransformationHistory = append(slices.Clone(m.TransformationHistory), kind)
	out.CurrentTransformation = kind

	root := m.Root()
	switch kind {
	case Inverted:
		for i, pc := range out.PitchClasses {
			out.PitchClasses[i] = harmony.Mod12(2*root - pc)
		}
		for i, iv := range out.Intervals {
			out.Intervals[i] = -iv
		}
	case Retrograde:
		slices.Reverse(out.PitchClasses)
		slices.Reverse(out.Rhythm)
		slices.Reverse(out.Intervals)
		for i, iv := range out.Intervals {
			out.Intervals[i] = -iv
		}
	case Augmented:
		for i := range out.Rhythm {
			out.Rhythm[i] *= 2
		}
	case Diminished:
		for i := range out.Rhythm {
			out.Rhythm[i] /= 2
		}
	case Fragmented:
		out.PitchClasses = everyOther(out.PitchClasses)
		out.Rhythm = everyOther(out.Rhythm)
		out.Intervals = stepsBetween(out.PitchClasses)
	case ChromaticDescent:
		for i := range out.PitchClasses {
			out.PitchClasses[i] = harmony.Mod12(root - i)
		}
		out.Intervals = constantSteps(len(out.PitchClasses)-1, -1)
	case WholeToneAscent:
		for i := range out.PitchClasses {
			out.PitchClasses[i] = harmony.Mod12(root + 2*i)
		}
		out.Intervals = constantSteps(len(out.PitchClasses)-1, 2)
	}
	return out
}

func everyOther[T any](xs []T) []T {
	out := make([]T, 0, (len(xs)+1)/2)
	for i := 0; i < len(xs); i += 2 {
		out = append(out, xs[i])
	}
	return out
}

// stepsBetween returns the ascending semitone distance between neighbours.
func stepsBetween(pcs []int) []int {
	if len(pcs) < 2 {
		return []int{}
	}
	out := make([]int, len(pcs)-1)
	for i := 1; i < len(pcs); i++ {
		out[i-1] = harmony.Mod12(pcs[i] - pcs[i-1])
	}
	return out
}

func constantSteps(n, step int) []int {
	if n < 0 {
		n = 0
	}
	out := make([]int, n)
	for i := range out {
		out[i] = step
	}
	return out
}

// Thresholds for SelectTransformation.
const (
	FragmentTrauma    = 0.8
	InvertTrauma      = 0.6
	RetrogradeEntropy = 0.8
	CalmTrauma        = 0.3
	CalmEntropy       = 0.3
	DiminishEntropy   = 0.5
)

// SelectTransformation picks how a speaking actor's motif should sound for
// the current state. Rules in priority order:
//
//	trauma >= 0.8                 fragmented
//	trauma >= 0.6                 inverted
//	entropy >= 0.8                retrograde
//	trauma < 0.3 && entropy < 0.3 original
//	dominant register real        chromatic_descent
//	dominant register imaginary   whole_tone_ascent
//	otherwise                     diminished if entropy >= 0.5, else augmented
//
// An RSI with no signal falls through to the last rule.
func SelectTransformation(trauma, entropy float64, rsi actor.RSI) Kind {
	t, e := actor.Clamp01(trauma), actor.Clamp01(entropy)
	switch {
	case t >= FragmentTrauma:
		return Fragmented
	case t >= InvertTrauma:
		return Inverted
	case e >= RetrogradeEntropy:
		return Retrograde
	case t < CalmTrauma && e < CalmEntropy:
		return Original
	}

	if rsi.Sum() > 0 {
		switch rsi.Dominant() {
		case actor.RegisterReal:
			return ChromaticDescent
		case actor.RegisterImaginary:
			return WholeToneAscent
		}
	}
	if e >= DiminishEntropy {
		return Diminished
	}
	return Augmented
}
