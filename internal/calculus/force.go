package calculus

import (
	"strings"

	"github.com/roach88/mpn/internal/actor"
)

// Force summarises a script line as a point in register space. X follows
// tension toward the Real, Y the pull between Symbolic and Real, Z the
// Imaginary, the latter two scaled by libido.
type Force struct {
	Tension    float64    `json:"tension"`
	Libido     float64    `json:"libido"`
	Attractors actor.RSI  `json:"attractors"`
	Vector     [3]float64 `json:"vector"`
}

// ScriptForce reads a chord marking and an analysis text. Libido comes from
// the dynamic markings embedded in the chord ("ff", "pp", "Tutti", "Swell").
// A line with no chord and no analysis yields a calm symbolic default.
func ScriptForce(chord, analysis string) Force {
	if strings.TrimSpace(chord) == "" && strings.TrimSpace(analysis) == "" {
		return Force{Tension: 0.1, Libido: 0.1, Attractors: actor.RSI{Symbolic: 0.5}}
	}

	tension := ChordToTension(chord)
	rsi := AnalyzeRSI(analysis)

	libido := 0.3
	switch {
	case strings.Contains(chord, "Silence"):
		libido = 0
	case strings.Contains(chord, "Tutti"):
		libido = 1
	case strings.Contains(chord, "pp"):
		libido = 0.1
	case strings.Contains(chord, "ff"):
		libido = 0.9
	}
	if strings.Contains(chord, "Swell") || strings.Contains(chord, "Rise") {
		libido += 0.2
	}
	libido = actor.Clamp01(libido)

	return Force{
		Tension:    tension,
		Libido:     libido,
		Attractors: rsi,
		Vector: [3]float64{
			tension * (rsi.Real - rsi.Imaginary),
			(rsi.Symbolic - rsi.Real) * libido,
			rsi.Imaginary * libido,
		},
	}
}
