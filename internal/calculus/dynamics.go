package calculus

import (
	"math"

	"github.com/roach88/mpn/internal/actor"
)

// Dynamics is a dynamic marking and its MIDI velocity.
type Dynamics struct {
	Label    string `json:"label"`
	Velocity int    `json:"velocity"`
}

// dynamicBuckets are upper bounds (exclusive) on trauma, softest first.
var dynamicBuckets = []struct {
	below    float64
	label    string
	velocity int
}{
	{0.15, "pp", 30},
	{0.30, "p", 45},
	{0.45, "mp", 60},
	{0.60, "mf", 72},
	{0.75, "f", 88},
	{0.90, "ff", 104},
	{math.Inf(1), "fff", 118},
}

// DynamicLabels lists the seven markings from softest to loudest.
var DynamicLabels = []string{"pp", "p", "mp", "mf", "f", "ff", "fff"}

// MIDI velocity limits every dynamics mapping stays within.
const (
	MinVelocity = 0
	MaxVelocity = 127
)

// TraumaToDynamics buckets trauma into one of seven markings. Without
// adjustments the mapping is monotonically non-decreasing in trauma.
func TraumaToDynamics(trauma float64, opts ...MapOption) Dynamics {
	cfg := newMapConfig(opts)
	t := actor.Clamp01(trauma)
	b := dynamicBuckets[len(dynamicBuckets)-1]
	for _, bucket := range dynamicBuckets {
		if t < bucket.below {
			b = bucket
			break
		}
	}
	return Dynamics{Label: b.label, Velocity: cfg.velocity(b.label, b.velocity)}
}

// Rhythm is a tempo in BPM and a meter such as "5/4".
type Rhythm struct {
	Tempo         int    `json:"tempo"`
	TimeSignature string `json:"time_signature"`
}

// Tempo limits every rhythm mapping stays within.
const (
	MinTempo = 30
	MaxTempo = 200
)

type tempoBand struct {
	name       string
	maxEntropy float64
	min, max   float64
}

// Stability bands, calmest first.
var tempoBands = []tempoBand{
	{"strategic", 0.4, 40, 60},
	{"operational", 0.7, 80, 100},
	{"crisis", math.Inf(1), 120, 180},
}

var meters = []struct {
	below float64
	sig   string
}{
	{0.3, "4/4"},
	{0.5, "3/4"},
	{0.65, "6/8"},
	{0.8, "5/4"},
	{math.Inf(1), "7/8"},
}

// EntropyToRhythm picks a stability band from entropy and interpolates the
// tempo inside it, so tempo never decreases as entropy rises. Higher entropy
// also moves the meter toward irregular groupings. Adjusted bands may
// overlap, which gives up monotonicity but never the tempo limits.
func EntropyToRhythm(entropy float64, opts ...MapOption) Rhythm {
	cfg := newMapConfig(opts)
	e := actor.Clamp01(entropy)
	band := tempoBands[len(tempoBands)-1]
	for _, b := range tempoBands {
		if e <= b.maxEntropy {
			band = b
			break
		}
	}
	band = cfg.band(band)
	tempo := int(math.Round(band.min + e*(band.max-band.min)))
	tempo = max(MinTempo, min(MaxTempo, tempo))

	sig := meters[len(meters)-1].sig
	for _, m := range meters {
		if e < m.below {
			sig = m.sig
			break
		}
	}
	return Rhythm{Tempo: tempo, TimeSignature: sig}
}

// Articulation values.
const (
	Legato    = "legato"
	Staccato  = "staccato"
	Marcato   = "marcato"
	Tenuto    = "tenuto"
	Sforzando = "sforzando"
)

var biasArticulations = map[string]string{
	"confirmation_bias": Staccato,
	"anchoring":         Tenuto,
	"bandwagon":         Legato,
}

// ArticulationFor chooses an articulation. Trauma accents win, then the
// first bias with a known articulation, then entropy, then legato.
func ArticulationFor(trauma, entropy float64, biases []string) string {
	switch {
	case trauma > 0.7:
		return Sforzando
	case trauma > 0.5:
		return Marcato
	}
	for _, b := range biases {
		if a, ok := biasArticulations[biasKey(b)]; ok {
			return a
		}
	}
	if entropy > 0.7 {
		return Staccato
	}
	return Legato
}
