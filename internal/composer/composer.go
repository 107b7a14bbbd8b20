package composer

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/calculus"
	"github.com/roach88/mpn/internal/harmony"
	"github.com/roach88/mpn/internal/leitmotif"
)

// Melody register limits. Keeping melodies inside [24,108] leaves two
// octaves of headroom for counterpoint in either direction.
const (
	MelodyLow  = 24
	MelodyHigh = 108
)

// DefaultDuration is used when a caller passes a non-positive duration.
const DefaultDuration = 4.0

// Melody bounds. Motif durations shorter than MinNoteBeats are lengthened
// to it, and a melody spans at most MaxMelodyBeats.
const (
	MinNoteBeats   = 1.0 / 64
	MaxMelodyBeats = 256.0
)

// minDenseVoices is the smallest voicing of any mode but MINIMALIST_VOID.
const minDenseVoices = 3

// DefaultTemperature is the AI temperature of a new Composer.
const DefaultTemperature = 0.7

const pcgStream = 0x6d706e // fixed PCG stream selector

// Composer generates notes. It is safe for concurrent use.
type Composer struct {
	mu          sync.Mutex
	mode        Mode
	aiEnabled   bool
	temperature float64
	rng         *rand.Rand
}

// Option configures a Composer.
type Option func(*Composer)

// WithSeed seeds the variation source.
func WithSeed(seed uint64) Option {
	return func(c *Composer) { c.rng = rand.New(rand.NewPCG(seed, pcgStream)) }
}

// WithMode sets the initial orchestration mode.
func WithMode(m Mode) Option {
	return func(c *Composer) { c.mode = m }
}

// WithAI sets the initial AI configuration.
func WithAI(enabled bool, temperature float64) Option {
	return func(c *Composer) {
		c.aiEnabled = enabled
		c.temperature = actor.Clamp01(temperature)
	}
}

// New creates a Composer in FULL_ORCHESTRA mode with AI off and seed 1.
func New(opts ...Option) *Composer {
	c := &Composer{
		mode:        FullOrchestra,
		temperature: DefaultTemperature,
		rng:         rand.New(rand.NewPCG(1, pcgStream)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetMode changes the orchestration mode.
func (c *Composer) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
}

// Mode returns the current orchestration mode.
func (c *Composer) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetAIConfig toggles AI variation. Temperature is clamped to [0,1].
func (c *Composer) SetAIConfig(enabled bool, temperature float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aiEnabled = enabled
	c.temperature = actor.Clamp01(temperature)
}

// AIConfig returns the current AI settings.
func (c *Composer) AIConfig() (enabled bool, temperature float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aiEnabled, c.temperature
}

// variationLocked is the multiplier applied to random variation: 1 with AI
// off, 0.5 to 1.5 with AI on depending on temperature.
func (c *Composer) variationLocked() float64 {
	if !c.aiEnabled {
		return 1
	}
	return 0.5 + c.temperature
}

// Fallback rhythms by intensity, used when a motif has no usable rhythm.
var intensityRhythms = []struct {
	above   float64
	pattern []float64
}{
	{0.8, []float64{0.125, 0.125, 0.25, 0.125, 0.125, 0.125, 0.125}},
	{0.6, []float64{0.25, 0.125, 0.125, 0.25, 0.25}},
	{0.4, []float64{0.375, 0.125, 0.25, 0.25}},
	{0.2, []float64{0.25, 0.25, 0.5}},
	{math.Inf(-1), []float64{0.5, 0.5, 1.0}},
}

var defaultPitches = []int{60, 62, 64, 65, 67}

// ComposeMelody realises m over [startBeat, startBeat+durationBeats). The
// motif rhythm is cycled until the span is filled, with the final note cut
// to end exactly at the span's end. Spans longer than MaxMelodyBeats are
// cut to it. Intensity above 0.6 halves every
// duration, and intensity scales octave leaps, passing tones and velocity
// spread. The first note always sounds the motif's first pitch class.
func (c *Composer) ComposeMelody(m leitmotif.Leitmotif, params calculus.MusicalParams, durationBeats, startBeat, intensity float64) []Note {
	durationBeats = min(sanitizeBeats(durationBeats, DefaultDuration), MaxMelodyBeats)
	if math.IsNaN(startBeat) || startBeat < 0 {
		startBeat = 0
	}
	intensity = actor.Clamp01(intensity)

	rhythm := melodyRhythm(m.Rhythm, intensity)
	pitches := motifPitches(m)

	c.mu.Lock()
	defer c.mu.Unlock()
	spread := (0.1 + 0.3*intensity) * c.variationLocked()

	end := startBeat + durationBeats
	var notes []Note
	beat := startBeat
	for i := 0; beat < end; i++ {
		d := rhythm[i%len(rhythm)]
		if beat+d > end {
			d = end - beat
		}
		// Float residue from summing durations, never the first note.
		if d <= 1e-9 && len(notes) > 0 {
			break
		}

		idx := i % len(pitches)
		midi := pitches[idx]
		if intensity > 0.7 && c.rng.Float64() > 0.6 {
			midi += 12
		}
		if intensity < 0.3 && c.rng.Float64() > 0.7 {
			midi -= 12
		}
		if i > 0 && intensity > 0.4 && c.rng.Float64() > 0.7 {
			prev := pitches[(idx-1+len(pitches))%len(pitches)]
			midi = (midi + prev + 1) / 2
		}
		midi = foldInto(midi, MelodyLow, MelodyHigh)

		vel := float64(params.Dynamic) * (1 - spread*c.rng.Float64())
		velocity := max(1, clampVelocity(int(math.Round(vel))))

		notes = append(notes, NewNote(midi, d, beat, velocity, melodyArticulation(intensity, i%len(rhythm), len(rhythm))))
		beat += d
	}
	return notes
}

func melodyRhythm(motif []float64, intensity float64) []float64 {
	var rhythm []float64
	for _, d := range motif {
		if d > 0 && !math.IsInf(d, 0) {
			rhythm = append(rhythm, d)
		}
	}
	if len(rhythm) == 0 {
		for _, r := range intensityRhythms {
			if intensity > r.above {
				rhythm = append(rhythm, r.pattern...)
				break
			}
		}
	}
	for i := range rhythm {
		if intensity > 0.6 {
			rhythm[i] /= 2
		}
		rhythm[i] = max(rhythm[i], MinNoteBeats)
	}
	return rhythm
}

func motifPitches(m leitmotif.Leitmotif) []int {
	if len(m.PitchClasses) == 0 {
		return defaultPitches
	}
	base := (m.BaseOctave + 1) * 12
	out := make([]int, len(m.PitchClasses))
	for i, pc := range m.PitchClasses {
		out[i] = base + harmony.Mod12(pc)
	}
	return out
}

// foldInto moves n by octaves until it lies in [lo,hi]. hi-lo must be at
// least 11.
func foldInto(n, lo, hi int) int {
	for n < lo {
		n += 12
	}
	for n > hi {
		n -= 12
	}
	return n
}

func melodyArticulation(intensity float64, pos, patternLen int) string {
	switch {
	case intensity > 0.7:
		if pos == 0 {
			return calculus.Marcato
		}
		return calculus.Staccato
	case pos == patternLen-1:
		return calculus.Tenuto
	case intensity < 0.3:
		return calculus.Legato
	}
	return "normal"
}

// OrchestrateChord voices root+chordType starting at octave 4 (middle C =
// 60). Denser modes add bass and doubled tones; MINIMALIST_VOID sounds only
// the bass root and the fifth, and every other mode sounds at least three
// notes, texture chords included. An unreadable chord type voices a major
// triad. Every note lasts duration beats from startBeat.
func (c *Composer) OrchestrateChord(root, chordType string, params calculus.MusicalParams, startBeat, duration float64) []Note {
	duration = sanitizeBeats(duration, DefaultDuration)
	if math.IsNaN(startBeat) || startBeat < 0 {
		startBeat = 0
	}
	chord := harmony.ParseChordWithRoot(root, chordType)
	return c.Voice(chord, params, startBeat, duration)
}

// Voice is OrchestrateChord for an already parsed chord.
func (c *Composer) Voice(chord harmony.Chord, params calculus.MusicalParams, startBeat, duration float64) []Note {
	rootMIDI := 60 + chord.Root
	offsets := chord.Offsets()

	mode := c.Mode()
	var midis []int
	switch mode {
	case MinimalistVoid:
		midis = []int{rootMIDI - 12, rootMIDI + 7}
	case JazzNoir:
		midis = stack(rootMIDI, offsets)
		if !containsOffset(offsets, 14) {
			midis = append(midis, rootMIDI+14)
		}
	case Wagnerian:
		midis = append([]int{rootMIDI - 12}, stack(rootMIDI, offsets)...)
		for _, off := range offsets[1:min(3, len(offsets))] {
			midis = append(midis, rootMIDI+off+12)
		}
		midis = append(midis, rootMIDI-24)
	case ChamberDeath:
		midis = append(stack(rootMIDI-12, offsets), rootMIDI-24)
	case CyberGlitch:
		midis = stack(rootMIDI, offsets)
		for _, off := range []int{6, 13} {
			if !containsOffset(offsets, off) {
				midis = append(midis, rootMIDI+off)
			}
		}
	default:
		midis = append([]int{rootMIDI - 12}, stack(rootMIDI, offsets)...)
		midis = append(midis, rootMIDI+12)
	}
	if mode != MinimalistVoid && len(midis) < minDenseVoices {
		midis = append(midis, rootMIDI+12)
	}

	notes := make([]Note, len(midis))
	for i, m := range midis {
		notes[i] = NewNote(m, duration, startBeat, params.Dynamic, params.Articulation)
	}
	return notes
}

func stack(root int, offsets []int) []int {
	out := make([]int, len(offsets))
	for i, off := range offsets {
		out[i] = root + off
	}
	return out
}

func containsOffset(offsets []int, v int) bool {
	for _, o := range offsets {
		if o == v {
			return true
		}
	}
	return false
}

// ComposeCounterpoint shadows melody at intervalOffset semitones. Each
// result note keeps its source's start beat and duration and sits exactly
// intervalOffset away, at 70% of its velocity. A shifted note that would
// leave [0,127] is folded back by octaves; melodies from ComposeMelody never
// need folding for offsets within two octaves.
func (c *Composer) ComposeCounterpoint(melody []Note, params calculus.MusicalParams, intervalOffset int) []Note {
	out := make([]Note, len(melody))
	for i, n := range melody {
		vel := int(math.Round(float64(n.Velocity) * 0.7))
		if n.Velocity > 0 {
			vel = max(1, vel)
		}
		art := n.Articulation
		if art == "" {
			art = params.Articulation
		}
		out[i] = NewNote(n.MIDINote+intervalOffset, n.Duration, n.StartBeat, vel, art)
	}
	return out
}
