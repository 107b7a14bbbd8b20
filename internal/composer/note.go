package composer

import (
	"math"

	"github.com/roach88/mpn/internal/harmony"
)

// Note is one sounding event. StartBeat and Duration are in beats.
type Note struct {
	Pitch        string  `json:"pitch"`
	MIDINote     int     `json:"midi_note"`
	Duration     float64 `json:"duration"`
	StartBeat    float64 `json:"start_beat"`
	Velocity     int     `json:"velocity"`
	Articulation string  `json:"articulation,omitempty"`
}

// NewNote builds a note, folding midi into [0,127] by octaves and clamping
// velocity to [0,127].
func NewNote(midi int, duration, start float64, velocity int, articulation string) Note {
	midi = harmony.ClampMIDI(midi)
	return Note{
		Pitch:        harmony.MIDIToName(midi),
		MIDINote:     midi,
		Duration:     duration,
		StartBeat:    start,
		Velocity:     clampVelocity(velocity),
		Articulation: articulation,
	}
}

func clampVelocity(v int) int {
	return max(0, min(127, v))
}

// End returns StartBeat + Duration.
func (n Note) End() float64 {
	return n.StartBeat + n.Duration
}

// sanitizeBeats replaces non-positive or non-finite durations with def.
func sanitizeBeats(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return def
	}
	return v
}
