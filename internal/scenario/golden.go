package scenario

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the part of a run that golden files pin down: everything
// except the seeded melodic detail.
type Snapshot struct {
	Scenario string          `json:"scenario"`
	Mode     string          `json:"mode"`
	Frames   []FrameSnapshot `json:"frames"`
	Motifs   []MotifSnapshot `json:"motifs"`
}

// FrameSnapshot summarises one frame.
type FrameSnapshot struct {
	Index          int64              `json:"index"`
	Name           string             `json:"name"`
	Speaker        string             `json:"speaker"`
	Transformation string             `json:"transformation"`
	Key            string             `json:"key"`
	Tempo          int                `json:"tempo"`
	TimeSignature  string             `json:"time_signature"`
	Dynamics       string             `json:"dynamics"`
	Level          string             `json:"level"`
	Chord          string             `json:"chord"`
	RomanNumeral   string             `json:"roman_numeral"`
	Function       string             `json:"function"`
	Tension        float64            `json:"tension"`
	Activation     map[string]float64 `json:"activation"`
}

// MotifSnapshot summarises an actor's leitmotif at the end of a run.
type MotifSnapshot struct {
	ActorID        string `json:"actor_id"`
	Key            string `json:"key"`
	PitchClasses   []int  `json:"pitch_classes"`
	Transformation string `json:"transformation"`
}

// Snap builds the snapshot of a finished run.
func Snap(s *Scenario, r *Result) Snapshot {
	snap := Snapshot{
		Scenario: s.Name,
		Mode:     s.Mode,
		Frames:   make([]FrameSnapshot, len(r.Outputs)),
		Motifs:   make([]MotifSnapshot, len(r.Motifs)),
	}
	if snap.Mode == "" {
		snap.Mode = "FULL_ORCHESTRA"
	}
	for i, out := range r.Outputs {
		act := make(map[string]float64, len(out.Staves))
		for _, st := range out.Staves {
			act[st.ActorID] = st.Activation
		}
		snap.Frames[i] = FrameSnapshot{
			Index:          out.FrameIndex,
			Name:           s.Frames[i].Name,
			Speaker:        out.Speaker,
			Transformation: string(out.Transformation),
			Key:            out.Global.Key,
			Tempo:          out.Global.Tempo,
			TimeSignature:  out.Global.TimeSignature,
			Dynamics:       out.Global.Dynamics,
			Level:          string(out.Global.Level),
			Chord:          out.Harmony.Chord,
			RomanNumeral:   out.Harmony.RomanNumeral,
			Function:       out.Harmony.Function,
			Tension:        math.Round(out.Harmony.Tension*1000) / 1000,
			Activation:     act,
		}
	}
	for i, e := range r.Motifs {
		snap.Motifs[i] = MotifSnapshot{
			ActorID:        e.Base.ActorID,
			Key:            e.Base.Key,
			PitchClasses:   e.Base.PitchClasses,
			Transformation: string(e.Current.CurrentTransformation),
		}
	}
	return snap
}

// MarshalSnapshot renders a snapshot as indented JSON with a trailing
// newline.
func MarshalSnapshot(snap Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs s and compares its snapshot against
// testdata/golden/{s.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func RunWithGolden(t *testing.T, s *Scenario, opts ...RunOption) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), s, opts...)
	if err != nil {
		return nil, err
	}
	data, err := MarshalSnapshot(Snap(s, result))
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, data)
	return result, nil
}
