package score

import (
	"github.com/roach88/mpn/internal/actor"
	"github.com/roach88/mpn/internal/calculus"
	"github.com/roach88/mpn/internal/composer"
	"github.com/roach88/mpn/internal/leitmotif"
)

// FrameDurationMS is the wall-clock length of one frame at playback.
const FrameDurationMS = 4000

// FrameBeats is the number of beats composed per frame.
const FrameBeats = 4

// Frame is one script line.
type Frame struct {
	Speaker  string `json:"speaker" yaml:"speaker"`
	Text     string `json:"text" yaml:"text"`
	Chord    string `json:"chord,omitempty" yaml:"chord"`
	Analysis string `json:"analysis,omitempty" yaml:"analysis"`
}

// Stave is one actor's line in a frame.
type Stave struct {
	ActorID    string                 `json:"actor_id"`
	ActorName  string                 `json:"actor_name"`
	Instrument string                 `json:"instrument"`
	Leitmotif  leitmotif.Leitmotif    `json:"leitmotif"`
	Params     calculus.MusicalParams `json:"params"`
	IsSpeaking bool                   `json:"is_speaking"`
	Activation float64                `json:"activation"`
	Notes      []composer.Note        `json:"notes"`
}

// Harmony is the frame's vertical sonority.
type Harmony struct {
	Chord        string          `json:"chord"`
	Root         string          `json:"root"`
	Type         string          `json:"type"`
	RomanNumeral string          `json:"roman_numeral"`
	Function     string          `json:"function"`
	Tension      float64         `json:"tension"`
	Notes        []composer.Note `json:"notes"`
}

// Global holds the frame-wide musical settings.
type Global struct {
	Tempo         int                   `json:"tempo"`
	TimeSignature string                `json:"time_signature"`
	Key           string                `json:"key"`
	Mode          string                `json:"mode"`
	Dynamics      string                `json:"dynamics"`
	Velocity      int                   `json:"velocity"`
	Articulation  string                `json:"articulation"`
	Level         composer.Level        `json:"level"`
	Orchestration composer.Mode         `json:"orchestration"`
	Libido        float64               `json:"libido"`
	Emotion       calculus.EmotionStyle `json:"emotion"`
}

// Node types.
const (
	NodeActor   = "actor"
	NodeConcept = "concept"
)

// Edge types.
const (
	EdgeSpeech    = "speech"
	EdgeReference = "reference"
)

// Node is a vertex of the relationship graph.
type Node struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Activation float64 `json:"activation"`
	Type       string  `json:"type"`
}

// Edge is a weighted, directed relation between two nodes.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// Graph relates the actors to each other and to the three registers.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Output is the snapshot of one processed frame.
type Output struct {
	FrameIndex     int64          `json:"frame_index"`
	TimestampMS    int64          `json:"timestamp_ms"`
	Speaker        string         `json:"speaker,omitempty"` // resolved actor ID, empty if nobody spoke
	Transformation leitmotif.Kind `json:"transformation,omitempty"`
	RSI            actor.RSI      `json:"rsi"`
	Global         Global         `json:"global"`
	Staves         []Stave        `json:"staves"`
	Harmony        Harmony        `json:"harmony"`
	Graph          Graph          `json:"graph"`
}

// Stave returns the stave for actorID.
func (o Output) Stave(actorID string) (Stave, bool) {
	for _, s := range o.Staves {
		if s.ActorID == actorID {
			return s, true
		}
	}
	return Stave{}, false
}
