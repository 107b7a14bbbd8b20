package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
name: minimal
description: "One actor, one line"
actors:
  - id: ophelia
    name: Ophelia
    disc: { D: 0.1, I: 0.4, S: 0.9, C: 0.3 }
frames:
  - name: flowers
    trauma: 0.3
    entropy: 0.2
    script:
      speaker: Ophelia
      text: "there's rosemary, that's for remembrance"
assertions:
  - type: speaker_active
    speaker: ophelia
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	s, err := Load(writeScenario(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Actors, 1)
	assert.Equal(t, 0.9, s.Actors[0].DISC.S)
	require.Len(t, s.Frames, 1)
	require.NotNil(t, s.Frames[0].Script)
	assert.Equal(t, "Ophelia", s.Frames[0].Script.Speaker)
	require.Len(t, s.Assertions, 1)
	assert.Equal(t, AssertSpeakerActive, s.Assertions[0].Type)
}

func TestLoad_Elsinore(t *testing.T) {
	s, err := Load("testdata/scenarios/elsinore.yaml")
	require.NoError(t, err)
	assert.Len(t, s.Actors, 2)
	assert.Len(t, s.Frames, 3)
	assert.Len(t, s.Assertions, 6)
	assert.Equal(t, "real", s.Frames[0].FocusLayer)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"trauma out of range", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 1.5, entropy: 0}]
`},
		{"disc out of range", `
name: x
description: x
actors: [{id: a, name: A, disc: {D: 2}}]
frames: [{name: f, trauma: 0, entropy: 0}]
`},
		{"unknown field", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
assertion: []
`},
		{"unknown mode", `
name: x
description: x
mode: OPERETTA
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
`},
		{"no actors", `
name: x
description: x
actors: []
frames: [{name: f, trauma: 0, entropy: 0}]
`},
		{"missing description", `
name: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
`},
		{"unknown assertion type", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
assertions: [{type: vibes}]
`},
		{"unknown focus layer", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0, focus_layer: astral}]
`},
		{"adjustment outside tempo and dynamics", `
name: x
description: x
adjustments: {timbre.vibrato: {tempo: 90}}
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
`},
		{"adjustment with unknown field", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0, adjustments: {tempo.crisis: {bpm: 90}}}]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "test.yaml")
			require.Error(t, err)
			var se *SchemaError
			assert.True(t, errors.As(err, &se), "want schema error, got %v", err)
		})
	}
}

func TestParse_SemanticViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"duplicate actor", `
name: x
description: x
actors: [{id: a, name: A}, {id: a, name: B}]
frames: [{name: f, trauma: 0, entropy: 0}]
`, "duplicate id"},
		{"unknown speaker", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
assertions: [{type: speaker_active, frame: 0, speaker: b}]
`, "unknown speaker"},
		{"frame out of range", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
assertions: [{type: dynamics, frame: 3, dynamics: pp}]
`, "out of range"},
		{"unknown transformation", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
assertions: [{type: transformation, frame: 0, transformation: sideways}]
`, "unknown transformation"},
		{"tension against itself", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}, {name: g, trauma: 1, entropy: 1}]
assertions: [{type: tension_rises, from: 1, to: 1}]
`, "from and to must differ"},
		{"unknown tempo band", `
name: x
description: x
adjustments: {tempo.adagio: {tempo: 50}}
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}]
`, `"tempo.adagio": unknown entry`},
		{"velocity on a tempo band", `
name: x
description: x
actors: [{id: a, name: A}]
frames: [{name: f, trauma: 0, entropy: 0}, {name: g, trauma: 0, entropy: 0, adjustments: {tempo.crisis: {dynamics: 90}}}]
`, "frames[1]: adjustment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "test.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_Adjustments(t *testing.T) {
	s, err := Parse([]byte(`
name: adjusted
description: "Slower crisis, softer climax"
adjustments:
  tempo.crisis: { tempo: 130 }
actors: [{id: a, name: A}]
frames:
  - name: f
    trauma: 0.9
    entropy: 0.9
    adjustments:
      dynamics.fff: { dynamics: 100, velocity_offset: -5 }
`), "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, 130, s.Adjustments["tempo.crisis"].Tempo)
	assert.Equal(t, -5, s.Frames[0].Adjustments["dynamics.fff"].VelocityOffset)
}

func TestSchemaError_Error(t *testing.T) {
	err := &SchemaError{Message: "conflicting values"}
	assert.Equal(t, "schema: conflicting values", err.Error())
}
