package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const elsinorePath = "../scenario/testdata/scenarios/elsinore.yaml"

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeData unmarshals the data field of a JSON response into v and
// returns the envelope.
func decodeData(t *testing.T, out string, v any) Response {
	t.Helper()
	var envelope struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope), "output: %s", out)
	if v != nil {
		require.NotEmpty(t, envelope.Data, "response has no data: %s", out)
		require.NoError(t, json.Unmarshal(envelope.Data, v))
	}
	return envelope.Response
}

// writeScenario writes a scenario document into a fresh temp directory.
func writeScenario(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const quartetScenario = `name: quartet
description: "Two actors trade lines"
seed: 3
actors:
  - id: ophelia
    name: Ophelia
    disc: { D: 0.1, I: 0.4, S: 0.9, C: 0.3 }
  - id: polonius
    name: Polonius
    disc: { D: 0.5, I: 0.8, S: 0.3, C: 0.4 }
frames:
  - name: garden
    trauma: 0.1
    entropy: 0.2
    script:
      speaker: ophelia
      text: "there's rosemary, that's for remembrance"
  - name: arras
    trauma: 0.7
    entropy: 0.6
    script:
      speaker: polonius
      text: "the king, the law and the crown"
assertions:
  - type: frame_count
    count: 2
`

const failingScenario = `name: mismatch
description: "Asserts the wrong speaker"
actors:
  - id: ophelia
    name: Ophelia
  - id: polonius
    name: Polonius
frames:
  - name: garden
    trauma: 0.1
    entropy: 0.2
    script:
      speaker: ophelia
assertions:
  - type: speaker_active
    frame: 0
    speaker: polonius
`
