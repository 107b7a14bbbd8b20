package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidScenario(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), elsinorePath)
	require.NoError(t, err)
	assert.Contains(t, out, `scenario "elsinore" is valid`)
	assert.Contains(t, out, "2 actors, 3 frames, 6 assertions")
}

func TestValidateValidScenarioJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), elsinorePath)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Actors)
	assert.Empty(t, result.Errors)
}

func TestValidateSchemaErrorHasPosition(t *testing.T) {
	path := writeScenario(t, "bad.yaml", `name: bad
description: "entropy out of range"
actors:
  - id: a
    name: A
frames:
  - name: f
    trauma: 0.5
    entropy: 7
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "entropy")
	assert.Positive(t, result.Errors[0].Line)
}

func TestValidateCrossReferenceError(t *testing.T) {
	path := writeScenario(t, "ghost.yaml", `name: ghost
description: "assertion names an unknown actor"
actors:
  - id: a
    name: A
frames:
  - name: f
    trauma: 0.5
    entropy: 0.5
assertions:
  - type: speaker_active
    frame: 0
    speaker: ghost
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `unknown speaker "ghost"`)
}

func TestValidateMissingFile(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenario not found")
}
