package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioTree lays out <root>/scenarios/*.yaml and returns the scenarios dir.
func scenarioTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	dir := scenarioTree(t, nil)
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandCheckedInGolden(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), filepath.Dir(elsinorePath))
	require.NoError(t, err)

	var result TestResult
	decodeData(t, out, &result)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, "elsinore", result.Scenarios[0].Name)
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	dir := scenarioTree(t, map[string]string{"quartet.yaml": quartetScenario})
	golden := filepath.Join(filepath.Dir(dir), "golden", "quartet.golden")

	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "--update", dir)
	require.NoError(t, err)
	require.FileExists(t, golden)

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ quartet")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")

	require.NoError(t, os.WriteFile(golden, []byte("{}\n"), 0644))
	out, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandFailuresAndFilter(t *testing.T) {
	dir := scenarioTree(t, map[string]string{
		"quartet.yaml":  quartetScenario,
		"mismatch.yaml": failingScenario,
		"notes.txt":     "not a scenario",
	})

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Failed)

	out, err = execute(t, NewTestCommand(&RootOptions{Format: "json"}), "--filter", "quar*", dir)
	require.NoError(t, err)
	decodeData(t, out, &result)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Passed)
}

func TestTestCommandBadFilter(t *testing.T) {
	dir := scenarioTree(t, map[string]string{"quartet.yaml": quartetScenario})
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "--filter", "[", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("testdata", "golden", "elsinore.golden"),
		goldenFilePath(filepath.Join("testdata", "scenarios", "elsinore.yaml"), "elsinore"))
}
