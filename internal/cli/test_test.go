package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTest_GoldenLifecycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dawn.yaml", dawn)
	writeFile(t, dir, "joke.yaml", joke)

	out, err := execute(NewTestCommand(&RootOptions{Format: "text"}), "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ dawn (golden updated)")
	assert.Contains(t, out, "✓ joke (golden updated)")
	assert.FileExists(t, filepath.Join(dir, "golden", "dawn.golden"))

	out, err = execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Results: 2 passed, 0 failed, 2 total")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "joke.golden"), []byte("{}"), 0o644))
	out, err = execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ joke")
	assert.Contains(t, out, "trace does not match golden file")
	assert.Contains(t, out, "Results: 1 passed, 1 failed, 2 total")
}

func TestTest_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dawn.yaml", dawn)
	writeFile(t, dir, "joke.yaml", joke)

	out, err := execute(NewTestCommand(&RootOptions{Format: "json"}), "--filter", "da*", dir)
	require.NoError(t, err)

	_, data := decodeData(t, out)
	assert.Equal(t, 1.0, data["total"])
	scenarios := data["scenarios"].([]any)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "dawn", scenarios[0].(map[string]any)["name"])
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dawn.yaml", dawn)
	writeFile(t, dir, "broken.yaml", "name: broken\n")

	out, err := execute(NewTestCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, data := decodeData(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, CodeFailed, resp.Error.Code)
	assert.Equal(t, 1.0, data["passed"])
	assert.Equal(t, 1.0, data["failed"])
}

func TestTest_NoScenarios(t *testing.T) {
	out, err := execute(NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTest_MissingDirectory(t *testing.T) {
	_, err := execute(NewTestCommand(&RootOptions{Format: "text"}), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFindScenarioFiles_SkipsGolden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", dawn)
	writeFile(t, dir, "nested/b.yml", dawn)
	writeFile(t, dir, "golden/c.yaml", dawn)
	writeFile(t, dir, "notes.txt", "not a scenario")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "nested", "b.yml"),
	}, files)
}

func TestFindScenarioFiles_BadPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", dawn)

	_, err := findScenarioFiles(dir, "[")
	assert.ErrorContains(t, err, "invalid filter pattern")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("scenarios", "golden", "dawn.golden"), goldenFilePath(filepath.Join("scenarios", "dawn.yaml")))
}
