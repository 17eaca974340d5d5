package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: cascade
objects:
  - id: pool
    destructors: [close-pool]
  - id: conn
    destructors: [close-conn]
edges:
  - parent: pool
    child: conn
steps:
  - destroy: pool
  - flush: true
assertions:
  - type: teardown_order
    destructors: [close-pool, close-conn]
  - type: no_leaks
`

const failingScenario = `
name: wrong-order
objects:
  - id: a
    destructors: [d1, d2]
steps:
  - destroy: a
  - flush: true
assertions:
  - type: teardown_order
    destructors: [d2, d1]
`

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand_InvalidFormatRejected(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRunCommand_PassingScenario(t *testing.T) {
	dir := t.TempDir()
	scenario := writeFile(t, dir, "cascade.yaml", passingScenario)
	db := filepath.Join(dir, "trace.db")

	out, err := execute(t, "run", "--db", db, scenario)

	require.NoError(t, err)
	assert.Contains(t, out, "PASS cascade")
	assert.Contains(t, out, "teardown order: close-pool, close-conn")

	// The trace was persisted; the trace command can replay it.
	traceOut, err := execute(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, traceOut, "destroyed")
	assert.Contains(t, traceOut, "teardown complete")
}

func TestRunCommand_FailingScenarioExitsOne(t *testing.T) {
	dir := t.TempDir()
	scenario := writeFile(t, dir, "wrong.yaml", failingScenario)

	out, err := execute(t, "run", "--db", filepath.Join(dir, "trace.db"), scenario)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL wrong-order")
}

func TestRunCommand_MissingScenarioExitsTwo(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "run", "--db", filepath.Join(dir, "trace.db"),
		filepath.Join(dir, "nope.yaml"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_MixedSuite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_pass.yaml", passingScenario)
	writeFile(t, dir, "b_fail.yaml", failingScenario)
	writeFile(t, dir, "notes.txt", "not a scenario")

	out, err := execute(t, "test", dir)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "PASS cascade")
	assert.Contains(t, out, "FAIL wrong-order")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommand_FilterSelectsSubset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_pass.yaml", passingScenario)
	writeFile(t, dir, "b_fail.yaml", failingScenario)

	out, err := execute(t, "test", dir, "--filter", "a_*.yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_EmptyDirExitsTwo(t *testing.T) {
	_, err := execute(t, "test", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand_ValidAndInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", passingScenario)

	out, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 1 scenario file(s) valid")

	writeFile(t, dir, "bad.yaml", "name: Bad Name\nobjects: []\nsteps: []\n")
	out, err = execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "INVALID")
}

func TestTraceCommand_ObjectFilter(t *testing.T) {
	dir := t.TempDir()
	scenario := writeFile(t, dir, "cascade.yaml", passingScenario)
	db := filepath.Join(dir, "trace.db")

	_, err := execute(t, "run", "--db", db, scenario)
	require.NoError(t, err)

	out, err := execute(t, "trace", "--db", db, "--object", "conn")
	require.NoError(t, err)
	assert.Contains(t, out, "conn")
	assert.NotContains(t, out, "associated")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "x")
	writeFile(t, dir, "a.yml", "x")
	writeFile(t, dir, "ignore.json", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
	}, files)

	filtered, err := findScenarioFiles(dir, "b.*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, filtered)

	_, err = findScenarioFiles(dir, "[bad")
	require.Error(t, err)
}
