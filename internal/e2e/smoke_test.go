package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runNBR(t, binaryPath, home, "version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Equal(t, "dev\n", stdout)

	_, stderr, err = runNBR(t, binaryPath, home, "token", "set", "--ref", "hub/analyst", "--value", "tok-123")
	require.NoError(t, err, "stderr: %s", stderr)

	stored, err := os.ReadFile(filepath.Join(home, ".nbr", "secrets", "hub", "analyst"))
	require.NoError(t, err)
	assert.Equal(t, "tok-123\n", string(stored))

	stdout, stderr, err = runNBR(t, binaryPath, home, "history")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestSmokeFailedRunWritesFailureReport(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	jobDir := t.TempDir()
	require.NoError(t, writeJobInput(jobDir))

	_, _, err := runNBR(t, binaryPath, home, "run", "--job-dir", jobDir)
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())

	data, err := os.ReadFile(filepath.Join(jobDir, "output", "output.json"))
	require.NoError(t, err)

	var report struct {
		Success      bool   `json:"success"`
		ErrorMessage string `json:"errorMessage"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.False(t, report.Success)
	assert.Contains(t, report.ErrorMessage, "input_paths")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "nbr-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/nbr")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build nbr binary: %s", string(output))
	return binaryPath
}

// runNBR clears PATH so the pass backend is unavailable and tokens land in the file store.
func runNBR(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "PATH=")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeJobInput(jobDir string) error {
	inputDir := filepath.Join(jobDir, "input")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		return err
	}

	input := `{
  "data": "8.8.8.8",
  "dataType": "ip",
  "config": {
    "input_hostname": "/srv/notebooks",
    "output_hostname": "/srv/out",
    "output_folder": "/reports/"
  },
  "parameters": {"organisation": "acme", "user": "bob"}
}`

	return os.WriteFile(filepath.Join(inputDir, "input.json"), []byte(input), 0o644)
}
