package e2e

import (
	"bytes"
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

	stdout, stderr, err := runNexus(t, binaryPath, home, "config", "init")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "wrote")

	stdout, stderr, err = runNexus(t, binaryPath, home, "config", "path")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, filepath.Join(".nexus", "nexus.toml"))

	stdout, stderr, err = runNexus(t, binaryPath, home, "models")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "gpt-4o")
	assert.Contains(t, stdout, "gpt-4o-mini")
	assert.Contains(t, stdout, "o3-mini")

	stdout, stderr, err = runNexus(t, binaryPath, home, "report")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "No metrics recorded yet")

	stdout, stderr, err = runNexus(t, binaryPath, home, "version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.NotEmpty(t, stdout)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "nexus-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/nexus")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build nexus binary: %s", string(output))
	return binaryPath
}

func runNexus(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

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
