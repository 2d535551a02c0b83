package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynrae/zalopatch/internal/config"
	"github.com/fynrae/zalopatch/internal/report"
)

func stubTerminal(t *testing.T, interactive bool) {
	t.Helper()
	prev := isTerminal
	isTerminal = func() bool { return interactive }
	t.Cleanup(func() { isTerminal = prev })
}

// runCLI executes the root command with args, returning combined stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(append([]string{"zalopatch"}, args...), &stdout, &stderr)
	return stdout.String() + stderr.String(), err
}

// writeInstall lays down a base dir holding one packed version folder.
func writeInstall(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	resources := filepath.Join(base, "Zalo-1.4.2", "resources")
	require.NoError(t, os.MkdirAll(resources, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(resources, "app.asar"),
		[]byte("<html><body></body></html>"), 0o644))
	return base
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestResolveConfigFileAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zalopatch.toml")
	require.NoError(t, os.WriteFile(path, []byte("marker = \"</app>\"\nbase_dir = \"/from-file\"\n"), 0o644))

	cfg, err := resolveConfig(path, "/from-flag")
	require.NoError(t, err)
	assert.Equal(t, "</app>", cfg.Marker)
	// The flag wins over the file.
	assert.Equal(t, "/from-flag", cfg.BaseDir)
}

func TestResolveConfigMissingFile(t *testing.T) {
	_, err := resolveConfig(filepath.Join(t.TempDir(), "absent.toml"), "")
	require.Error(t, err)
}

func TestRootRejectsUnknownStrategy(t *testing.T) {
	stubTerminal(t, false)
	_, err := runCLI(t, "--yes", "--strategy", "teleport", "--base-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestRootFailureMapsToSilentExit(t *testing.T) {
	stubTerminal(t, false)
	out, err := runCLI(t, "--yes", "--base-dir", t.TempDir())
	require.Error(t, err)

	var silent *SilentExitError
	require.ErrorAs(t, err, &silent)
	assert.Equal(t, 1, silent.Code)
	// The failure was reported through the reporter before the silent exit.
	assert.Contains(t, out, "[!]")
}

func TestRootDryRunOnPackedInstall(t *testing.T) {
	stubTerminal(t, false)
	base := writeInstall(t)

	out, err := runCLI(t, "--dry-run", "--base-dir", base)
	require.NoError(t, err)
	assert.Contains(t, out, "1.4.2")

	// Dry run leaves the archive file in place.
	data, readErr := os.ReadFile(filepath.Join(base, "Zalo-1.4.2", "resources", "app.asar"))
	require.NoError(t, readErr)
	assert.Equal(t, "<html><body></body></html>", string(data))
}

func TestStatusCommand(t *testing.T) {
	base := writeInstall(t)
	out, err := runCLI(t, "status", "--base-dir", base)
	require.NoError(t, err)
	assert.Contains(t, out, "1.4.2")
	assert.Contains(t, out, "packed")
}

func TestRestoreCommandWithoutBackup(t *testing.T) {
	base := writeInstall(t)
	_, err := runCLI(t, "restore", "--base-dir", base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backup")
}

func TestConfirmClosedNonInteractiveProceeds(t *testing.T) {
	stubTerminal(t, false)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, confirmClosed(cmd, report.New(&out)))
	// The notice prints even when no prompt is shown.
	assert.NotEmpty(t, out.String())
}

func TestConfirmClosedAcceptsYes(t *testing.T) {
	stubTerminal(t, true)
	for _, answer := range []string{"y\n", "yes\n", "YES\n", " y \n"} {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetIn(strings.NewReader(answer))
		assert.NoError(t, confirmClosed(cmd, report.New(&out)), "answer %q", answer)
	}
}

func TestConfirmClosedDeclines(t *testing.T) {
	stubTerminal(t, true)
	for _, answer := range []string{"n\n", "\n", ""} {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetIn(strings.NewReader(answer))
		assert.Error(t, confirmClosed(cmd, report.New(&out)), "answer %q", answer)
	}
}
