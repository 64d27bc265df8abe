package localinstall

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soverxos/swiftdevbot-deploy/internal/config"
	"github.com/soverxos/swiftdevbot-deploy/internal/deploy"
)

// fakeRunner records executed commands instead of touching the host.
type fakeRunner struct {
	commands []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.commands = append(f.commands, strings.Join(append([]string{name}, args...), " "))
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return "", f.Run(ctx, name, args...)
}

// newFixtureArchive packs a minimal release archive with a config template
// and an operator script.
func newFixtureArchive(t *testing.T) string {
	t.Helper()

	staging := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(staging, deploy.ScriptsDirName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, deploy.EntryScript), []byte("entry"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(staging, deploy.ConfigExampleFilename), []byte("bot_token: CHANGE_ME\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(staging, deploy.ScriptsDirName, "backup.sh"), []byte("#!/bin/sh\n"), 0o644))

	archivePath := filepath.Join(t.TempDir(), "swiftdevbot_2.3.1.tar.gz")
	require.NoError(t, deploy.WriteArchive(staging, archivePath))

	return archivePath
}

// TestRunRequiresArchiveArgument verifies the usage precondition aborts
// before any filesystem mutation.
func TestRunRequiresArchiveArgument(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{ArchivePath: "  "})
	require.ErrorIs(t, err, errArchiveRequired)
}

// TestInstall verifies extraction, config synthesis, skeleton, script bits
// and the permission profile on a fresh destination.
func TestInstall(t *testing.T) {
	t.Parallel()

	archivePath := newFixtureArchive(t)
	dest := t.TempDir()

	opts := &Options{ArchivePath: archivePath, DestDir: dest}

	require.NoError(t, run(context.Background(), config.Default(), opts, &fakeRunner{}))

	// Payload extracted flat.
	_, err := os.Stat(filepath.Join(dest, deploy.EntryScript))
	require.NoError(t, err)

	// Configuration synthesized from the bundled template and locked down.
	info, err := os.Stat(filepath.Join(dest, deploy.ConfigFilename))
	require.NoError(t, err)
	require.Equal(t, deploy.ConfigMode, info.Mode().Perm())

	// Skeleton present.
	_, err = os.Stat(filepath.Join(dest, "data", "db", deploy.MarkerFilename))
	require.NoError(t, err)

	// Operator script marked executable.
	info, err = os.Stat(filepath.Join(dest, deploy.ScriptsDirName, "backup.sh"))
	require.NoError(t, err)
	require.Equal(t, deploy.TreeMode, info.Mode().Perm())
}

// TestInstallPreservesEditedConfig verifies a second install never overwrites
// an operator-edited configuration.
func TestInstallPreservesEditedConfig(t *testing.T) {
	t.Parallel()

	archivePath := newFixtureArchive(t)
	dest := t.TempDir()
	opts := &Options{ArchivePath: archivePath, DestDir: dest}

	require.NoError(t, run(context.Background(), config.Default(), opts, &fakeRunner{}))

	// Operator fills in the real token.
	configPath := filepath.Join(dest, deploy.ConfigFilename)
	require.NoError(t, os.WriteFile(configPath, []byte("bot_token: real-secret\n"), 0o600))

	require.NoError(t, run(context.Background(), config.Default(), opts, &fakeRunner{}))

	contents, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, "bot_token: real-secret\n", string(contents))
}

// TestInstallProvisionsRuntime verifies the runtime hard gate commands are
// issued against the destination tree.
func TestInstallProvisionsRuntime(t *testing.T) {
	t.Parallel()

	archivePath := newFixtureArchive(t)
	dest := t.TempDir()
	runner := &fakeRunner{}

	opts := &Options{ArchivePath: archivePath, DestDir: dest}

	require.NoError(t, run(context.Background(), config.Default(), opts, runner))
	require.Len(t, runner.commands, 1)
	require.Contains(t, runner.commands[0], "-m venv")
	require.Contains(t, runner.commands[0], dest)
}
