package deploy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEnsureSkeleton verifies the mandatory layout is created with markers.
func TestEnsureSkeleton(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	require.NoError(t, EnsureSkeleton(root))

	for _, dir := range SkeletonDirs() {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		require.True(t, info.IsDir())

		_, err = os.Stat(filepath.Join(root, dir, MarkerFilename))
		require.NoError(t, err)
	}
}

// TestEnsureSkeletonIdempotent verifies re-running never fails and never
// deletes existing data.
func TestEnsureSkeletonIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	require.NoError(t, EnsureSkeleton(root))

	// Simulate data written by a running installation.
	dataFile := filepath.Join(root, "data", "db", "bot.sqlite")
	require.NoError(t, os.WriteFile(dataFile, []byte("state"), 0o644))

	require.NoError(t, EnsureSkeleton(root))

	contents, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	require.Equal(t, "state", string(contents))
}
