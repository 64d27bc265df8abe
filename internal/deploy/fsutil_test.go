package deploy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCopyTree verifies recursive copies preserve structure and modes.
func TestCopyTree(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "core", "handlers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "core", "handlers", "start.py"), []byte("handler"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "run.sh"), []byte("#!/bin/sh\n"), 0o755))

	require.NoError(t, CopyTree(src, dst))

	contents, err := os.ReadFile(filepath.Join(dst, "core", "handlers", "start.py"))
	require.NoError(t, err)
	require.Equal(t, "handler", string(contents))

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

// TestCopyTreeSingleFile verifies a manifest entry that is a plain file copies.
func TestCopyTreeSingleFile(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "main.py")
	dst := filepath.Join(t.TempDir(), "staged", "main.py")

	require.NoError(t, os.WriteFile(src, []byte("print('hi')\n"), 0o644))
	require.NoError(t, CopyTree(src, dst))

	contents, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "print('hi')\n", string(contents))
}

// TestCopyTreeRejectsOverlap verifies a copy onto itself or into a nested
// path is refused before anything is truncated.
func TestCopyTreeRejectsOverlap(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	entry := filepath.Join(src, "main.py")
	require.NoError(t, os.WriteFile(entry, []byte("entry"), 0o644))

	require.ErrorIs(t, CopyTree(src, src), errOverlappingTrees)
	require.ErrorIs(t, CopyTree(src, filepath.Join(src, "nested")), errOverlappingTrees)
	require.ErrorIs(t, CopyTree(filepath.Join(src, "nested"), src), errOverlappingTrees)

	contents, err := os.ReadFile(entry)
	require.NoError(t, err)
	require.Equal(t, "entry", string(contents))
}

// TestCleanArtifacts verifies bytecode caches and stray files are removed
// while real payload stays untouched.
func TestCleanArtifacts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "core", "__pycache__"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "core", "__pycache__", "kernel.cpython-312.pyc"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "core", "kernel.py"), []byte("kernel"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "core", "kernel.py~"), []byte("backup"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".DS_Store"), []byte("meta"), 0o644))

	CleanArtifacts(context.Background(), root)

	_, err := os.Stat(filepath.Join(root, "core", "__pycache__"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(root, "core", "kernel.py~"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(root, ".DS_Store"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(root, "core", "kernel.py"))
	require.NoError(t, err)
}
