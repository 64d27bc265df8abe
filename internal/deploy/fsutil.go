package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// errOverlappingTrees is returned when a copy would read and overwrite the
// same tree at once.
var errOverlappingTrees = errors.New("source and destination trees overlap")

// CopyTree copies src into dst, recursively for directories. File modes are
// preserved; symlinks are recreated with their original targets. dst and any
// missing parents are created as needed.
//
// src and dst must be disjoint: destination files are truncated before the
// source is read, so a copy onto itself or into a nested path would destroy
// the source. Such copies are refused before anything is written.
func CopyTree(src, dst string) error {
	if err := checkDisjoint(src, dst); err != nil {
		return err
	}

	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return copySymlink(src, dst)
	case info.IsDir():
		return copyDir(src, dst)
	default:
		return copyFile(src, dst, info.Mode().Perm())
	}
}

// checkDisjoint rejects identical or nested source/destination paths.
func checkDisjoint(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}

	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dst, err)
	}

	separator := string(os.PathSeparator)

	if absSrc == absDst ||
		strings.HasPrefix(absDst, absSrc+separator) ||
		strings.HasPrefix(absSrc, absDst+separator) {
		return fmt.Errorf("%s -> %s: %w", src, dst, errOverlappingTrees)
	}

	return nil
}

// copyDir copies a whole directory tree, preserving modes.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		info, err := entry.Info()
		if err != nil {
			return err
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			return copySymlink(path, target)
		case entry.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}

			return nil
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

// copyFile copies a single regular file with the given mode.
func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), TreeMode); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}

	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("copy %s: %w", src, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}

	return nil
}

// copySymlink recreates a symlink at dst pointing to src's target.
// An existing link at dst is replaced.
func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return fmt.Errorf("readlink %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), TreeMode); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}

	_ = os.Remove(dst)

	if err := os.Symlink(target, dst); err != nil {
		return fmt.Errorf("symlink %s: %w", dst, err)
	}

	return nil
}

// artifactDirNames are directory names removed wholesale during cleanup.
var artifactDirNames = map[string]struct{}{
	"__pycache__": {},
}

// artifactFileSuffixes are file name suffixes removed during cleanup.
var artifactFileSuffixes = []string{".pyc", ".pyo", "~"}

// artifactFileNames are exact file names removed during cleanup.
var artifactFileNames = map[string]struct{}{
	".DS_Store": {},
}

// CleanArtifacts removes known build-pollution artifacts (bytecode caches,
// editor backups, OS metadata files) under root. It is strictly best-effort:
// every failure is logged as a warning and never escalated.
func CleanArtifacts(ctx context.Context, root string) {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.WarnKV(ctx, "Cleanup walk failed, skipping", "path", path, "error", err)

			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		name := entry.Name()

		if entry.IsDir() {
			if _, found := artifactDirNames[name]; found {
				if removeErr := os.RemoveAll(path); removeErr != nil {
					logger.WarnKV(ctx, "Unable to remove artifact directory", "path", path, "error", removeErr)
				}

				return fs.SkipDir
			}

			return nil
		}

		if !isArtifactFile(name) {
			return nil
		}

		if removeErr := os.Remove(path); removeErr != nil {
			logger.WarnKV(ctx, "Unable to remove artifact file", "path", path, "error", removeErr)
		}

		return nil
	})
	if err != nil {
		logger.WarnKV(ctx, "Cleanup pass aborted", "root", root, "error", err)
	}
}

// isArtifactFile reports whether a file name matches a known build artifact.
func isArtifactFile(name string) bool {
	if _, found := artifactFileNames[name]; found {
		return true
	}

	for _, suffix := range artifactFileSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}
