package deploy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// ChownFunc changes the ownership of a single path. System installs pass a
// function binding the dedicated service account; local installs pass nil and
// keep the invoking user's ownership.
type ChownFunc func(path string) error

// ApplyPermissionProfile enforces the installation permission contract on the
// tree rooted at root: ownership over the whole tree, broad traversal modes on
// the root and the skeleton directories, and finally the owner-only lockdown
// of the configuration file.
//
// The ordering is an invariant of this routine, not of its callers: the broad
// ownership and mode passes always run before the narrow configuration
// override, so the lockdown can never be clobbered by a later broad pass.
func ApplyPermissionProfile(ctx context.Context, root string, chown ChownFunc) error {
	if chown != nil {
		if err := chownTree(root, chown); err != nil {
			return fmt.Errorf("apply ownership: %w", err)
		}
	}

	if err := os.Chmod(root, TreeMode); err != nil {
		return fmt.Errorf("chmod %s: %w", root, err)
	}

	for _, dir := range SkeletonDirs() {
		fullDir := filepath.Join(root, dir)

		if err := os.Chmod(fullDir, DataDirMode); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.WarnKV(ctx, "Skeleton directory missing during permission pass", "path", fullDir)
				continue
			}

			return fmt.Errorf("chmod %s: %w", fullDir, err)
		}
	}

	// Config lockdown runs last so the restrictive mode survives the passes
	// above. The file may legitimately be absent on a fresh system install
	// tree that has not been configured yet.
	configPath := filepath.Join(root, ConfigFilename)

	if err := os.Chmod(configPath, ConfigMode); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WarnKV(ctx, "Configuration file not present, lockdown skipped", "path", configPath)
			return nil
		}

		return fmt.Errorf("lock down %s: %w", configPath, err)
	}

	logger.InfoKV(ctx, "Configuration file restricted to owner", "path", configPath, "mode", ConfigMode.String())

	return nil
}

// chownTree applies the ownership callback to every entry under root,
// including root itself.
func chownTree(root string, chown ChownFunc) error {
	return filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		return chown(path)
	})
}

// OwnerChown returns a ChownFunc binding the given numeric owner. Symlinks are
// changed without following them so a link inside the tree cannot redirect the
// ownership pass outside it.
func OwnerChown(uid, gid int) ChownFunc {
	return func(path string) error {
		return os.Lchown(path, uid, gid)
	}
}

// MarkScriptsExecutable sets the executable bit on bundled operator scripts
// under root. Best-effort: a missing scripts directory is fine and individual
// chmod failures are logged, not escalated.
func MarkScriptsExecutable(ctx context.Context, root string) {
	pattern := filepath.Join(root, ScriptsDirName, "*.sh")

	matches, err := filepath.Glob(pattern)
	if err != nil {
		logger.WarnKV(ctx, "Unable to enumerate operator scripts", "pattern", pattern, "error", err)
		return
	}

	for _, script := range matches {
		if err := os.Chmod(script, TreeMode); err != nil {
			logger.WarnKV(ctx, "Unable to mark script executable", "path", script, "error", err)
			continue
		}

		logger.DebugKV(ctx, "Marked script executable", "path", script)
	}
}
