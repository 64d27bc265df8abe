package deploy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFilename is the secrets-bearing configuration file at the
	// installation root. It may contain a bot authentication token.
	ConfigFilename = "config.yml"

	// ConfigExampleFilename is the bundled template used to synthesize a
	// configuration on first local install.
	ConfigExampleFilename = "config.yml.example"

	// EntryScript is the application entry point started by the supervisor.
	EntryScript = "main.py"

	// RequirementsFilename lists the dependencies installed into the runtime.
	RequirementsFilename = "requirements.txt"

	// SetupFilename is the build descriptor holding the project version.
	SetupFilename = "setup.py"

	// MarkerFilename keeps otherwise-empty skeleton directories tracked
	// and ensures they survive archival.
	MarkerFilename = ".gitkeep"

	// RuntimeDirName is the directory of the isolated runtime inside an
	// installation tree.
	RuntimeDirName = "venv"

	// ScriptsDirName holds bundled operator scripts.
	ScriptsDirName = "scripts"

	// TreeMode is the permission applied to the installation root.
	TreeMode os.FileMode = 0o755

	// ConfigMode restricts the configuration file to its owner.
	ConfigMode os.FileMode = 0o700

	// DataDirMode is the permission applied to skeleton directories.
	DataDirMode os.FileMode = 0o755

	// MarkerMode is the permission of skeleton marker files.
	MarkerMode os.FileMode = 0o644
)

// SkeletonDirs returns the mandatory runtime directories, relative to the
// installation root.
func SkeletonDirs() []string {
	return []string{
		filepath.Join("data", "db"),
		filepath.Join("data", "backups"),
		filepath.Join("data", "temp"),
		filepath.Join("data", "cache"),
		"logs",
	}
}

// EnsureSkeleton creates the mandatory directory layout under root, including
// marker files. It is idempotent: existing directories and their contents are
// left untouched.
func EnsureSkeleton(root string) error {
	for _, dir := range SkeletonDirs() {
		fullDir := filepath.Join(root, dir)

		if err := os.MkdirAll(fullDir, DataDirMode); err != nil {
			return fmt.Errorf("create %s: %w", fullDir, err)
		}

		marker := filepath.Join(fullDir, MarkerFilename)

		if _, err := os.Stat(marker); errors.Is(err, os.ErrNotExist) {
			if err := os.WriteFile(marker, nil, MarkerMode); err != nil {
				return fmt.Errorf("create marker %s: %w", marker, err)
			}
		} else if err != nil {
			return fmt.Errorf("stat marker %s: %w", marker, err)
		}
	}

	return nil
}
