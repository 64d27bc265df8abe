package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// InterpreterAvailable reports whether the given interpreter can be found on PATH.
func InterpreterAvailable(interpreter string) bool {
	_, err := exec.LookPath(interpreter)

	return err == nil
}

// RuntimeBinDir returns the executable directory of the isolated runtime
// inside an installation tree.
func RuntimeBinDir(root string) string {
	return filepath.Join(root, RuntimeDirName, "bin")
}

// RuntimePython returns the interpreter path inside the isolated runtime.
func RuntimePython(root string) string {
	return filepath.Join(RuntimeBinDir(root), "python")
}

// ProvisionRuntime creates the isolated runtime rooted at root and installs
// the declared dependencies into it. Callers treat any failure here as fatal:
// a broken runtime must never be registered as a service.
func ProvisionRuntime(ctx context.Context, r CommandRunner, root, interpreter string) error {
	venvDir := filepath.Join(root, RuntimeDirName)

	if _, err := os.Stat(RuntimePython(root)); errors.Is(err, os.ErrNotExist) {
		logger.InfoKV(ctx, "Creating isolated runtime", "path", venvDir)

		if err := r.Run(ctx, interpreter, "-m", "venv", venvDir); err != nil {
			return fmt.Errorf("create isolated runtime: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("stat runtime interpreter: %w", err)
	} else {
		logger.InfoKV(ctx, "Isolated runtime already present", "path", venvDir)
	}

	requirements := filepath.Join(root, RequirementsFilename)

	if _, err := os.Stat(requirements); errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "No dependency list found, skipping dependency installation", "path", requirements)
		return nil
	} else if err != nil {
		return fmt.Errorf("stat dependency list: %w", err)
	}

	logger.InfoKV(ctx, "Installing dependencies into isolated runtime", "requirements", requirements)

	pip := filepath.Join(RuntimeBinDir(root), "pip")
	if err := r.Run(ctx, pip, "install", "-r", requirements); err != nil {
		return fmt.Errorf("install dependencies: %w", err)
	}

	return nil
}
