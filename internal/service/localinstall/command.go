package localinstall

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soverxos/swiftdevbot-deploy/internal/config"
	"github.com/soverxos/swiftdevbot-deploy/internal/deploy"
	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// Options contains inputs for the local installer entry point.
type Options struct {
	// ConfigPath is an optional path to the deployment settings file.
	ConfigPath string
	// ArchivePath is the release archive to install. Required.
	ArchivePath string
	// DestDir is the installation destination (defaults to the working directory).
	DestDir string
}

var (
	// errArchiveRequired indicates the archive path argument is missing.
	errArchiveRequired = errors.New("exactly one release archive path is required")
	// errInterpreterMissing indicates no suitable runtime interpreter was found.
	errInterpreterMissing = errors.New("runtime interpreter not found on PATH")
)

// Run executes the local installation workflow. All preconditions are checked
// before any filesystem mutation.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sdb-install-local")

	if strings.TrimSpace(opts.ArchivePath) == "" {
		return errArchiveRequired
	}

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if !deploy.InterpreterAvailable(cfg.Interpreter) {
		return fmt.Errorf("%s: %w", cfg.Interpreter, errInterpreterMissing)
	}

	deploy.WarnIfInstallerRunning(ctx)

	return run(ctx, cfg, opts, deploy.ExecRunner{})
}

// run is the pipeline behind Run, split out so tests can drive it with a fake
// command runner.
func run(ctx context.Context, cfg *config.Config, opts *Options, r deploy.CommandRunner) error {
	destDir := opts.DestDir
	if destDir == "" {
		destDir = "."
	}

	destDir, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	logger.InfoKV(ctx, "Installing local working copy", "archive", opts.ArchivePath, "dest", destDir)

	steps := []deploy.Step{
		{
			Name: "extract release archive",
			Run: func(ctx context.Context) error {
				return deploy.ExtractArchive(ctx, opts.ArchivePath, destDir)
			},
		},
		{
			// Hard gate, same as the system installer.
			Name: "provision isolated runtime",
			Run: func(ctx context.Context) error {
				return deploy.ProvisionRuntime(ctx, r, destDir, cfg.Interpreter)
			},
		},
		{
			Name: "materialize configuration",
			Run: func(ctx context.Context) error {
				return materializeConfig(ctx, destDir)
			},
		},
		{
			Name: "create directory skeleton",
			Run: func(_ context.Context) error {
				return deploy.EnsureSkeleton(destDir)
			},
		},
		{
			Name: "mark operator scripts executable",
			Run: func(ctx context.Context) error {
				deploy.MarkScriptsExecutable(ctx, destDir)

				return nil
			},
		},
		{
			// Ownership stays with the invoking user, so no chown callback.
			Name: "apply permission profile",
			Run: func(ctx context.Context) error {
				return deploy.ApplyPermissionProfile(ctx, destDir, nil)
			},
		},
	}

	if err := deploy.RunSteps(ctx, steps); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Local installation completed; start the bot manually or register it with sdb-install",
		"dest", destDir)

	return nil
}

// materializeConfig creates the configuration file from the bundled example
// on first install. An existing, possibly operator-edited configuration is
// never overwritten.
func materializeConfig(ctx context.Context, destDir string) error {
	configPath := filepath.Join(destDir, deploy.ConfigFilename)

	if _, err := os.Stat(configPath); err == nil {
		logger.InfoKV(ctx, "Configuration already present, keeping it", "path", configPath)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", configPath, err)
	}

	examplePath := filepath.Join(destDir, deploy.ConfigExampleFilename)

	if _, err := os.Stat(examplePath); errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "No configuration template bundled, skipping", "path", examplePath)
		return nil
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", examplePath, err)
	}

	if err := deploy.CopyTree(examplePath, configPath); err != nil {
		return fmt.Errorf("materialize configuration: %w", err)
	}

	logger.InfoKV(ctx, "Created configuration from bundled template", "path", configPath)

	return nil
}
