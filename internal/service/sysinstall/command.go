package sysinstall

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soverxos/swiftdevbot-deploy/internal/config"
	"github.com/soverxos/swiftdevbot-deploy/internal/deploy"
	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// Options contains inputs for the system installer entry point.
type Options struct {
	// ConfigPath is an optional path to the deployment settings file.
	ConfigPath string
	// SourceTree is the source checkout or unpacked release to install
	// (defaults to the working directory).
	SourceTree string
}

// errRootRequired indicates the installer was invoked without elevated privileges.
var errRootRequired = errors.New("system installation requires root privileges")

// Run executes the system installation workflow. It must be invoked with
// elevated privileges and fails immediately otherwise, before any mutation.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sdb-install")

	if os.Geteuid() != 0 {
		return errRootRequired
	}

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	deploy.WarnIfInstallerRunning(ctx)

	return run(ctx, cfg, opts, deploy.ExecRunner{}, deploy.DefaultUnitDirectory)
}

// run is the privilege-agnostic pipeline, split out so tests can drive it
// with a fake command runner and a scratch unit directory.
func run(ctx context.Context, cfg *config.Config, opts *Options, r deploy.CommandRunner, unitDir string) error {
	sourceTree := opts.SourceTree
	if sourceTree == "" {
		sourceTree = "."
	}

	sourceTree, err := filepath.Abs(sourceTree)
	if err != nil {
		return fmt.Errorf("resolve source tree: %w", err)
	}

	installDir := cfg.InstallDir
	logger.InfoKV(ctx, "Installing system service",
		"source", sourceTree, "install_dir", installDir, "service", cfg.ServiceName)

	steps := []deploy.Step{
		{
			Name: "ensure service account",
			Run: func(ctx context.Context) error {
				return deploy.EnsureSystemUser(ctx, r, cfg.ServiceUser)
			},
		},
		{
			Name: "materialize installation tree",
			Run: func(_ context.Context) error {
				// Reinstall-capable: prior contents are overwritten in place.
				return deploy.CopyTree(sourceTree, installDir)
			},
		},
		{
			Name: "create directory skeleton",
			Run: func(_ context.Context) error {
				return deploy.EnsureSkeleton(installDir)
			},
		},
		{
			Name: "apply ownership and permissions",
			Run: func(ctx context.Context) error {
				uid, gid, err := deploy.LookupOwner(cfg.ServiceUser)
				if err != nil {
					return err
				}

				return deploy.ApplyPermissionProfile(ctx, installDir, deploy.OwnerChown(uid, gid))
			},
		},
		{
			// Hard gate: a broken runtime must not be registered as a service.
			Name: "provision isolated runtime",
			Run: func(ctx context.Context) error {
				return deploy.ProvisionRuntime(ctx, r, installDir, cfg.Interpreter)
			},
		},
		{
			Name: "register supervised service",
			Run: func(ctx context.Context) error {
				unit := deploy.NewUnit(cfg.ServiceName, installDir, cfg.ServiceUser)

				return deploy.InstallUnit(ctx, r, unit, unitDir)
			},
		},
		{
			Name: "report service status",
			Run: func(ctx context.Context) error {
				deploy.ReportServiceStatus(ctx, r, cfg.ServiceName)

				return nil
			},
		},
	}

	if err := deploy.RunSteps(ctx, steps); err != nil {
		return err
	}

	logger.InfoKV(ctx, "System installation completed", "install_dir", installDir, "service", cfg.ServiceName)

	return nil
}
