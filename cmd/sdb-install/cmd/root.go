package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soverxos/swiftdevbot-deploy/internal/config"
	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
	"github.com/soverxos/swiftdevbot-deploy/internal/service/sysinstall"
	"github.com/soverxos/swiftdevbot-deploy/internal/version"
)

var (
	// configPath to the deployment settings YAML file.
	configPath string
	// sourceTree is the checkout or unpacked release to install.
	sourceTree string
	// logLevel controls logging verbosity.
	logLevel string

	// rootCmd represents the base command for installing the system service.
	rootCmd = &cobra.Command{
		Use:   "sdb-install",
		Short: "Install SwiftDevBot as a supervised system service",
		Long: `Provisions the host for a supervised SwiftDevBot installation: creates the
dedicated non-interactive service account, copies the source tree into the
installation directory, applies the layout and permission profile, builds the
isolated runtime with its dependencies, and registers and starts the systemd
service.

Must be invoked with root privileges. Re-running is safe: identity and layout
steps are idempotent and a reinstall overwrites the prior tree in place.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &sysinstall.Options{
				ConfigPath: configPath,
				SourceTree: sourceTree,
			}

			return sysinstall.Run(ctx, options)
		},
	}
)

// Execute runs the sdb-install CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&sourceTree, "source", "s", ".", "source tree or unpacked release to install")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")
}
