package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soverxos/swiftdevbot-deploy/internal/config"
	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
	"github.com/soverxos/swiftdevbot-deploy/internal/service/localinstall"
	"github.com/soverxos/swiftdevbot-deploy/internal/version"
)

var (
	// configPath to the deployment settings YAML file.
	configPath string
	// destDir is the installation destination.
	destDir string
	// logLevel controls logging verbosity.
	logLevel string

	// rootCmd represents the base command for unpacking a release locally.
	rootCmd = &cobra.Command{
		Use:   "sdb-install-local [release-archive]",
		Short: "Unpack a release archive into an unprivileged working copy",
		Long: `Extracts a release archive produced by sdb-release into a local working
copy, provisions the isolated runtime and dependencies, synthesizes a
configuration file from the bundled template on first run, and applies the
standard layout and permission profile scoped to the invoking user.

No service is registered: the resulting installation is runnable but
unsupervised.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &localinstall.Options{
				ConfigPath:  configPath,
				ArchivePath: args[0],
				DestDir:     destDir,
			}

			return localinstall.Run(ctx, options)
		},
	}
)

// Execute runs the sdb-install-local CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVarP(&destDir, "dest", "d", ".", "destination directory for the working copy")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")
}
