package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soverxos/swiftdevbot-deploy/internal/config"
	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
	"github.com/soverxos/swiftdevbot-deploy/internal/service/release"
	"github.com/soverxos/swiftdevbot-deploy/internal/version"
)

var (
	// configPath to the deployment settings YAML file.
	configPath string
	// projectRoot is the source tree to package.
	projectRoot string
	// outputDir is where the release archive is written.
	outputDir string
	// logLevel controls logging verbosity.
	logLevel string

	// rootCmd represents the base command for building a release archive.
	rootCmd = &cobra.Command{
		Use:   "sdb-release",
		Short: "Package a versioned SwiftDevBot release archive",
		Long: `Assembles a versioned, filtered snapshot of the project source tree into a
portable tar.gz archive.

The release carries the fixed manifest payload plus the mandatory runtime
directory skeleton. The archive extracts flat: unpacking it into any empty
directory reproduces the full installation content without a wrapper folder.
The output directory defaults to a releases/ directory inside the project
root.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &release.Options{
				ConfigPath:  configPath,
				ProjectRoot: projectRoot,
				OutputDir:   outputDir,
			}

			return release.Run(ctx, options)
		},
	}
)

// Execute runs the sdb-release CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVarP(&projectRoot, "project", "p", ".", "project root to package")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (defaults to <project>/releases)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")
}
