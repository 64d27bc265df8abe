package release

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

// Options contains inputs for the release builder entry point.
type Options struct {
	// ConfigPath is an optional path to the deployment settings file.
	ConfigPath string
	// ProjectRoot is the source tree to package (defaults to the working directory).
	ProjectRoot string
	// OutputDir is where the archive is written (defaults to <project>/releases).
	OutputDir string
}

// ReleasesDirName is the default output directory inside the project root.
const ReleasesDirName = "releases"

var (
	// errArchiveMissing indicates the expected output archive was not created.
	errArchiveMissing = errors.New("release archive was not created")
	// errArchiveEmpty indicates the output archive exists but is empty.
	errArchiveEmpty = errors.New("release archive is empty")
)

// Run executes the release build workflow.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sdb-release")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	projectRoot := opts.ProjectRoot
	if projectRoot == "" {
		projectRoot = "."
	}

	if projectRoot, err = filepath.Abs(projectRoot); err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(projectRoot, ReleasesDirName)
	}

	archivePath, err := build(ctx, cfg.ReleaseName, projectRoot, outputDir)
	if err != nil {
		return fmt.Errorf("build release: %w", err)
	}

	info, err := os.Stat(archivePath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", archivePath, errArchiveMissing)
	} else if err != nil {
		return fmt.Errorf("verify archive: %w", err)
	}

	if info.Size() == 0 {
		return fmt.Errorf("%s: %w", archivePath, errArchiveEmpty)
	}

	logger.InfoKV(ctx, "Release archive created", "path", archivePath, "size_bytes", info.Size())

	return nil
}

// build stages the manifest payload plus a fresh directory skeleton and
// compresses it into <outputDir>/<name>_<version>.tar.gz. The staging
// directory is removed regardless of the outcome.
func build(ctx context.Context, name, projectRoot, outputDir string) (string, error) {
	version := deploy.ResolveProjectVersion(ctx, projectRoot)
	logger.InfoKV(ctx, "Building release", "name", name, "version", version, "project_root", projectRoot)

	// Best-effort: a release never fails because of stray build artifacts.
	deploy.CleanArtifacts(ctx, projectRoot)

	staging, err := os.MkdirTemp("", "sdb-release-")
	if err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(staging)
	}()

	if err = stageManifest(ctx, projectRoot, staging); err != nil {
		return "", err
	}

	if err = deploy.EnsureSkeleton(staging); err != nil {
		return "", fmt.Errorf("create directory skeleton: %w", err)
	}

	archivePath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.tar.gz", name, version))

	if err = deploy.WriteArchive(staging, archivePath); err != nil {
		return "", err
	}

	return archivePath, nil
}

// stageManifest copies every manifest entry present on disk into the staging
// root. Missing entries are logged and skipped, never fatal.
func stageManifest(ctx context.Context, projectRoot, staging string) error {
	for _, entry := range deploy.ManifestEntries() {
		src := filepath.Join(projectRoot, entry)

		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			logger.WarnKV(ctx, "Manifest entry missing, skipping", "entry", entry)
			continue
		} else if err != nil {
			return fmt.Errorf("stat %s: %w", src, err)
		}

		if err := deploy.CopyTree(src, filepath.Join(staging, entry)); err != nil {
			return fmt.Errorf("stage %s: %w", entry, err)
		}

		logger.DebugKV(ctx, "Staged manifest entry", "entry", entry)
	}

	return nil
}
