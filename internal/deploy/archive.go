package deploy

import (
	"archive/tar"
	"compress/gzip"
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

var (
	// errUnsafeArchivePath is returned when an archive entry would escape the
	// extraction destination.
	errUnsafeArchivePath = errors.New("archive entry escapes destination")
	// errUnsafeLinkTarget is returned when a symlink entry points outside the
	// extraction destination.
	errUnsafeLinkTarget = errors.New("symlink target escapes destination")
)

// WriteArchive compresses the contents of stagingRoot into a gzip-compressed
// tar file at archivePath. Entry names are stored relative to stagingRoot, so
// extracting the archive into any destination reproduces the staged tree
// without an enclosing wrapper directory.
func WriteArchive(stagingRoot, archivePath string) error {
	if err := os.MkdirAll(filepath.Dir(archivePath), TreeMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out, err := os.Create(filepath.Clean(archivePath))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	gzWriter := gzip.NewWriter(out)
	tarWriter := tar.NewWriter(gzWriter)

	walkErr := filepath.WalkDir(stagingRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == stagingRoot {
			return nil
		}

		rel, err := filepath.Rel(stagingRoot, path)
		if err != nil {
			return err
		}

		return writeArchiveEntry(tarWriter, path, filepath.ToSlash(rel), entry)
	})

	// Close writers innermost-first so the archive trailer is flushed; the
	// first failure wins.
	closeErr := tarWriter.Close()
	if err := gzWriter.Close(); closeErr == nil {
		closeErr = err
	}

	if err := out.Close(); closeErr == nil {
		closeErr = err
	}

	if walkErr != nil {
		return fmt.Errorf("archive %s: %w", stagingRoot, walkErr)
	}

	if closeErr != nil {
		return fmt.Errorf("finalize archive: %w", closeErr)
	}

	return nil
}

// writeArchiveEntry appends one file, directory or symlink to the tar stream.
func writeArchiveEntry(tarWriter *tar.Writer, path, name string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return err
	}

	var linkTarget string
	if info.Mode()&os.ModeSymlink != 0 {
		if linkTarget, err = os.Readlink(path); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, linkTarget)
	if err != nil {
		return err
	}

	header.Name = name
	if entry.IsDir() {
		header.Name += "/"
	}

	if err = tarWriter.WriteHeader(header); err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	in, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	if _, err = io.Copy(tarWriter, in); err != nil {
		_ = in.Close()

		return err
	}

	return in.Close()
}

// ExtractArchive unpacks a gzip-compressed tar archive into destDir,
// preserving entry modes. Entries that would land outside destDir are
// rejected, never written.
func ExtractArchive(ctx context.Context, archivePath, destDir string) error {
	in, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	defer func() {
		_ = in.Close()
	}()

	gzReader, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	defer func() {
		_ = gzReader.Close()
	}()

	if err = os.MkdirAll(destDir, TreeMode); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	destRoot := filepath.Clean(destDir)
	tarReader := tar.NewReader(gzReader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read archive entry: %w", err)
		}

		if err = extractEntry(ctx, tarReader, header, destRoot); err != nil {
			return err
		}
	}
}

// extractEntry writes a single archive entry under destRoot.
func extractEntry(ctx context.Context, tarReader *tar.Reader, header *tar.Header, destRoot string) error {
	target := filepath.Join(destRoot, filepath.FromSlash(header.Name))
	if target != destRoot && !strings.HasPrefix(target, destRoot+string(os.PathSeparator)) {
		return fmt.Errorf("%s: %w", header.Name, errUnsafeArchivePath)
	}

	mode := header.FileInfo().Mode().Perm()

	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, mode); err != nil {
			return fmt.Errorf("create %s: %w", target, err)
		}
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), TreeMode); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}

		out, err := os.OpenFile(filepath.Clean(target), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
		if err != nil {
			return fmt.Errorf("create %s: %w", target, err)
		}

		if _, err = io.Copy(out, tarReader); err != nil { //nolint:gosec // Release archives are produced by this tool.
			_ = out.Close()

			return fmt.Errorf("extract %s: %w", header.Name, err)
		}

		if err = out.Close(); err != nil {
			return fmt.Errorf("close %s: %w", target, err)
		}
	case tar.TypeSymlink:
		if filepath.IsAbs(header.Linkname) || strings.HasPrefix(filepath.Clean(header.Linkname), "..") {
			return fmt.Errorf("%s -> %s: %w", header.Name, header.Linkname, errUnsafeLinkTarget)
		}

		_ = os.Remove(target)

		if err := os.Symlink(header.Linkname, target); err != nil {
			return fmt.Errorf("symlink %s: %w", target, err)
		}
	default:
		logger.WarnKV(ctx, "Skipping unsupported archive entry", "name", header.Name, "type", header.Typeflag)
	}

	return nil
}
