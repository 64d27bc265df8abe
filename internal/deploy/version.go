package deploy

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// DefaultVersion is used when the project version cannot be resolved.
const DefaultVersion = "1.0.0"

// versionPattern matches the version declaration inside the build descriptor,
// e.g. `version="2.3.1"`.
var versionPattern = regexp.MustCompile(`version\s*=\s*["']([^"']+)["']`)

// ResolveProjectVersion reads the release version from the project's build
// descriptor. Any read or parse failure falls back to DefaultVersion with a
// warning: a release must never fail purely because version metadata is
// malformed, but the degradation is surfaced rather than silent.
func ResolveProjectVersion(ctx context.Context, projectRoot string) string {
	descriptor := filepath.Join(projectRoot, SetupFilename)

	contents, err := os.ReadFile(filepath.Clean(descriptor))
	if err != nil {
		logger.WarnKV(ctx, "Unable to read build descriptor, using default version",
			"path", descriptor, "default", DefaultVersion, "error", err)

		return DefaultVersion
	}

	match := versionPattern.FindSubmatch(contents)
	if match == nil {
		logger.WarnKV(ctx, "No version declaration in build descriptor, using default version",
			"path", descriptor, "default", DefaultVersion)

		return DefaultVersion
	}

	return string(match[1])
}
