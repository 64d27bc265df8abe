// Package version carries the build metadata shared by the sdb binaries.
//
// Version, Commit, and BuildTime are stamped via -ldflags at release time and
// fall back to development defaults otherwise. Short and Full render them for
// CLI output, and AttachCobraVersionCommand wires a `version` subcommand onto
// each tool's root command.
package version
