package deploy

// ManifestEntries returns the fixed list of paths, relative to the project
// root, that are copied into a release. The manifest is versioned with the
// tool and is intentionally not user-configurable: a release always carries
// the same payload for a given tool version. Entries missing on disk are
// skipped with a warning by the builder, never treated as fatal.
func ManifestEntries() []string {
	return []string{
		"core",
		"modules",
		"scripts",
		EntryScript,
		"manage.py",
		SetupFilename,
		RequirementsFilename,
		ConfigExampleFilename,
		"README.md",
	}
}
