package deploy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// installerExecutables names every binary that mutates an installation tree.
// A concurrent run of any of them has undefined results.
var installerExecutables = map[string]struct{}{
	"sdb-install":       {},
	"sdb-install-local": {},
}

// WarnIfInstallerRunning scans the host for another live installer process,
// whether the same binary or the other installer flavor. The installers
// assume a single run per host and do not arbitrate concurrent invocations,
// so this is warn-only guidance for the operator, never a hard stop.
func WarnIfInstallerRunning(ctx context.Context) {
	processes, err := ps.Processes()
	if err != nil {
		logger.WarnKV(ctx, "Unable to scan host processes", "error", err)
		return
	}

	others := concurrentInstallers(os.Getpid(), filepath.Base(os.Args[0]), processes)

	for _, process := range others {
		logger.WarnKV(ctx, "Another installer process appears to be running; concurrent installs have undefined results",
			"pid", process.Pid(), "executable", process.Executable())
	}
}

// concurrentInstallers filters the process list down to other live installer
// processes: any known installer binary plus the calling binary's own name,
// in case it was renamed. The calling process itself is excluded.
func concurrentInstallers(self int, own string, processes []ps.Process) []ps.Process {
	var others []ps.Process

	for _, process := range processes {
		if process.Pid() == self {
			continue
		}

		executable := process.Executable()
		if _, known := installerExecutables[executable]; !known && executable != own {
			continue
		}

		others = append(others, process)
	}

	return others
}
