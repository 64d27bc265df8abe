package deploy

import (
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// fakeProcess is a minimal ps.Process for filtering tests.
type fakeProcess struct {
	pid  int
	name string
}

func (f fakeProcess) Pid() int           { return f.pid }
func (f fakeProcess) PPid() int          { return 0 }
func (f fakeProcess) Executable() string { return f.name }

// TestConcurrentInstallers verifies both installer flavors are flagged while
// the calling process and unrelated processes are not.
func TestConcurrentInstallers(t *testing.T) {
	t.Parallel()

	processes := []ps.Process{
		fakeProcess{pid: 100, name: "sdb-install"},
		fakeProcess{pid: 101, name: "sdb-install-local"},
		fakeProcess{pid: 102, name: "systemd"},
		fakeProcess{pid: 103, name: "sdb-install"},
	}

	others := concurrentInstallers(103, "sdb-install", processes)

	require.Len(t, others, 2)
	require.Equal(t, 100, others[0].Pid())
	require.Equal(t, 101, others[1].Pid())
}

// TestConcurrentInstallersMatchesOwnName covers a renamed installer binary.
func TestConcurrentInstallersMatchesOwnName(t *testing.T) {
	t.Parallel()

	processes := []ps.Process{
		fakeProcess{pid: 200, name: "deploy-tool"},
		fakeProcess{pid: 201, name: "deploy-tool"},
		fakeProcess{pid: 202, name: "bash"},
	}

	others := concurrentInstallers(201, "deploy-tool", processes)

	require.Len(t, others, 1)
	require.Equal(t, 200, others[0].Pid())
}
