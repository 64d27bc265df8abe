package deploy

import (
	"context"
	"os/user"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEnsureSystemUserExisting verifies an existing account is a soft no-op.
func TestEnsureSystemUserExisting(t *testing.T) {
	t.Parallel()

	current, err := user.Current()
	require.NoError(t, err)

	runner := &fakeRunner{}

	require.NoError(t, EnsureSystemUser(context.Background(), runner, current.Username))
	require.Empty(t, runner.commands)
}

// TestEnsureSystemUserCreates verifies a missing account triggers a system
// useradd with a non-interactive, no-home profile.
func TestEnsureSystemUserCreates(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}

	require.NoError(t, EnsureSystemUser(context.Background(), runner, "sdb-test-missing-account"))
	require.Len(t, runner.commands, 1)
	require.Contains(t, runner.commands[0], "useradd")
	require.Contains(t, runner.commands[0], "--system")
	require.Contains(t, runner.commands[0], "--no-create-home")
	require.Contains(t, runner.commands[0], "sdb-test-missing-account")
}

// TestLookupOwner verifies numeric uid/gid resolution for a real account.
func TestLookupOwner(t *testing.T) {
	t.Parallel()

	current, err := user.Current()
	require.NoError(t, err)

	uid, gid, err := LookupOwner(current.Username)
	require.NoError(t, err)
	require.GreaterOrEqual(t, uid, 0)
	require.GreaterOrEqual(t, gid, 0)
}
