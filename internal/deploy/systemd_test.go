package deploy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewUnitStaysInsideInstallTree verifies every descriptor path points
// into the installation directory.
func TestNewUnitStaysInsideInstallTree(t *testing.T) {
	t.Parallel()

	unit := NewUnit("swiftdevbot", "/opt/swiftdevbot", "swiftdevbot")

	require.Equal(t, "/opt/swiftdevbot", unit.WorkingDirectory)
	require.Contains(t, unit.ExecStart, "/opt/swiftdevbot/venv/bin/python")
	require.Contains(t, unit.ExecStart, "/opt/swiftdevbot/main.py")
	require.True(t, filepath.IsAbs(unit.WorkingDirectory))

	// Runtime bin dir comes first in PATH.
	require.True(t, strings.HasPrefix(unit.PathEnv, "/opt/swiftdevbot/venv/bin"))
}

// TestUnitRender verifies the rendered descriptor carries the supervision contract.
func TestUnitRender(t *testing.T) {
	t.Parallel()

	unit := NewUnit("swiftdevbot", "/opt/swiftdevbot", "swiftdevbot")

	contents, err := unit.Render()
	require.NoError(t, err)

	rendered := string(contents)
	require.Contains(t, rendered, "Description=SwiftDevBot Telegram bot service")
	require.Contains(t, rendered, "After=network.target")
	require.Contains(t, rendered, "Type=simple")
	require.Contains(t, rendered, "User=swiftdevbot")
	require.Contains(t, rendered, "Group=swiftdevbot")
	require.Contains(t, rendered, "WorkingDirectory=/opt/swiftdevbot")
	require.Contains(t, rendered, "Restart=always")
	require.Contains(t, rendered, "RestartSec=10")
	require.Contains(t, rendered, "WantedBy=multi-user.target")
}

// TestInstallUnit verifies the unit file is written and the supervisor is
// reloaded, enabled and started in that order.
func TestInstallUnit(t *testing.T) {
	t.Parallel()

	unitDir := t.TempDir()
	runner := &fakeRunner{}
	unit := NewUnit("swiftdevbot", "/opt/swiftdevbot", "swiftdevbot")

	require.NoError(t, InstallUnit(context.Background(), runner, unit, unitDir))

	_, err := os.Stat(filepath.Join(unitDir, "swiftdevbot.service"))
	require.NoError(t, err)

	require.Equal(t, []string{
		"systemctl daemon-reload",
		"systemctl enable swiftdevbot",
		"systemctl start swiftdevbot",
	}, runner.commands)
}

// TestInstallUnitSurfacesSupervisorErrors verifies supervisor failures
// propagate to the operator.
func TestInstallUnitSurfacesSupervisorErrors(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{failOn: "systemctl"}
	unit := NewUnit("swiftdevbot", "/opt/swiftdevbot", "swiftdevbot")

	err := InstallUnit(context.Background(), runner, unit, t.TempDir())
	require.ErrorIs(t, err, errFakeCommand)
}

// TestReportServiceStatusNeverFails verifies the status query is observational.
func TestReportServiceStatusNeverFails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{failOn: "systemctl"}

	// Must not panic or escalate.
	ReportServiceStatus(context.Background(), runner, "swiftdevbot")
	require.True(t, runner.ran("systemctl status swiftdevbot"))
}
