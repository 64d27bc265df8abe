package deploy

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

const (
	// DefaultUnitDirectory is where systemd expects administrator-provided units.
	DefaultUnitDirectory = "/etc/systemd/system"

	// unitFileMode is the permission of installed unit files.
	unitFileMode os.FileMode = 0o644

	// restartDelaySeconds is the fixed backoff between supervisor restarts.
	restartDelaySeconds = 10
)

// unitTemplate renders the supervised-process definition. Every path in it
// stays inside the installation tree so the unit is self-contained.
var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description={{.Description}}
After=network.target
Wants=network.target

[Service]
Type=simple
User={{.User}}
Group={{.Group}}
WorkingDirectory={{.WorkingDirectory}}
Environment="PATH={{.PathEnv}}"
ExecStart={{.ExecStart}}
Restart=always
RestartSec={{.RestartSec}}

[Install]
WantedBy=multi-user.target
`))

// Unit describes one supervised service registered with systemd.
type Unit struct {
	// Name is the unit name without the ".service" suffix.
	Name string
	// Description is the human-readable unit description.
	Description string
	// User and Group are the running identity.
	User  string
	Group string
	// WorkingDirectory is the installation root the process runs from.
	WorkingDirectory string
	// PathEnv is the PATH handed to the process, runtime bin dir first.
	PathEnv string
	// ExecStart is the full start command.
	ExecStart string
	// RestartSec is the restart backoff in seconds.
	RestartSec int
}

// NewUnit builds the service definition for an installation tree. All
// descriptor fields point inside installDir.
func NewUnit(name, installDir, serviceUser string) *Unit {
	return &Unit{
		Name:             name,
		Description:      "SwiftDevBot Telegram bot service",
		User:             serviceUser,
		Group:            serviceUser,
		WorkingDirectory: installDir,
		PathEnv:          RuntimeBinDir(installDir) + ":" + os.Getenv("PATH"),
		ExecStart:        RuntimePython(installDir) + " " + filepath.Join(installDir, EntryScript),
		RestartSec:       restartDelaySeconds,
	}
}

// Render produces the unit file contents.
func (u *Unit) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := unitTemplate.Execute(&buf, u); err != nil {
		return nil, fmt.Errorf("render unit %s: %w", u.Name, err)
	}

	return buf.Bytes(), nil
}

// FileName returns the unit file name including the ".service" suffix.
func (u *Unit) FileName() string {
	return u.Name + ".service"
}

// InstallUnit writes the unit definition into unitDir, reloads the supervisor
// configuration, enables the service for future boots and starts it
// immediately. Supervisor errors are surfaced to the operator without
// rollback.
func InstallUnit(ctx context.Context, r CommandRunner, u *Unit, unitDir string) error {
	contents, err := u.Render()
	if err != nil {
		return err
	}

	unitPath := filepath.Join(unitDir, u.FileName())

	if err = os.WriteFile(unitPath, contents, unitFileMode); err != nil {
		return fmt.Errorf("write unit %s: %w", unitPath, err)
	}

	logger.InfoKV(ctx, "Installed service unit", "path", unitPath)

	if err = r.Run(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("reload supervisor: %w", err)
	}

	if err = r.Run(ctx, "systemctl", "enable", u.Name); err != nil {
		return fmt.Errorf("enable service: %w", err)
	}

	if err = r.Run(ctx, "systemctl", "start", u.Name); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	return nil
}

// ReportServiceStatus queries and displays the service state. Observational
// only: a failing query is logged and never escalated.
func ReportServiceStatus(ctx context.Context, r CommandRunner, name string) {
	out, err := r.Output(ctx, "systemctl", "status", name, "--no-pager")
	if err != nil {
		logger.WarnKV(ctx, "Unable to query service status", "service", name, "error", err)

		if out != "" {
			logger.Info(ctx, out)
		}

		return
	}

	logger.Infof(ctx, "Service status:\n%s", out)
}
