package deploy

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner abstracts host command execution so provisioning steps can be
// exercised in tests without touching the host.
type CommandRunner interface {
	// Run executes a command, streaming its output to the operator.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command and returns its trimmed standard output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the host through os/exec.
type ExecRunner struct{}

// Run executes the command with stdout/stderr attached to the operator's terminal.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

// Output executes the command and captures its standard output.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("%s: %w", name, err)
	}

	return strings.TrimSpace(string(out)), nil
}
