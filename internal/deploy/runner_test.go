package deploy

import (
	"context"
	"errors"
	"strings"
)

// errFakeCommand is returned by fakeRunner for commands it is told to fail.
var errFakeCommand = errors.New("command failed")

// fakeRunner records executed commands and can be told to fail on a command name.
type fakeRunner struct {
	// commands is the ordered list of executed command lines.
	commands []string
	// failOn makes Run/Output fail when the command name matches.
	failOn string
	// outputs maps a command name to its canned standard output.
	outputs map[string]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.commands = append(f.commands, strings.Join(append([]string{name}, args...), " "))

	if f.failOn != "" && name == f.failOn {
		return errFakeCommand
	}

	return nil
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	if err := f.Run(ctx, name, args...); err != nil {
		return "", err
	}

	return f.outputs[name], nil
}

// ran reports whether any recorded command line contains the given fragment.
func (f *fakeRunner) ran(fragment string) bool {
	for _, command := range f.commands {
		if strings.Contains(command, fragment) {
			return true
		}
	}

	return false
}
