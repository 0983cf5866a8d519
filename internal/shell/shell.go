// Package shell provides an in-process POSIX shell used by the editor's
// execute-command feature.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Shell runs command lines with a persistent working directory and
// environment across calls.
type Shell struct {
	cwd string
	env []string
}

// New creates a Shell anchored at cwd. An empty cwd uses the process working
// directory.
func New(cwd string) *Shell {
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	return &Shell{cwd: cwd, env: os.Environ()}
}

// Exec runs a command line and returns its combined stdout and stderr.
// Output is captured, never written to the terminal: the editor owns the
// screen.
func (s *Shell) Exec(ctx context.Context, command string) (out string, err error) {
	var runner *interp.Runner
	var buf bytes.Buffer
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command execution panic: %v", r)
		}
		if runner != nil {
			s.updateFromRunner(runner)
		}
	}()

	parsed, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", fmt.Errorf("could not parse command: %w", err)
	}

	runner, err = interp.New(
		interp.StdIO(nil, &buf, &buf),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(s.env...)),
		interp.Dir(s.cwd),
	)
	if err != nil {
		return "", fmt.Errorf("could not create interpreter: %w", err)
	}

	err = runner.Run(ctx, parsed)
	return buf.String(), err
}

// Dir returns the current working directory.
func (s *Shell) Dir() string { return s.cwd }

// updateFromRunner persists cwd and exported env vars after execution so cd
// and exports survive between invocations.
func (s *Shell) updateFromRunner(runner *interp.Runner) {
	s.cwd = runner.Dir
	s.env = s.env[:0]
	runner.Env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			s.env = append(s.env, name+"="+vr.Str)
		}
		return true
	})
}
