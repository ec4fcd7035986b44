// Package task implements the Task Runner: a serial executor of external
// processes with captured output, where a non-optional failure aborts the
// whole sequence. Grounded in the teacher's package-manager subprocess
// invocations (_examples/vercel-turborepo/cli/internal/packagemanager/{yarn,berry}.go use exec.Command
// directly; _examples/vercel-turborepo/cli/internal/process/child.go wraps a long-running child with
// an hclog.Logger) but trimmed to the export pipeline's one-shot,
// run-to-completion case.
package task

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/redhat-developer/rhdh-cli/internal/xerrors"
)

// Task describes one external process invocation.
type Task struct {
	// Name labels this task in logs; purely cosmetic.
	Name string
	// Command is the executable to invoke, resolved via PATH.
	Command string
	Args    []string
	Dir     string
	Env     []string
	// Optional tasks do not abort the sequence on failure.
	Optional bool
}

// Result captures one task's captured output and exit status.
type Result struct {
	Output   string
	ExitCode int
}

func (t Task) commandLine() string {
	return strings.TrimSpace(t.Command + " " + strings.Join(t.Args, " "))
}

// Run executes t to completion, capturing combined stdout/stderr. A
// non-optional task that exits non-zero returns a *xerrors.Error of kind
// SubprocessFailed; an optional task never returns an error for a
// non-zero exit, only for a failure to start the process at all.
func Run(t Task) (*Result, error) {
	cmd := exec.Command(t.Command, t.Args...)
	cmd.Dir = t.Dir
	if len(t.Env) > 0 {
		cmd.Env = append(cmd.Environ(), t.Env...)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			// The process never started (e.g. command not found); this is
			// always fatal regardless of Optional.
			return nil, runErr
		}
		exitCode = exitErr.ExitCode()
	}

	result := &Result{Output: out.String(), ExitCode: exitCode}
	if exitCode != 0 && !t.Optional {
		return result, xerrors.SubprocessFailed(t.commandLine(), t.Dir, exitCode, result.Output)
	}
	return result, nil
}

// RunSequence runs tasks one at a time, in order, stopping at the first
// non-optional failure.
func RunSequence(logger hclog.Logger, tasks []Task) ([]*Result, error) {
	results := make([]*Result, 0, len(tasks))
	for _, t := range tasks {
		if logger != nil {
			logger.Debug("running task", "name", t.Name, "command", t.commandLine(), "dir", t.Dir)
		}
		result, err := Run(t)
		results = append(results, result)
		if err != nil {
			if logger != nil {
				logger.Error("task failed", "name", t.Name, "error", err)
			}
			return results, err
		}
	}
	return results, nil
}
