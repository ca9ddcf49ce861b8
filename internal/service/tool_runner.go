package service

import (
	"context"
	"errors"
	"os/exec"
)

type execRunner struct{}

// NewExecRunner returns a ToolRunner backed by os/exec.
func NewExecRunner() ToolRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, exitErr.ExitCode(), nil
	}
	if err != nil {
		return output, -1, err
	}
	return output, 0, nil
}
