package segments

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner abstracts external command execution so ffmpeg and
// ffprobe invocations can be faked in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the production implementation using os/exec
type ExecRunner struct{}

// Run executes a command, folding its combined output into any error
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\noutput: %s", name, err, string(output))
	}
	return nil
}

// Output executes a command and returns its stdout
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}
