package analyzer

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
)

// Commander runs an external program and returns its output.
// Tests replace it to avoid spawning Node.js tools.
type Commander interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecCommander runs programs with os/exec.
type ExecCommander struct{}

var _ Commander = ExecCommander{}

// Run executes name with args. The process is killed when ctx is done.
func (ExecCommander) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // program names are fixed, args are URLs and temp paths
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// NPX returns the npx executable name for the current platform.
func NPX() string {
	if runtime.GOOS == "windows" {
		return "npx.cmd"
	}
	return "npx"
}
