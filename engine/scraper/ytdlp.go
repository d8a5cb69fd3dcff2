package scraper

import (
	"bytes"
	"context"
	"os/exec"
)

// DefaultBinary is the downloader executable looked up on PATH.
const DefaultBinary = "yt-dlp"

// Runner runs an external command to completion and returns what it wrote to
// stdout and stderr. A non-zero exit status is reported as err.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec. The process is killed when ctx is
// cancelled.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
