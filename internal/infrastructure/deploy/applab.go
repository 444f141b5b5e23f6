// Package deploy invokes the external App Lab CLI against a persisted
// artifact directory.
package deploy

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"

	"sketchforge/internal/domain"
	"sketchforge/internal/ports"
)

// Runner implements the Deployer port over the deployment CLI. It never
// returns an error: a failed, timed-out or impossible deployment is a
// logged outcome, not a fault of the cycle that reached it.
type Runner struct {
	tool     string
	settings domain.DeploySettings
}

// NewRunner builds a runner from the configured deploy settings.
func NewRunner(settings domain.DeploySettings) *Runner {
	return &Runner{
		tool:     settings.Tool,
		settings: settings,
	}
}

// Deploy implements ports.Deployer. The artifact directory is passed to
// the tool as a single absolute path argument; exit status zero means the
// sketch reached the board.
func (r *Runner) Deploy(ctx context.Context, artifactDir string) domain.DeployResult {
	absDir, err := filepath.Abs(artifactDir)
	if err != nil {
		return domain.DeployResult{Outcome: domain.DeployFailed, Stderr: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, r.settings.DeployTimeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, r.tool, "deploy", absDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	switch {
	case err == nil:
		return domain.DeployResult{Outcome: domain.DeploySucceeded}
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.DeployResult{Outcome: domain.DeployTimedOut, Stderr: stderr.String()}
	case errors.Is(err, exec.ErrNotFound):
		return domain.DeployResult{Outcome: domain.DeployToolMissing, Stderr: err.Error()}
	default:
		result := domain.DeployResult{Outcome: domain.DeployFailed, Stderr: stderr.String()}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else if result.Stderr == "" {
			result.Stderr = err.Error()
		}
		return result
	}
}

var _ ports.Deployer = (*Runner)(nil)
