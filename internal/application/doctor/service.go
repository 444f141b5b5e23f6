// Package doctor runs environment diagnostics: backend reachability,
// deployment tool presence, output directory writability.
//
// The same checks gate loop startup. A report with an error-level check is
// fatal there; warn-level checks (a missing deployment tool) are advisory.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"sketchforge/internal/domain"
)

// Service runs environment diagnostics.
type Service struct {
	Config domain.Config

	// probe is swappable in tests; defaults to running the real command.
	probe func(ctx context.Context, name string, args ...string) (string, error)
}

// NewService builds a doctor for the given configuration.
func NewService(cfg domain.Config) *Service {
	return &Service{Config: cfg, probe: runCommand}
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) domain.HealthReport {
	var checks []domain.HealthCheck

	if s.Config.Generator.UseLocalModel {
		checks = append(checks, s.checkOllama(ctx))
	} else {
		checks = append(checks, s.checkAPIKey())
	}
	checks = append(checks, s.checkDeployTool(ctx))
	checks = append(checks, s.checkOutputDir())

	return domain.HealthReport{Checks: checks}
}

func (s *Service) checkOllama(ctx context.Context) domain.HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, domain.DependencyProbeTimeout)
	defer cancel()

	output, err := s.probe(ctx, "ollama", "list")
	if err != nil {
		return fail("Ollama", "not found; install from https://ollama.com/download")
	}
	model := s.Config.LocalModel.ModelID
	if !strings.Contains(output, model) {
		return fail("Ollama", fmt.Sprintf("model %q not found; run: ollama pull %s", model, model))
	}
	return ok("Ollama", fmt.Sprintf("model %q available", model))
}

func (s *Service) checkAPIKey() domain.HealthCheck {
	envVar := s.Config.RemoteModel.AuthEnvVar
	if os.Getenv(envVar) == "" {
		return fail("API key", fmt.Sprintf("%s not set; remote backend unreachable", envVar))
	}
	return ok("API key", fmt.Sprintf("%s detected", envVar))
}

func (s *Service) checkDeployTool(ctx context.Context) domain.HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, domain.DependencyProbeTimeout)
	defer cancel()

	tool := s.Config.Deploy.Tool
	if _, err := s.probe(ctx, tool, "--version"); err != nil {
		return warn("Deploy tool", fmt.Sprintf("%s not found (sketches will be saved but not deployed)", tool))
	}
	return ok("Deploy tool", fmt.Sprintf("%s available", tool))
}

func (s *Service) checkOutputDir() domain.HealthCheck {
	dir := s.Config.Generator.OutputDir
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return warn("Output directory", err.Error())
	}
	return ok("Output directory", dir)
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return string(output), err
	}
	return string(output), nil
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
