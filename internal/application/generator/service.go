// Package generator hosts the autonomous generate → validate → deploy loop.
package generator

import (
	"context"
	"errors"
	"time"

	"sketchforge/internal/domain"
	"sketchforge/internal/ports"
)

// Service runs the generation loop. One cycle flows strictly left to
// right: prompt → backend → extraction → safety → persistence → deployment.
// The only state carried across cycles is the sketch counter.
type Service struct {
	Config   domain.Config
	Prompts  *PromptBuilder
	Provider ports.Provider
	Extract  func(string) string
	Safety   ports.SafetyService
	Store    ports.ArtifactStore
	Deployer ports.Deployer
	History  ports.HistoryRepository
	Logger   ports.Logger
	RunID    string
}

// Run executes cycles until ctx is cancelled, then reports the total and
// returns nil. Nothing short of cancellation stops the loop: generation,
// validation and deployment failures are logged and the loop reschedules.
func (s *Service) Run(ctx context.Context) error {
	if s.Prompts == nil || s.Provider == nil || s.Extract == nil || s.Safety == nil ||
		s.Store == nil || s.Deployer == nil || s.Logger == nil {
		return errors.New("generator.Service dependencies not satisfied")
	}

	s.Logger.Info("starting generation loop", map[string]interface{}{
		"interval_seconds": s.Config.Generator.IntervalSeconds,
		"output_dir":       s.Config.Generator.OutputDir,
		"model":            s.Provider.Model().ModelID,
		"backend":          s.Provider.Name(),
	})

	sketchNumber := 1
	for {
		if ctx.Err() != nil {
			return s.finish(sketchNumber)
		}

		req := s.Prompts.Build()
		s.Logger.Info("generating sketch", map[string]interface{}{
			"sketch_number": sketchNumber,
			"category":      req.Category,
		})

		raw, err := s.Provider.Generate(ctx, Render(req))
		if err != nil {
			if ctx.Err() != nil {
				return s.finish(sketchNumber)
			}
			s.Logger.Warn("generation failed, will retry next cycle", map[string]interface{}{
				"sketch_number": sketchNumber,
				"error":         err.Error(),
			})
			if !s.sleep(ctx) {
				return s.finish(sketchNumber)
			}
			continue
		}

		artifact := domain.NewArtifact(s.Extract(raw))
		verdict := s.Safety.Validate(artifact.Code)
		if !verdict.Safe {
			s.Logger.Warn("sketch failed safety check", map[string]interface{}{
				"sketch_number": sketchNumber,
				"reason":        verdict.Reason,
			})
			if !s.sleep(ctx) {
				return s.finish(sketchNumber)
			}
			continue
		}
		s.Logger.Info("sketch passed safety checks", map[string]interface{}{
			"sketch_number": sketchNumber,
			"line_count":    artifact.LineCount,
		})

		artifactDir, deployed := s.persistAndDeploy(ctx, artifact, sketchNumber)
		s.record(req, artifact, sketchNumber, deployed, artifactDir)

		s.Logger.Info("cycle complete", map[string]interface{}{
			"sketch_number": sketchNumber,
			"artifact_dir":  artifactDir,
			"deployed":      deployed,
		})
		sketchNumber++

		if !s.sleep(ctx) {
			return s.finish(sketchNumber)
		}
	}
}

// persistAndDeploy writes the artifact record and hands it to the deployer.
// A write failure skips deployment but still completes the cycle; a
// deployment failure leaves the artifact on disk undeployed.
func (s *Service) persistAndDeploy(ctx context.Context, artifact domain.Artifact, sketchNumber int) (string, bool) {
	artifactDir, err := s.Store.Write(artifact, sketchNumber)
	if err != nil {
		s.Logger.Error("artifact write failed, skipping deployment", err, map[string]interface{}{
			"sketch_number": sketchNumber,
		})
		return "", false
	}

	result := s.Deployer.Deploy(ctx, artifactDir)
	if result.Success() {
		s.Logger.Info("sketch deployed", map[string]interface{}{
			"sketch_number": sketchNumber,
			"artifact_dir":  artifactDir,
		})
		return artifactDir, true
	}
	s.Logger.Warn("deployment failed", map[string]interface{}{
		"sketch_number": sketchNumber,
		"outcome":       string(result.Outcome),
		"exit_code":     result.ExitCode,
		"stderr":        result.Stderr,
	})
	return artifactDir, false
}

func (s *Service) record(req domain.GenerationRequest, artifact domain.Artifact, sketchNumber int, deployed bool, artifactDir string) {
	if s.History == nil {
		return
	}
	err := s.History.Save(domain.CycleRecord{
		Timestamp:    time.Now(),
		RunID:        s.RunID,
		SketchNumber: sketchNumber,
		Category:     req.Category,
		Model:        s.Provider.Model().ModelID,
		LineCount:    artifact.LineCount,
		Deployed:     deployed,
		ArtifactDir:  artifactDir,
	})
	if err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

// sleep pauses between cycles. Returns false when ctx was cancelled
// mid-sleep.
func (s *Service) sleep(ctx context.Context) bool {
	timer := time.NewTimer(s.Config.Interval())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Service) finish(nextSketchNumber int) error {
	s.Logger.Info("generation loop stopped", map[string]interface{}{
		"sketches_generated": nextSketchNumber - 1,
	})
	return nil
}
