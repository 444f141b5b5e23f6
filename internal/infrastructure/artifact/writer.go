// Package artifact persists validated sketches to disk in the layout the
// deployment CLI expects: the sketch body in a nested sketch/ directory,
// a JSON metadata descriptor, and the App Lab packaging descriptors.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"sketchforge/internal/domain"
	"sketchforge/internal/ports"
)

// Writer implements the ArtifactStore port on the local filesystem.
// Records are created once and never mutated or deleted.
type Writer struct {
	outputDir  string
	modelID    string
	localModel bool
	runID      string
	now        func() time.Time
}

// NewWriter builds a writer rooted at the configured output directory.
func NewWriter(cfg domain.Config, runID string) *Writer {
	return &Writer{
		outputDir:  cfg.Generator.OutputDir,
		modelID:    cfg.ActiveModel().ModelID,
		localModel: cfg.Generator.UseLocalModel,
		runID:      runID,
		now:        time.Now,
	}
}

type brickConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

type brickCompose struct {
	Version  string         `yaml:"version"`
	Services map[string]any `yaml:"services"`
}

// Write implements ports.ArtifactStore. Directory creation is idempotent;
// file writes overwrite. The first write error is returned as-is, leaving
// whatever was already written in place.
func (w *Writer) Write(artifact domain.Artifact, sketchNumber int) (string, error) {
	now := w.now()
	dirName := fmt.Sprintf("sketch_%04d_%s", sketchNumber, now.Format(domain.DirTimestampFormat))
	sketchDir := filepath.Join(w.outputDir, dirName)

	if err := os.MkdirAll(filepath.Join(sketchDir, "sketch"), domain.DirectoryPermissions); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(sketchDir, "sketch", "sketch.ino"), []byte(artifact.Code)); err != nil {
		return "", err
	}

	metadata := domain.ArtifactMetadata{
		SketchNumber: sketchNumber,
		GeneratedAt:  now.Format(domain.TimestampFormat),
		Model:        w.modelID,
		LocalModel:   w.localModel,
		LineCount:    artifact.LineCount,
		RunID:        w.runID,
	}
	raw, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(sketchDir, "metadata.json"), raw); err != nil {
		return "", err
	}

	if err := w.writePackaging(sketchDir, sketchNumber, now); err != nil {
		return "", err
	}

	return sketchDir, nil
}

func (w *Writer) writePackaging(sketchDir string, sketchNumber int, now time.Time) error {
	config := brickConfig{
		Name:        fmt.Sprintf("ml_sketch_%04d", sketchNumber),
		Version:     "1.0.0",
		Description: fmt.Sprintf("AI-generated Arduino sketch #%d", sketchNumber),
		Author:      "ML Generator",
	}
	rawConfig, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(sketchDir, "brick_config.yaml"), rawConfig); err != nil {
		return err
	}

	compose := brickCompose{Version: "3.8", Services: map[string]any{}}
	rawCompose, err := yaml.Marshal(compose)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(sketchDir, "brick_compose.yaml"), rawCompose); err != nil {
		return err
	}

	// Package marker required by the deployment tool's layout.
	if err := writeFile(filepath.Join(sketchDir, "__init__.py"), nil); err != nil {
		return err
	}

	readme := fmt.Sprintf("# ML-Generated Sketch #%d\n\nAuto-generated by sketchforge.\n\nGenerated: %s\n",
		sketchNumber, now.Format("2006-01-02 15:04:05"))
	return writeFile(filepath.Join(sketchDir, "README.md"), []byte(readme))
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, domain.FilePermissions)
}

var _ ports.ArtifactStore = (*Writer)(nil)
