// Package domain defines core entities and value objects for sketchforge.
//
// The domain layer is independent of infrastructure concerns and represents
// pure data structures flowing through one generation cycle: a request goes
// out to a backend, raw text comes back, an artifact is extracted, judged,
// and (if safe) persisted.
package domain

import "strings"

// GenerationRequest describes the sketch the backend is asked to produce.
// Immutable once built; lives for a single cycle.
type GenerationRequest struct {
	Category     string
	SafePins     []int
	MaxLines     int
	ForbiddenOps []string
}

// Artifact is extracted sketch code plus its derived line count.
type Artifact struct {
	Code      string
	LineCount int
}

// NewArtifact derives an Artifact from extracted code.
func NewArtifact(code string) Artifact {
	return Artifact{
		Code:      code,
		LineCount: len(strings.Split(code, "\n")),
	}
}

// Verdict is the safety validator's decision for one artifact.
type Verdict struct {
	Safe   bool
	Reason string
}

// VerdictSafe is the reason reported when every check passes.
const VerdictSafe = "Safe"

// ArtifactMetadata is the descriptor persisted next to each sketch.
type ArtifactMetadata struct {
	SketchNumber int    `json:"sketch_number"`
	GeneratedAt  string `json:"generated_at"`
	Model        string `json:"model"`
	LocalModel   bool   `json:"local_model"`
	LineCount    int    `json:"line_count"`
	RunID        string `json:"run_id"`
}
