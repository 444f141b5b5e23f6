package domain

import "time"

// CycleRecord is one completed generation cycle as stored in history.
type CycleRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id"`
	SketchNumber int       `json:"sketch_number"`
	Category     string    `json:"category"`
	Model        string    `json:"model"`
	LineCount    int       `json:"line_count"`
	Deployed     bool      `json:"deployed"`
	ArtifactDir  string    `json:"artifact_dir"`
}
