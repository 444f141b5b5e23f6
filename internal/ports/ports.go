// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). The generation loop depends only on
// these abstractions; the concrete Ollama client, filesystem writer and
// deployment runner live in the infrastructure layer.
package ports

import (
	"context"

	"sketchforge/internal/domain"
)

// ConfigProvider loads the configuration from persistent storage.
// Implementations typically read from ~/.sketchforge/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Provider defines the code-generation capability backing one cycle.
// Each implementation wraps a specific backend API (local Ollama,
// hosted chat completions).
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderFactory builds the Provider selected by the configuration's
// local/remote backend flag.
type ProviderFactory interface {
	ForConfig(domain.Config) (Provider, error)
}

// SafetyService screens extracted sketch code against the static safety
// battery before it may be persisted or deployed.
type SafetyService interface {
	Validate(code string) domain.Verdict
}

// ArtifactStore persists a validated artifact plus its packaging
// descriptors into a fresh directory and returns its path.
type ArtifactStore interface {
	Write(artifact domain.Artifact, sketchNumber int) (string, error)
}

// Deployer hands a persisted artifact directory to the external deployment
// CLI. It never fails the caller; the result carries diagnostics.
type Deployer interface {
	Deploy(ctx context.Context, artifactDir string) domain.DeployResult
}

// HistoryRepository records completed generation cycles.
type HistoryRepository interface {
	Save(record domain.CycleRecord) error
	Recent(limit int) ([]domain.CycleRecord, error)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
