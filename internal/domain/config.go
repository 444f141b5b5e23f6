package domain

import "time"

// Config mirrors ~/.sketchforge/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Generator           GeneratorSettings `yaml:"generator"`
	LocalModel          ModelDefinition   `yaml:"local_model"`
	RemoteModel         ModelDefinition   `yaml:"remote_model"`
	Safety              SafetySettings    `yaml:"safety"`
	Deploy              DeploySettings    `yaml:"deploy"`
}

// GeneratorSettings controls the generation loop itself.
type GeneratorSettings struct {
	IntervalSeconds int    `yaml:"interval_seconds"`
	OutputDir       string `yaml:"output_dir"`
	UseLocalModel   bool   `yaml:"use_local_model"`
}

// ModelDefinition describes one generation backend endpoint with its
// authentication and generation parameters.
type ModelDefinition struct {
	ModelID        string  `yaml:"model_id"`
	Endpoint       string  `yaml:"endpoint"`
	AuthEnvVar     string  `yaml:"auth_env_var"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// SafetySettings holds the static validation constraints applied to every
// generated sketch before it may touch the filesystem.
type SafetySettings struct {
	ForbiddenOps   []string `yaml:"forbidden_ops"`
	MaxSketchLines int      `yaml:"max_sketch_lines"`
	SafePins       []int    `yaml:"safe_pins"`
}

// DeploySettings configures the external deployment CLI.
type DeploySettings struct {
	Tool           string `yaml:"tool"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ActiveModel returns the backend selected by the local/remote flag.
func (c Config) ActiveModel() ModelDefinition {
	if c.Generator.UseLocalModel {
		return c.LocalModel
	}
	return c.RemoteModel
}

// Interval returns the inter-cycle sleep duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Generator.IntervalSeconds) * time.Second
}

// GenerateTimeout bounds a single backend call.
func (m ModelDefinition) GenerateTimeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// DeployTimeout bounds a single deployment command invocation.
func (d DeploySettings) DeployTimeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}
