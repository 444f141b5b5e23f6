package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sketchforge/internal/domain"
	"sketchforge/internal/pkg/filesystem"
	"sketchforge/internal/ports"
)

// FileLoader loads YAML configuration from ~/.sketchforge/config.yaml
// (overridable via SKETCHFORGE_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path reports the config file location the loader resolves to.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("SKETCHFORGE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".sketchforge", "config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// DefaultConfig returns the documented defaults for a fresh install.
func DefaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Generator: domain.GeneratorSettings{
			IntervalSeconds: domain.DefaultGenerationIntervalSeconds,
			OutputDir:       domain.DefaultOutputDir,
			UseLocalModel:   true,
		},
		LocalModel: domain.ModelDefinition{
			ModelID:        domain.DefaultLocalModelID,
			Endpoint:       domain.DefaultOllamaEndpoint,
			Temperature:    domain.DefaultTemperature,
			MaxTokens:      domain.DefaultMaxTokens,
			TimeoutSeconds: domain.DefaultGenerateTimeoutSeconds,
		},
		RemoteModel: domain.ModelDefinition{
			ModelID:        domain.DefaultRemoteModelID,
			Endpoint:       domain.DefaultOpenAIEndpoint,
			AuthEnvVar:     domain.DefaultAuthEnvVar,
			Temperature:    domain.DefaultTemperature,
			MaxTokens:      domain.DefaultMaxTokens,
			TimeoutSeconds: domain.DefaultGenerateTimeoutSeconds,
		},
		Safety: domain.SafetySettings{
			ForbiddenOps:   domain.DefaultForbiddenOps(),
			MaxSketchLines: domain.DefaultMaxSketchLines,
			SafePins:       domain.DefaultSafePins(),
		},
		Deploy: domain.DeploySettings{
			Tool:           domain.DefaultDeployTool,
			TimeoutSeconds: domain.DefaultDeployTimeoutSeconds,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Generator.IntervalSeconds == 0 {
		cfg.Generator.IntervalSeconds = domain.DefaultGenerationIntervalSeconds
	}
	if cfg.Generator.OutputDir == "" {
		cfg.Generator.OutputDir = domain.DefaultOutputDir
	}
	if cfg.LocalModel.ModelID == "" {
		cfg.LocalModel.ModelID = domain.DefaultLocalModelID
	}
	if cfg.LocalModel.Endpoint == "" {
		cfg.LocalModel.Endpoint = domain.DefaultOllamaEndpoint
	}
	if cfg.RemoteModel.ModelID == "" {
		cfg.RemoteModel.ModelID = domain.DefaultRemoteModelID
	}
	if cfg.RemoteModel.Endpoint == "" {
		cfg.RemoteModel.Endpoint = domain.DefaultOpenAIEndpoint
	}
	if cfg.RemoteModel.AuthEnvVar == "" {
		cfg.RemoteModel.AuthEnvVar = domain.DefaultAuthEnvVar
	}
	for _, model := range []*domain.ModelDefinition{&cfg.LocalModel, &cfg.RemoteModel} {
		if model.Temperature == 0 {
			model.Temperature = domain.DefaultTemperature
		}
		if model.MaxTokens == 0 {
			model.MaxTokens = domain.DefaultMaxTokens
		}
		if model.TimeoutSeconds == 0 {
			model.TimeoutSeconds = domain.DefaultGenerateTimeoutSeconds
		}
	}
	if len(cfg.Safety.ForbiddenOps) == 0 {
		cfg.Safety.ForbiddenOps = domain.DefaultForbiddenOps()
	}
	if cfg.Safety.MaxSketchLines == 0 {
		cfg.Safety.MaxSketchLines = domain.DefaultMaxSketchLines
	}
	if len(cfg.Safety.SafePins) == 0 {
		cfg.Safety.SafePins = domain.DefaultSafePins()
	}
	if cfg.Deploy.Tool == "" {
		cfg.Deploy.Tool = domain.DefaultDeployTool
	}
	if cfg.Deploy.TimeoutSeconds == 0 {
		cfg.Deploy.TimeoutSeconds = domain.DefaultDeployTimeoutSeconds
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
