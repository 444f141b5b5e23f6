package domain

import "time"

// File permission constants
const (
	// DirectoryPermissions is the default permission for artifact directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the default permission for artifact files (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for the config file (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and interval constants
const (
	// DefaultGenerationIntervalSeconds is the pause between generation cycles
	DefaultGenerationIntervalSeconds = 120
	// DefaultGenerateTimeoutSeconds bounds one backend generation call
	DefaultGenerateTimeoutSeconds = 60
	// DefaultDeployTimeoutSeconds bounds one deployment CLI invocation
	DefaultDeployTimeoutSeconds = 30
	// DependencyProbeTimeout bounds the startup availability probes
	DependencyProbeTimeout = 5 * time.Second
)

// Generation defaults
const (
	// DefaultOutputDir is where artifact directories are created
	DefaultOutputDir = "generated_sketches"
	// DefaultLocalModelID is the Ollama model used for local generation
	DefaultLocalModelID = "codellama:7b-code"
	// DefaultOllamaEndpoint is the native Ollama generate endpoint
	DefaultOllamaEndpoint = "http://localhost:11434/api/generate"
	// DefaultRemoteModelID is the hosted model used when local generation is off
	DefaultRemoteModelID = "gpt-4"
	// DefaultOpenAIEndpoint is the hosted chat-completions endpoint
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultAuthEnvVar holds the hosted backend's API key
	DefaultAuthEnvVar = "OPENAI_API_KEY"
	// DefaultTemperature gives the model some creativity without rambling
	DefaultTemperature = 0.8
	// DefaultMaxTokens bounds the generated completion length
	DefaultMaxTokens = 1000
)

// Safety defaults
const (
	// DefaultMaxSketchLines is the sketch line budget (inclusive)
	DefaultMaxSketchLines = 100
)

// DefaultDeployTool is the external deployment CLI.
const DefaultDeployTool = "applab"

// Time formats
const (
	// DirTimestampFormat stamps artifact directory names (second resolution)
	DirTimestampFormat = "20060102_150405"
	// TimestampFormat is the standard timestamp format for metadata and logs
	TimestampFormat = time.RFC3339
)

// DefaultForbiddenOps returns the operation tokens that disqualify a sketch.
// RX/TX pin reconfiguration and unbounded busy loops brick the board;
// EEPROM writes wear it out.
func DefaultForbiddenOps() []string {
	return []string{
		"EEPROM.write",
		"pinMode(0",
		"pinMode(1",
		"while(true)",
		"while(1)",
	}
}

// DefaultSafePins returns the digital pins a generated sketch may drive.
func DefaultSafePins() []int {
	return []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
}
