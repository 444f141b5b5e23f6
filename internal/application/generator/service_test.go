package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sketchforge/internal/domain"
	"sketchforge/internal/infrastructure/ai"
	"sketchforge/internal/infrastructure/safety"
	"sketchforge/internal/ports"
)

const validSketchReply = "Here you go:\n```cpp\nvoid setup() {\n  pinMode(9, OUTPUT);\n}\n\nvoid loop() {\n  int x = 0;\n  while (x < 3) {\n    delay(100);\n    x++;\n  }\n}\n```"

type scriptStep struct {
	text string
	err  error
}

// scriptedProvider replays canned backend responses and cancels the run
// context once the script is exhausted.
type scriptedProvider struct {
	steps  []scriptStep
	calls  int
	cancel context.CancelFunc
}

func (p *scriptedProvider) Name() string                  { return "scripted" }
func (p *scriptedProvider) Model() domain.ModelDefinition { return domain.ModelDefinition{ModelID: "test-model"} }

func (p *scriptedProvider) Generate(context.Context, string) (string, error) {
	if p.calls >= len(p.steps) {
		p.cancel()
		return "", errors.New("script exhausted")
	}
	step := p.steps[p.calls]
	p.calls++
	return step.text, step.err
}

type recordingStore struct {
	numbers []int
	codes   []string
	err     error
}

func (s *recordingStore) Write(artifact domain.Artifact, sketchNumber int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.numbers = append(s.numbers, sketchNumber)
	s.codes = append(s.codes, artifact.Code)
	return fmt.Sprintf("out/sketch_%04d", sketchNumber), nil
}

type stubDeployer struct {
	result domain.DeployResult
	dirs   []string
}

func (d *stubDeployer) Deploy(_ context.Context, artifactDir string) domain.DeployResult {
	d.dirs = append(d.dirs, artifactDir)
	return d.result
}

type memoryHistory struct {
	records []domain.CycleRecord
}

func (h *memoryHistory) Save(record domain.CycleRecord) error {
	h.records = append(h.records, record)
	return nil
}

func (h *memoryHistory) Recent(int) ([]domain.CycleRecord, error) {
	return h.records, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func newTestService(t *testing.T, steps []scriptStep) (*Service, *scriptedProvider, *recordingStore, *stubDeployer, *memoryHistory) {
	t.Helper()

	safetySettings := domain.SafetySettings{
		ForbiddenOps:   domain.DefaultForbiddenOps(),
		MaxSketchLines: domain.DefaultMaxSketchLines,
		SafePins:       domain.DefaultSafePins(),
	}

	provider := &scriptedProvider{steps: steps}
	store := &recordingStore{}
	deployer := &stubDeployer{result: domain.DeployResult{Outcome: domain.DeploySucceeded}}
	hist := &memoryHistory{}

	svc := &Service{
		Config: domain.Config{
			Generator: domain.GeneratorSettings{IntervalSeconds: 0, OutputDir: "out"},
			Safety:    safetySettings,
		},
		Prompts:  NewPromptBuilder(safetySettings, nil),
		Provider: provider,
		Extract:  ai.ExtractCode,
		Safety:   safety.NewValidator(safetySettings),
		Store:    store,
		Deployer: deployer,
		History:  hist,
		Logger:   nopLogger{},
		RunID:    "test-run",
	}
	return svc, provider, store, deployer, hist
}

func runService(t *testing.T, svc *Service, provider *scriptedProvider) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	provider.cancel = cancel
	if err := svc.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestLoopValidSketchIsPersistedAndDeployed(t *testing.T) {
	svc, provider, store, deployer, hist := newTestService(t, []scriptStep{
		{text: validSketchReply},
	})

	runService(t, svc, provider)

	if len(store.numbers) != 1 || store.numbers[0] != 1 {
		t.Fatalf("expected one persisted artifact numbered 1, got %v", store.numbers)
	}
	if len(deployer.dirs) != 1 {
		t.Fatalf("expected one deployment, got %d", len(deployer.dirs))
	}
	if len(hist.records) != 1 || !hist.records[0].Deployed {
		t.Fatalf("expected one deployed history record, got %+v", hist.records)
	}
	if code := store.codes[0]; code != ai.ExtractCode(validSketchReply) {
		t.Errorf("persisted code was not the extracted block: %q", code)
	}
}

func TestLoopUnsafeSketchNeverPersistedAndCounterHeld(t *testing.T) {
	svc, provider, store, deployer, _ := newTestService(t, []scriptStep{
		{text: "```cpp\nvoid setup() {}\nvoid loop() {\n  EEPROM.write(0, 1);\n}\n```"},
		{text: validSketchReply},
	})

	runService(t, svc, provider)

	// The failed cycle is retried, not consumed: the valid sketch still
	// gets number 1.
	if len(store.numbers) != 1 || store.numbers[0] != 1 {
		t.Fatalf("expected numbers [1], got %v", store.numbers)
	}
	if len(deployer.dirs) != 1 {
		t.Fatalf("deployer should only see the valid sketch, got %d calls", len(deployer.dirs))
	}
}

func TestLoopGenerationFailureSkipsPipeline(t *testing.T) {
	svc, provider, store, deployer, _ := newTestService(t, []scriptStep{
		{err: errors.New("connection timed out")},
		{text: validSketchReply},
	})

	runService(t, svc, provider)

	if len(store.numbers) != 1 || store.numbers[0] != 1 {
		t.Fatalf("expected numbers [1] after retried failure, got %v", store.numbers)
	}
	if len(deployer.dirs) != 1 {
		t.Fatalf("expected one deployment, got %d", len(deployer.dirs))
	}
}

func TestLoopDeploymentFailureStillAdvancesCounter(t *testing.T) {
	svc, provider, store, deployer, hist := newTestService(t, []scriptStep{
		{text: validSketchReply},
		{text: validSketchReply},
	})
	deployer.result = domain.DeployResult{Outcome: domain.DeployFailed, ExitCode: 1, Stderr: "board not found"}

	runService(t, svc, provider)

	if len(store.numbers) != 2 || store.numbers[0] != 1 || store.numbers[1] != 2 {
		t.Fatalf("expected numbers [1 2], got %v", store.numbers)
	}
	for _, rec := range hist.records {
		if rec.Deployed {
			t.Errorf("record %d marked deployed despite failure", rec.SketchNumber)
		}
	}
	if len(deployer.dirs) != 2 {
		t.Fatalf("expected two deployment attempts, got %d", len(deployer.dirs))
	}
}

func TestLoopWriteFailureSkipsDeploymentButAdvances(t *testing.T) {
	svc, provider, store, deployer, hist := newTestService(t, []scriptStep{
		{text: validSketchReply},
		{text: validSketchReply},
	})
	store.err = errors.New("disk full")

	runService(t, svc, provider)

	if len(deployer.dirs) != 0 {
		t.Fatalf("deployer must not run after a write failure, got %d calls", len(deployer.dirs))
	}
	// Both cycles completed: the counter advanced through the failure.
	if len(hist.records) != 2 || hist.records[1].SketchNumber != 2 {
		t.Fatalf("expected two records ending at sketch 2, got %+v", hist.records)
	}
}

var _ ports.Provider = (*scriptedProvider)(nil)
var _ ports.ArtifactStore = (*recordingStore)(nil)
var _ ports.Deployer = (*stubDeployer)(nil)
var _ ports.HistoryRepository = (*memoryHistory)(nil)
