package app

import (
	"context"

	"github.com/google/uuid"

	"sketchforge/internal/application/doctor"
	"sketchforge/internal/application/generator"
	"sketchforge/internal/domain"
	"sketchforge/internal/infrastructure/ai"
	"sketchforge/internal/infrastructure/artifact"
	"sketchforge/internal/infrastructure/config"
	"sketchforge/internal/infrastructure/deploy"
	"sketchforge/internal/infrastructure/history"
	"sketchforge/internal/infrastructure/safety"
	"sketchforge/internal/pkg/logger"
	"sketchforge/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config           domain.Config
	ConfigLoader     *config.FileLoader
	GeneratorService *generator.Service
	DoctorService    *doctor.Service
	SafetyService    ports.SafetyService
	HistoryStore     ports.HistoryRepository
	Logger           ports.Logger
	RunID            string
}

// BuildContainer constructs the dependency graph. Configuration is read
// once here and passed into every component; nothing re-reads it mid-run.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	runID := uuid.NewString()

	provider, err := ai.NewFactory().ForConfig(cfg)
	if err != nil {
		return nil, err
	}

	validator := safety.NewValidator(cfg.Safety)
	historyStore := history.NewSQLiteStore("")

	generatorService := &generator.Service{
		Config:   cfg,
		Prompts:  generator.NewPromptBuilder(cfg.Safety, nil),
		Provider: provider,
		Extract:  ai.ExtractCode,
		Safety:   validator,
		Store:    artifact.NewWriter(cfg, runID),
		Deployer: deploy.NewRunner(cfg.Deploy),
		History:  historyStore,
		Logger:   log,
		RunID:    runID,
	}

	return &Container{
		Config:           cfg,
		ConfigLoader:     cfgLoader,
		GeneratorService: generatorService,
		DoctorService:    doctor.NewService(cfg),
		SafetyService:    validator,
		HistoryStore:     historyStore,
		Logger:           log,
		RunID:            runID,
	}, nil
}
