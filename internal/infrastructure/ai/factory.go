package ai

import (
	"net/http"

	"sketchforge/internal/domain"
	"sketchforge/internal/ports"
)

// Factory builds the provider selected by the configuration's backend flag.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// ForConfig implements ports.ProviderFactory. The HTTP client's timeout is
// the only bound on a generation call; the loop holds no other deadline.
func (f *Factory) ForConfig(cfg domain.Config) (ports.Provider, error) {
	model := cfg.ActiveModel()
	client := &http.Client{Timeout: model.GenerateTimeout()}

	if cfg.Generator.UseLocalModel {
		return newOllamaProvider(model, client), nil
	}
	return newOpenAIProvider(model, client), nil
}

var _ ports.ProviderFactory = (*Factory)(nil)
