package agent

import (
	"fmt"

	"visaprep/internal/config"
	"visaprep/internal/port"
)

// ProviderFactory is a function that creates a ModelClient from a provider config.
type ProviderFactory func(cfg *config.ModelProviderConfig) (port.ModelClient, error)

// registry of model provider factories, populated by init() in each
// provider package.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a model provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewModelClient creates a ModelClient from a provider config using the
// registered factory.
func NewModelClient(cfg *config.ModelProviderConfig) (port.ModelClient, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
