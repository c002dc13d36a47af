package service

import (
	"fmt"
	"sync"

	"visaprep/internal/agent"
)

// AgentConfigPatch carries a partial settings update. Nil fields keep their
// current value.
type AgentConfigPatch struct {
	Model               *string  `json:"model"`
	Temperature         *float64 `json:"temperature"`
	MaxTokens           *int     `json:"max_tokens"`
	RetryAttempts       *int     `json:"retry_attempts"`
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
	EnableValidation    *bool    `json:"enable_validation"`
	EnableCorrection    *bool    `json:"enable_correction"`
}

// AgentSettings holds the runtime extraction settings behind a mutex so the
// API can change them while the queue worker reads snapshots.
type AgentSettings struct {
	mu  sync.RWMutex
	cfg agent.Config
}

// NewAgentSettings creates settings seeded with the given config.
func NewAgentSettings(cfg agent.Config) *AgentSettings {
	return &AgentSettings{cfg: cfg}
}

// Get returns a snapshot of the current settings.
func (s *AgentSettings) Get() agent.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update applies a patch and returns the resulting settings.
func (s *AgentSettings) Update(patch AgentConfigPatch) (agent.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	if patch.Model != nil {
		if *patch.Model == "" {
			return agent.Config{}, fmt.Errorf("model must not be empty")
		}
		next.Model = *patch.Model
	}
	if patch.Temperature != nil {
		if *patch.Temperature < 0 || *patch.Temperature > 2 {
			return agent.Config{}, fmt.Errorf("temperature must be between 0 and 2")
		}
		next.Temperature = *patch.Temperature
	}
	if patch.MaxTokens != nil {
		if *patch.MaxTokens < 1 {
			return agent.Config{}, fmt.Errorf("max_tokens must be positive")
		}
		next.MaxTokens = *patch.MaxTokens
	}
	if patch.RetryAttempts != nil {
		if *patch.RetryAttempts < 1 {
			return agent.Config{}, fmt.Errorf("retry_attempts must be positive")
		}
		next.RetryAttempts = *patch.RetryAttempts
	}
	if patch.ConfidenceThreshold != nil {
		if *patch.ConfidenceThreshold < 0 || *patch.ConfidenceThreshold > 1 {
			return agent.Config{}, fmt.Errorf("confidence_threshold must be between 0 and 1")
		}
		next.ConfidenceThreshold = *patch.ConfidenceThreshold
	}
	if patch.EnableValidation != nil {
		next.EnableValidation = *patch.EnableValidation
	}
	if patch.EnableCorrection != nil {
		next.EnableCorrection = *patch.EnableCorrection
	}

	s.cfg = next
	return next, nil
}
