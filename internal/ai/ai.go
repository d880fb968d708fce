// Package ai implements the political-analysis backends. All backends share
// one prompt/parse layer and differ only in transport: Groq and OpenAI speak
// the OpenAI chat API, Claude speaks the Anthropic messages API.
package ai

import (
	"fmt"

	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
	"github.com/spectrumhq/spectrum/internal/core/ports"
)

// Provider names. The name is a cache-key dimension, so it must stay stable
// across releases.
const (
	ProviderGroq   = "groq"
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
)

// Task labels for metrics.
const (
	taskLeaning   = "political_leaning"
	taskTopics    = "extract_topics"
	taskKeyPoints = "extract_key_points"
	taskCompare   = "compare_points"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Registry holds the configured backends and resolves the default one.
type Registry struct {
	providers   map[string]ports.AIProvider
	defaultName string
}

// NewRegistry builds a registry from the available backends. Providers that
// are not configured (missing API key) should not be registered.
func NewRegistry(defaultName string) *Registry {
	return &Registry{
		providers:   make(map[string]ports.AIProvider),
		defaultName: defaultName,
	}
}

// Register adds a backend.
func (r *Registry) Register(p ports.AIProvider) {
	r.providers[p.Name()] = p
}

// Get returns the named backend.
func (r *Registry) Get(name string) (ports.AIProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cerrors.ErrProviderUnavailable, name)
	}

	return p, nil
}

// Default returns the backend configured as default.
func (r *Registry) Default() (ports.AIProvider, error) {
	return r.Get(r.defaultName)
}

// Names lists the registered backend names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}

	return names
}
