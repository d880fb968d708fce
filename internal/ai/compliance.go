package ai

import "github.com/spectrumhq/spectrum/internal/core/ports"

// Ensure the backends implement the provider port.
var (
	_ ports.AIProvider = (*openaiProvider)(nil)
	_ ports.AIProvider = (*claudeProvider)(nil)
)
