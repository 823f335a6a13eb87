package provider

import (
	"fmt"
)

// NewNormalizer creates a normalizer for the configured provider family.
//
// This is the centralized factory for the closed set of families. Dispatch
// happens here, once, on the declared type; no implementation ever sniffs
// payload shapes to decide what it is parsing.
//
// Returns an error if the provider type is unknown.
func NewNormalizer(cfg Config) (Normalizer, error) {
	switch cfg.Type {
	case ProviderTypeOpenAI:
		return NewOpenAINormalizer(cfg.Model), nil
	case ProviderTypeOpenAIResponses:
		return NewOpenAIResponsesNormalizer(cfg.Model), nil
	case ProviderTypeAnthropic:
		return NewAnthropicNormalizer(cfg.Model), nil
	case ProviderTypeGoogle:
		return NewGoogleNormalizer(cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider ID to a factory
// ProviderType.
//
// Mappings:
//   - "openai", "openrouter" → ProviderTypeOpenAI (OpenRouter is OpenAI-compatible)
//   - "openai-responses" → ProviderTypeOpenAIResponses
//   - "anthropic" → ProviderTypeAnthropic
//   - "google", "gemini" → ProviderTypeGoogle
//
// For unknown IDs, returns the ID cast as ProviderType (the factory will
// return an error).
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "openai", "openrouter":
		return ProviderTypeOpenAI
	case "openai-responses":
		return ProviderTypeOpenAIResponses
	case "anthropic":
		return ProviderTypeAnthropic
	case "google", "gemini":
		return ProviderTypeGoogle
	default:
		return ProviderType(id)
	}
}
