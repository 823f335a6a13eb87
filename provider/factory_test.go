package provider

import (
	"testing"
)

func TestNewNormalizer(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  bool
		validate func(t *testing.T, n Normalizer)
	}{
		{
			name: "openai",
			cfg:  Config{Type: ProviderTypeOpenAI, Model: "gpt-4.1"},
			validate: func(t *testing.T, n Normalizer) {
				if _, ok := n.(*OpenAINormalizer); !ok {
					t.Errorf("got %T, want *OpenAINormalizer", n)
				}
			},
		},
		{
			name: "openai responses",
			cfg:  Config{Type: ProviderTypeOpenAIResponses, Model: "gpt-5"},
			validate: func(t *testing.T, n Normalizer) {
				if _, ok := n.(*OpenAIResponsesNormalizer); !ok {
					t.Errorf("got %T, want *OpenAIResponsesNormalizer", n)
				}
			},
		},
		{
			name: "anthropic",
			cfg:  Config{Type: ProviderTypeAnthropic, Model: "claude-sonnet-4-5"},
			validate: func(t *testing.T, n Normalizer) {
				if _, ok := n.(*AnthropicNormalizer); !ok {
					t.Errorf("got %T, want *AnthropicNormalizer", n)
				}
			},
		},
		{
			name: "google",
			cfg:  Config{Type: ProviderTypeGoogle, Model: "gemini-2.5-pro"},
			validate: func(t *testing.T, n Normalizer) {
				if _, ok := n.(*GoogleNormalizer); !ok {
					t.Errorf("got %T, want *GoogleNormalizer", n)
				}
			},
		},
		{
			name:    "unknown type",
			cfg:     Config{Type: "mystery", Model: "m"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNormalizer(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown type")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewNormalizer() error = %v", err)
			}
			tt.validate(t, n)
		})
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := []struct {
		id   string
		want ProviderType
	}{
		{"openai", ProviderTypeOpenAI},
		{"openrouter", ProviderTypeOpenAI},
		{"openai-responses", ProviderTypeOpenAIResponses},
		{"anthropic", ProviderTypeAnthropic},
		{"google", ProviderTypeGoogle},
		{"gemini", ProviderTypeGoogle},
		{"custom-endpoint", ProviderType("custom-endpoint")},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := MapProviderIDToType(tt.id); got != tt.want {
				t.Errorf("MapProviderIDToType(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
