package mcp

import (
	"reflect"
	"testing"

	"llmux/config"
)

func TestServerConfigsFromEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []config.ToolServerEntry
		want    []ServerConfig
	}{
		{
			name:    "no entries",
			entries: nil,
			want:    []ServerConfig{},
		},
		{
			name: "disabled entries are skipped",
			entries: []config.ToolServerEntry{
				{ID: "fs", Command: "fs-server", Enabled: true},
				{ID: "legacy", Command: "legacy-server", Enabled: false},
			},
			want: []ServerConfig{
				{ID: "fs", Command: "fs-server"},
			},
		},
		{
			name: "all fields carry over",
			entries: []config.ToolServerEntry{
				{
					ID:        "web",
					Command:   "npx",
					Args:      []string{"-y", "web-server"},
					Env:       map[string]string{"API_KEY": "x"},
					Blocklist: []string{"delete_page"},
					Enabled:   true,
				},
			},
			want: []ServerConfig{
				{
					ID:        "web",
					Command:   "npx",
					Args:      []string{"-y", "web-server"},
					Env:       map[string]string{"API_KEY": "x"},
					Blocklist: []string{"delete_page"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ServerConfigsFromEntries(tt.entries)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ServerConfigsFromEntries() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFrameLimitsFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.FramingConfig
		want FrameLimits
	}{
		{
			name: "zero values fall back to defaults",
			cfg:  config.FramingConfig{},
			want: FrameLimits{MaxPreamble: DefaultMaxPreamble, MaxMessage: DefaultMaxMessage},
		},
		{
			name: "preamble override keeps default message limit",
			cfg:  config.FramingConfig{MaxPreambleBytes: 4096},
			want: FrameLimits{MaxPreamble: 4096, MaxMessage: DefaultMaxMessage},
		},
		{
			name: "both overridden",
			cfg:  config.FramingConfig{MaxPreambleBytes: 2048, MaxMessageBytes: 1 << 20},
			want: FrameLimits{MaxPreamble: 2048, MaxMessage: 1 << 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrameLimitsFromConfig(tt.cfg); got != tt.want {
				t.Errorf("FrameLimitsFromConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
