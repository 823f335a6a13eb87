package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUserConfigCreatesTemplate(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig() error = %v", err)
	}
	if cfg.DefaultProvider != "anthropic" {
		t.Errorf("DefaultProvider = %q, want %q", cfg.DefaultProvider, "anthropic")
	}
	if cfg.Cache.Mode != "implicit" {
		t.Errorf("Cache.Mode = %q, want %q", cfg.Cache.Mode, "implicit")
	}

	configPath := filepath.Join(dataDir, "config.toml")
	if !FileExists(configPath) {
		t.Fatal("template config.toml was not written")
	}
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config perms = %o, want 0600", perm)
	}
}

func TestSaveAndLoadUserConfigRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	want := &UserConfig{
		DefaultProvider: "openai",
		Providers: []ProviderEntry{
			{ID: "openai", BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini", APIKeyEnv: "OPENAI_API_KEY", Enabled: true},
		},
		Cache: CacheConfig{Mode: "explicit", Strategy: "prefix_window", TTL: "30m"},
		ToolServers: []ToolServerEntry{
			{ID: "fs", Command: "mcp-fs", Args: []string{"--root", "/tmp"}, Blocklist: []string{"delete_file"}, Enabled: true},
		},
		Framing: FramingConfig{MaxPreambleBytes: 2048, MaxMessageBytes: 65536},
	}

	if err := SaveUserConfig(want, dataDir); err != nil {
		t.Fatalf("SaveUserConfig() error = %v", err)
	}

	got, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig() error = %v", err)
	}
	if got.DefaultProvider != "openai" {
		t.Errorf("DefaultProvider = %q", got.DefaultProvider)
	}
	if len(got.Providers) != 1 || got.Providers[0].Model != "gpt-4o-mini" {
		t.Errorf("Providers = %+v", got.Providers)
	}
	if got.Cache != want.Cache {
		t.Errorf("Cache = %+v, want %+v", got.Cache, want.Cache)
	}
	if len(got.ToolServers) != 1 || got.ToolServers[0].Blocklist[0] != "delete_file" {
		t.Errorf("ToolServers = %+v", got.ToolServers)
	}
	if got.Framing != want.Framing {
		t.Errorf("Framing = %+v, want %+v", got.Framing, want.Framing)
	}
}

func TestLoadUserConfigFromPathMissing(t *testing.T) {
	cfg, err := LoadUserConfigFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadUserConfigFromPath() error = %v", err)
	}
	if cfg != nil {
		t.Errorf("cfg = %+v, want nil", cfg)
	}
}

func TestGenerateUserConfigTemplateParses(t *testing.T) {
	dataDir := t.TempDir()
	if err := CreateDefaultUserConfig(dataDir); err != nil {
		t.Fatalf("CreateDefaultUserConfig() error = %v", err)
	}

	cfg, err := LoadUserConfigFromPath(filepath.Join(dataDir, "config.toml"))
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if len(cfg.Providers) != 2 {
		t.Errorf("Providers = %d, want 2", len(cfg.Providers))
	}
	if cfg.Providers[0].ID != "anthropic" || !cfg.Providers[0].Enabled {
		t.Errorf("Providers[0] = %+v", cfg.Providers[0])
	}
}
