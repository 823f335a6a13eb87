package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// ProviderEntry configures one LLM provider endpoint.
type ProviderEntry struct {
	ID        string `toml:"id"`
	BaseURL   string `toml:"base_url"`
	Model     string `toml:"model"`
	APIKeyEnv string `toml:"api_key_env,omitempty"`
	Enabled   bool   `toml:"enabled"`
}

// CacheConfig is the user's requested cache intent, resolved per provider by
// the provider package.
type CacheConfig struct {
	Mode     string `toml:"mode"`     // off, implicit, explicit
	Strategy string `toml:"strategy"` // auto, system_only, prefix_window
	TTL      string `toml:"ttl,omitempty"`
}

// ToolServerEntry configures one external tool server. Blocklisted tool
// names are excluded from every catalog build.
type ToolServerEntry struct {
	ID        string            `toml:"id"`
	Command   string            `toml:"command"`
	Args      []string          `toml:"args,omitempty"`
	Env       map[string]string `toml:"env,omitempty"`
	Blocklist []string          `toml:"blocklist,omitempty"`
	Enabled   bool              `toml:"enabled"`
}

// FramingConfig bounds the stdio framing decoder's buffers. Zero values mean
// the package defaults.
type FramingConfig struct {
	MaxPreambleBytes int `toml:"max_preamble_bytes,omitempty"`
	MaxMessageBytes  int `toml:"max_message_bytes,omitempty"`
}

// UserConfig is the on-disk TOML shape.
type UserConfig struct {
	DefaultProvider string            `toml:"default_provider"`
	Providers       []ProviderEntry   `toml:"providers,omitempty"`
	Cache           CacheConfig       `toml:"cache"`
	ToolServers     []ToolServerEntry `toml:"tool_servers,omitempty"`
	Framing         FramingConfig     `toml:"framing"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DataDirectory   string
	DefaultProvider string
	Providers       []ProviderEntry
	Cache           CacheConfig
	ToolServers     []ToolServerEntry
	Framing         FramingConfig
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Provider returns the entry for a provider id, or nil.
func (c *Config) Provider(id string) *ProviderEntry {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i]
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("LLMUX_PROVIDER"); provider != "" {
		c.DefaultProvider = provider
	}
	if dataDir := os.Getenv("LLMUX_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("LLMUX_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: debug output may echo request bodies
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (LLMUX_DEBUG=%s) ===", os.Getenv("LLMUX_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load resolves the runtime configuration: defaults, then the user config
// file if present, then environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:   defaultDataDirectory,
		DefaultProvider: "anthropic",
		Cache:           DefaultUserConfig().Cache,
	}
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if userCfg.DefaultProvider != "" {
		cfg.DefaultProvider = userCfg.DefaultProvider
	}
	cfg.Providers = userCfg.Providers
	cfg.Cache = userCfg.Cache
	cfg.ToolServers = userCfg.ToolServers
	cfg.Framing = userCfg.Framing

	// Env wins over file for the default provider.
	cfg.applyEnvOverrides()

	if err := EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}
