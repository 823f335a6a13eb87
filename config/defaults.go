package config

const defaultDataDirectory = "~/.local/share/llmux"

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		DefaultProvider: "anthropic",
		Cache: CacheConfig{
			Mode:     "implicit",
			Strategy: "auto",
		},
	}
}

func GenerateUserConfigTemplate() string {
	return `# llmux User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Provider used when no provider is named explicitly
default_provider = "anthropic"

[[providers]]
id = "anthropic"
base_url = "https://api.anthropic.com"
model = "claude-sonnet-4-5-20250929"
api_key_env = "ANTHROPIC_API_KEY"
enabled = true

[[providers]]
id = "openai"
base_url = "https://api.openai.com/v1"
model = "gpt-4o-mini"
api_key_env = "OPENAI_API_KEY"
enabled = false

[cache]
# mode: off, implicit or explicit
mode = "implicit"
# strategy: auto, system_only or prefix_window
strategy = "auto"
# ttl = "5m"

# External tool servers, spoken to over stdio JSON-RPC
# [[tool_servers]]
# id = "filesystem"
# command = "npx"
# args = ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"]
# blocklist = ["delete_file"]
# enabled = true

[framing]
# Byte ceilings for the stdio framing decoder (0 = package defaults)
max_preamble_bytes = 0
max_message_bytes = 0
`
}
