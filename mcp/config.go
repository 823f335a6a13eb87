package mcp

import (
	"llmux/config"
)

// ServerConfigsFromEntries maps enabled tool-server config entries onto
// router server configs.
func ServerConfigsFromEntries(entries []config.ToolServerEntry) []ServerConfig {
	configs := make([]ServerConfig, 0, len(entries))
	for _, entry := range entries {
		if !entry.Enabled {
			continue
		}
		configs = append(configs, ServerConfig{
			ID:        entry.ID,
			Command:   entry.Command,
			Args:      entry.Args,
			Env:       entry.Env,
			Blocklist: entry.Blocklist,
		})
	}
	return configs
}

// FrameLimitsFromConfig resolves configured framing ceilings, falling back to
// package defaults for zero values.
func FrameLimitsFromConfig(c config.FramingConfig) FrameLimits {
	limits := DefaultFrameLimits()
	if c.MaxPreambleBytes > 0 {
		limits.MaxPreamble = c.MaxPreambleBytes
	}
	if c.MaxMessageBytes > 0 {
		limits.MaxMessage = c.MaxMessageBytes
	}
	return limits
}
