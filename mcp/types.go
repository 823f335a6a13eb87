package mcp

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ServerConfig describes one external tool server. Command, Args and Env are
// carried for the orchestration layer that spawns the process; the routing
// core only reads ID and Blocklist.
type ServerConfig struct {
	ID        string
	Command   string
	Args      []string
	Env       map[string]string
	Blocklist []string
}

// blocked reports whether a tool name is excluded by the server's blocklist.
func (c ServerConfig) blocked(toolName string) bool {
	for _, name := range c.Blocklist {
		if name == toolName {
			return true
		}
	}
	return false
}

// ServerTools pairs a server with the tools discovered from it.
type ServerTools struct {
	Server ServerConfig
	Tools  []mcptypes.Tool
}

// ToolDefinition is one entry of a merged catalog.
//
// ID is "serverID:toolName", globally unique by construction. Name is the
// exposed name handed to providers: at most 64 characters and unique within
// the catalog it belongs to.
type ToolDefinition struct {
	ID          string
	Name        string
	Description string
	InputSchema mcptypes.ToolInputSchema
}

// Route resolves an exposed name back to its originating server and tool.
type Route struct {
	ServerID string
	ToolName string
}

// RouteTable maps exposed names to routes. Each catalog build owns its own
// table; tables are never shared or mutated after the build returns.
type RouteTable struct {
	routes map[string]Route
}

// Lookup resolves an exposed tool name.
func (t *RouteTable) Lookup(exposed string) (Route, bool) {
	route, ok := t.routes[exposed]
	return route, ok
}

// Len returns the number of routed tools.
func (t *RouteTable) Len() int {
	return len(t.routes)
}
