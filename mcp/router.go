package mcp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"llmux/config"
)

// MaxExposedNameLen is the hard ceiling providers place on tool names.
const MaxExposedNameLen = 64

// hashSuffixLen is the hex length of the collision-resistant suffix appended
// when plain truncation would collide.
const hashSuffixLen = 8

// maxHashAttempts bounds the salted re-hash walk when a hashed name is itself
// taken, e.g. by an adversarially chosen plain name.
const maxHashAttempts = 16

// Catalog is the output of one router build: a deduplicated ordered tool list
// and the table that routes exposed names back to their origin.
type Catalog struct {
	Tools  []ToolDefinition
	Routes *RouteTable
}

// BuildCatalog merges tool catalogs discovered from many servers into one
// collision-free namespace.
//
// Each build is a pure function of its input: servers are processed in
// sorted-by-ID order regardless of discovery completion order, so the same
// input set always derives the same exposed names. Blocklisted tools are
// excluded entirely; exact duplicates (same server, same tool name) are
// dropped. Exposed names are at most MaxExposedNameLen characters and unique
// across the whole build; when plain truncation of the namespaced name would
// collide, the name falls back to a truncated prefix plus a hash suffix of
// the full id, salted and re-derived if the hashed name is itself taken. A
// collision surviving the bounded re-hash walk is an internal invariant
// violation, not a recoverable condition.
func BuildCatalog(servers []ServerTools) (*Catalog, error) {
	ordered := make([]ServerTools, len(servers))
	copy(ordered, servers)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Server.ID < ordered[j].Server.ID
	})

	catalog := &Catalog{
		Routes: &RouteTable{routes: make(map[string]Route)},
	}
	taken := make(map[string]bool)
	seen := make(map[string]bool)

	for _, st := range ordered {
		for _, tool := range st.Tools {
			if st.Server.blocked(tool.Name) {
				continue
			}

			id := st.Server.ID + ":" + tool.Name
			if seen[id] {
				continue
			}
			seen[id] = true

			name, err := deriveExposedName(st.Server.ID, tool.Name, taken)
			if err != nil {
				return nil, err
			}
			taken[name] = true

			catalog.Tools = append(catalog.Tools, ToolDefinition{
				ID:          id,
				Name:        name,
				Description: tool.Description,
				InputSchema: tool.InputSchema,
			})
			catalog.Routes.routes[name] = Route{ServerID: st.Server.ID, ToolName: tool.Name}
		}
	}

	return catalog, nil
}

// deriveExposedName combines server id and tool name deterministically,
// normalizes to the allowed character set and bounds the length. Plain
// truncation is preferred; a hash suffix is appended only when truncation
// would collide within this build.
func deriveExposedName(serverID, toolName string, taken map[string]bool) (string, error) {
	base := truncate(sanitizeName(serverID+"__"+toolName), MaxExposedNameLen)
	if base != "" && !taken[base] {
		return base, nil
	}

	for salt := 0; salt < maxHashAttempts; salt++ {
		hashed := hashedName(serverID, toolName, salt)
		if taken[hashed] {
			continue
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Router] name %q taken, hashing %s:%s -> %q", base, serverID, toolName, hashed)
		}
		return hashed, nil
	}
	return "", fmt.Errorf("tool name collision after hash fallback: %s:%s", serverID, toolName)
}

// hashedName truncates the sanitized name to leave room for a SHA-256 suffix
// of the full "serverID:toolName" id, which differs for every distinct tool
// in a build. A non-zero salt varies the suffix for re-hash attempts.
func hashedName(serverID, toolName string, salt int) string {
	id := serverID + ":" + toolName
	if salt > 0 {
		id += "#" + strconv.Itoa(salt)
	}
	sum := sha256.Sum256([]byte(id))
	suffix := hex.EncodeToString(sum[:])[:hashSuffixLen]
	prefix := truncate(sanitizeName(serverID+"__"+toolName), MaxExposedNameLen-hashSuffixLen-1)
	return prefix + "_" + suffix
}

// sanitizeName maps a namespaced name onto the provider-accepted character
// set [a-zA-Z0-9_-].
func sanitizeName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
