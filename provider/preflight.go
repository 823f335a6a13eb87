package provider

import (
	"fmt"
)

// Preflight rules, named in PreflightError.Rule.
const (
	// RuleUnresolvedToolUse: an assistant message issues tool_use blocks and
	// the next message does not resolve all of them.
	RuleUnresolvedToolUse = "tool_use_without_result"
	// RuleResultNotFirst: a tool_result block appears after non-result
	// content in its message.
	RuleResultNotFirst = "tool_result_not_first"
	// RuleOrphanToolResult: a tool_result references an id that is not a
	// tool_use of the immediately preceding assistant message.
	RuleOrphanToolResult = "tool_result_without_matching_call"
)

// PreflightError identifies the message and rule a request body violates.
type PreflightError struct {
	MessageIndex int
	Rule         string
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("preflight: message %d violates %s", e.MessageIndex, e.Rule)
}

// PreflightToolSequence is the final, non-mutating check run on an assembled
// request body before transmission. It operates on the exact nested shape
// that goes on the wire, a "messages" list of role/content entries whose
// content blocks carry "type" and "id"/"tool_use_id" keys, so it stays
// independent of the normalizer it double-checks. It fails as soon as it
// detects a violation of the tool-sequencing contract.
func PreflightToolSequence(body map[string]any) error {
	rawMessages, _ := body["messages"].([]any)

	// Tool-use ids issued by the immediately preceding assistant message
	// that are still awaiting a result.
	pending := make(map[string]bool)
	pendingOwner := -1

	for i, rawMsg := range rawMessages {
		msg, _ := rawMsg.(map[string]any)
		role, _ := msg["role"].(string)
		blocks, _ := msg["content"].([]any)

		resolved, err := checkResultBlocks(i, blocks, pending)
		if err != nil {
			return err
		}
		if len(pending) > resolved {
			return &PreflightError{MessageIndex: pendingOwner, Rule: RuleUnresolvedToolUse}
		}

		pending = make(map[string]bool)
		pendingOwner = -1
		if role == "assistant" {
			for _, rawBlock := range blocks {
				block, _ := rawBlock.(map[string]any)
				if blockType, _ := block["type"].(string); blockType != "tool_use" {
					continue
				}
				if id, _ := block["id"].(string); id != "" {
					pending[id] = true
					pendingOwner = i
				}
			}
		}
	}

	if len(pending) > 0 {
		return &PreflightError{MessageIndex: pendingOwner, Rule: RuleUnresolvedToolUse}
	}
	return nil
}

// checkResultBlocks validates the tool_result blocks of one message against
// the pending tool_use ids, returning how many it resolved. Results must form
// a prefix of the content list and reference only pending ids.
func checkResultBlocks(msgIndex int, blocks []any, pending map[string]bool) (int, error) {
	resolved := 0
	seenOther := false

	for _, rawBlock := range blocks {
		block, _ := rawBlock.(map[string]any)
		blockType, _ := block["type"].(string)

		if blockType != "tool_result" {
			seenOther = true
			continue
		}
		if seenOther {
			return resolved, &PreflightError{MessageIndex: msgIndex, Rule: RuleResultNotFirst}
		}

		id, _ := block["tool_use_id"].(string)
		if !pending[id] {
			return resolved, &PreflightError{MessageIndex: msgIndex, Rule: RuleOrphanToolResult}
		}
		pending[id] = false
		resolved++
	}

	return resolved, nil
}
