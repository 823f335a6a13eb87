package provider

import (
	"llmux/model"
)

// missingResultPlaceholder fills synthesized error results for tool calls the
// history never resolved.
const missingResultPlaceholder = "Tool call did not return a result."

// NormalizeToolSequence repairs a message history so it satisfies the
// ordering contract Anthropic enforces on tool invocations: every tool-use
// block in an assistant turn must be resolved by a matching result block at
// the head of the immediately following message.
//
// The transform is pure: the input slice and its messages are not mutated.
// It applies four rules:
//
//  1. Thinking parts are stripped from assistant messages; visible text is
//     retained whether or not the message carries tool calls.
//  2. A tool call with no result anywhere in the history gains a synthesized
//     error result referencing its id.
//  3. An existing result that is out of position (before its call, or
//     separated from it) is relocated to directly follow the call, content
//     and error flag unchanged.
//  4. Result blocks with no corresponding preceding tool call are dropped;
//     there is no valid anchor to relocate them to.
//
// All other message order is preserved.
func NormalizeToolSequence(messages []model.Message) []model.Message {
	// Index every existing result by call id. First occurrence wins so a
	// duplicated result cannot resolve one call twice.
	results := make(map[string]model.ToolResult)
	for _, msg := range messages {
		for _, res := range msg.ToolResults {
			if _, ok := results[res.ToolCallID]; !ok {
				results[res.ToolCallID] = res
			}
		}
	}

	out := make([]model.Message, 0, len(messages))
	for _, msg := range messages {
		rebuilt := msg
		rebuilt.ToolResults = nil

		if msg.Role == model.RoleAssistant {
			rebuilt.Parts = stripThinking(msg.Parts)
		} else {
			rebuilt.Parts = msg.Parts
		}

		// A message that carried only results contributes nothing once its
		// results are re-anchored below.
		if len(rebuilt.Parts) == 0 && len(rebuilt.ToolCalls) == 0 && len(msg.ToolResults) > 0 {
			continue
		}
		out = append(out, rebuilt)

		if msg.Role != model.RoleAssistant || len(msg.ToolCalls) == 0 {
			continue
		}

		// Anchor one tool message directly after the assistant turn, carrying
		// results in call order: preserved where the history had one,
		// synthesized errors where it did not.
		resolution := model.Message{Role: model.RoleTool, Timestamp: msg.Timestamp}
		for _, call := range msg.ToolCalls {
			if res, ok := results[call.ID]; ok {
				resolution.ToolResults = append(resolution.ToolResults, res)
				continue
			}
			resolution.ToolResults = append(resolution.ToolResults, model.ToolResult{
				ToolCallID: call.ID,
				Content:    missingResultPlaceholder,
				IsError:    true,
			})
		}
		out = append(out, resolution)
	}

	return out
}

// stripThinking returns parts with thinking blocks removed.
func stripThinking(parts []model.ContentPart) []model.ContentPart {
	kept := make([]model.ContentPart, 0, len(parts))
	for _, part := range parts {
		if part.Type == model.PartThinking {
			continue
		}
		kept = append(kept, part)
	}
	return kept
}
