package provider

import (
	"errors"
	"testing"

	"llmux/model"
)

func wireMessage(role string, blocks ...map[string]any) map[string]any {
	content := make([]any, 0, len(blocks))
	for _, b := range blocks {
		content = append(content, b)
	}
	return map[string]any{"role": role, "content": content}
}

func textBlock(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

func toolUseBlock(id, name string) map[string]any {
	return map[string]any{"type": "tool_use", "id": id, "name": name, "input": map[string]any{}}
}

func toolResultBlock(id string) map[string]any {
	return map[string]any{"type": "tool_result", "tool_use_id": id, "content": "ok"}
}

func TestPreflightToolSequence(t *testing.T) {
	tests := []struct {
		name      string
		messages  []any
		wantRule  string
		wantIndex int
	}{
		{
			name: "plain conversation passes",
			messages: []any{
				wireMessage("user", textBlock("hello")),
				wireMessage("assistant", textBlock("hi")),
			},
		},
		{
			name: "resolved tool use passes",
			messages: []any{
				wireMessage("user", textBlock("list files")),
				wireMessage("assistant", toolUseBlock("toolu_1", "fs__list")),
				wireMessage("user", toolResultBlock("toolu_1")),
				wireMessage("assistant", textBlock("done")),
			},
		},
		{
			name: "multiple results lead next message",
			messages: []any{
				wireMessage("assistant", toolUseBlock("toolu_1", "a"), toolUseBlock("toolu_2", "b")),
				wireMessage("user", toolResultBlock("toolu_1"), toolResultBlock("toolu_2"), textBlock("extra context")),
			},
		},
		{
			name: "unresolved tool use at end",
			messages: []any{
				wireMessage("user", textBlock("go")),
				wireMessage("assistant", toolUseBlock("toolu_1", "run")),
			},
			wantRule:  RuleUnresolvedToolUse,
			wantIndex: 1,
		},
		{
			name: "next message resolves nothing",
			messages: []any{
				wireMessage("assistant", toolUseBlock("toolu_1", "run")),
				wireMessage("user", textBlock("unrelated")),
			},
			wantRule:  RuleUnresolvedToolUse,
			wantIndex: 0,
		},
		{
			name: "partial resolution still unresolved",
			messages: []any{
				wireMessage("assistant", toolUseBlock("toolu_1", "a"), toolUseBlock("toolu_2", "b")),
				wireMessage("user", toolResultBlock("toolu_1")),
			},
			wantRule:  RuleUnresolvedToolUse,
			wantIndex: 0,
		},
		{
			name: "result after text in same message",
			messages: []any{
				wireMessage("assistant", toolUseBlock("toolu_1", "run")),
				wireMessage("user", textBlock("note"), toolResultBlock("toolu_1")),
			},
			wantRule:  RuleResultNotFirst,
			wantIndex: 1,
		},
		{
			name: "result without matching call",
			messages: []any{
				wireMessage("user", toolResultBlock("toolu_9")),
			},
			wantRule:  RuleOrphanToolResult,
			wantIndex: 0,
		},
		{
			name: "result separated from its call",
			messages: []any{
				wireMessage("assistant", toolUseBlock("toolu_1", "run")),
				wireMessage("user", toolResultBlock("toolu_1")),
				wireMessage("user", toolResultBlock("toolu_1")),
			},
			wantRule:  RuleOrphanToolResult,
			wantIndex: 2,
		},
		{
			name:     "empty body passes",
			messages: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PreflightToolSequence(map[string]any{"messages": tt.messages})
			if tt.wantRule == "" {
				if err != nil {
					t.Fatalf("PreflightToolSequence() error = %v, want nil", err)
				}
				return
			}

			var pfErr *PreflightError
			if !errors.As(err, &pfErr) {
				t.Fatalf("error = %v, want *PreflightError", err)
			}
			if pfErr.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", pfErr.Rule, tt.wantRule)
			}
			if pfErr.MessageIndex != tt.wantIndex {
				t.Errorf("MessageIndex = %d, want %d", pfErr.MessageIndex, tt.wantIndex)
			}
		})
	}
}

// The repaired output of NormalizeToolSequence must always pass preflight,
// even for histories that start out broken.
func TestPreflightAcceptsNormalizedRequests(t *testing.T) {
	histories := map[string][]model.Message{
		"unresolved call": {
			{Role: model.RoleUser, Parts: []model.ContentPart{model.TextPart("run it")}},
			{Role: model.RoleAssistant, ToolCalls: []model.ToolCall{{ID: "call-1", Name: "runner", Arguments: map[string]any{"cmd": "ls"}}}},
		},
		"displaced result": {
			{Role: model.RoleAssistant, ToolCalls: []model.ToolCall{{ID: "call-1", Name: "search"}}},
			{Role: model.RoleUser, Parts: []model.ContentPart{model.TextPart("anything?")}},
			{Role: model.RoleTool, ToolResults: []model.ToolResult{{ToolCallID: "call-1", Content: "hit"}}},
		},
		"orphan result": {
			{Role: model.RoleUser, Parts: []model.ContentPart{model.TextPart("hello")}},
			{Role: model.RoleTool, ToolResults: []model.ToolResult{{ToolCallID: "ghost", Content: "stale"}}},
			{Role: model.RoleAssistant, Parts: []model.ContentPart{model.TextPart("hi")}},
		},
	}

	for name, history := range histories {
		t.Run(name, func(t *testing.T) {
			params, err := BuildAnthropicRequest("claude-sonnet-4-5", history, nil, CachePlan{})
			if err != nil {
				t.Fatalf("BuildAnthropicRequest() error = %v", err)
			}
			body, err := AnthropicRequestBody(params)
			if err != nil {
				t.Fatalf("AnthropicRequestBody() error = %v", err)
			}
			if err := PreflightToolSequence(body); err != nil {
				t.Errorf("PreflightToolSequence() error = %v, want nil", err)
			}
		})
	}
}
