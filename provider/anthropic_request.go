package provider

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"llmux/mcp"
	"llmux/model"
)

// defaultMaxTokens is required by the Messages API on every request.
const defaultMaxTokens = 4096

// BuildAnthropicRequest converts a canonical message history into Messages
// API request parameters.
//
// The history is passed through NormalizeToolSequence first, so the ordering
// contract on tool_use/tool_result pairs holds by construction; callers run
// PreflightToolSequence over AnthropicRequestBody as the independent final
// check before transmission. Tools are surfaced under their catalog-exposed
// names. Cache-control breakpoints are placed according to the resolved
// CachePlan.
func BuildAnthropicRequest(modelID string, messages []model.Message, tools []mcp.ToolDefinition, plan CachePlan) (anthropic.MessageNewParams, error) {
	normalized := NormalizeToolSequence(messages)
	anthropicMsgs, systemBlocks := convertToAnthropicMessages(normalized)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		Messages:  anthropicMsgs,
		MaxTokens: defaultMaxTokens,
	}

	if len(systemBlocks) > 0 {
		params.System = systemBlocks
	}
	if len(tools) > 0 {
		params.Tools = mcp.ConvertToolsToAnthropic(tools)
	}

	applyCachePlan(&params, plan)
	return params, nil
}

// AnthropicRequestBody renders request parameters as the exact nested
// key/value shape that goes on the wire, the form PreflightToolSequence
// validates.
func AnthropicRequestBody(params anthropic.MessageNewParams) (map[string]any, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request params: %w", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode request params: %w", err)
	}
	return body, nil
}

// convertToAnthropicMessages converts canonical messages to Messages API
// format. System messages become system blocks; tool-role messages become
// user messages whose content leads with tool_result blocks.
func convertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			// The Messages API takes system text as a separate parameter,
			// not as a message.
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{
				Text: msg.Text(),
			})

		case model.RoleAssistant:
			blocks := convertContentParts(msg.Parts)
			for _, call := range msg.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    call.ID,
						Name:  call.Name,
						Input: call.Arguments,
					},
				})
			}
			if len(blocks) == 0 {
				continue
			}
			anthropicMsgs = append(anthropicMsgs, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})

		case model.RoleTool:
			// Result blocks must lead the message.
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.ToolResults))
			for _, res := range msg.ToolResults {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: res.ToolCallID,
						IsError:   anthropic.Bool(res.IsError),
						Content: []anthropic.ToolResultBlockParamContentUnion{
							{OfText: &anthropic.TextBlockParam{Text: res.Content}},
						},
					},
				})
			}
			blocks = append(blocks, convertContentParts(msg.Parts)...)
			if len(blocks) == 0 {
				continue
			}
			anthropicMsgs = append(anthropicMsgs, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: blocks,
			})

		default:
			blocks := convertContentParts(msg.Parts)
			if len(blocks) == 0 {
				continue
			}
			anthropicMsgs = append(anthropicMsgs, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: blocks,
			})
		}
	}

	return anthropicMsgs, systemBlocks
}

// convertContentParts maps canonical content parts onto content blocks.
// Thinking parts are stripped upstream by NormalizeToolSequence; video parts
// have no Messages API equivalent and are skipped.
func convertContentParts(parts []model.ContentPart) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range parts {
		switch part.Type {
		case model.PartText:
			if part.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(part.Text))
			}
		case model.PartImage:
			if len(part.Data) > 0 {
				blocks = append(blocks, anthropic.NewImageBlockBase64(part.MIME, base64.StdEncoding.EncodeToString(part.Data)))
			}
		}
	}
	return blocks
}

// applyCachePlan places cache_control breakpoints. system_only marks the last
// system block; prefix_window additionally marks the last content block of
// the final message so the whole leading window is cacheable.
func applyCachePlan(params *anthropic.MessageNewParams, plan CachePlan) {
	if plan.Mode == CacheModeOff || plan.Mode == "" {
		return
	}

	control := anthropic.NewCacheControlEphemeralParam()
	if plan.AnthropicTTL != "" {
		control.TTL = anthropic.CacheControlEphemeralTTL(plan.AnthropicTTL)
	}

	if len(params.System) > 0 {
		params.System[len(params.System)-1].CacheControl = control
	}

	if plan.Strategy != CacheStrategyPrefixWindow || len(params.Messages) == 0 {
		return
	}
	last := &params.Messages[len(params.Messages)-1]
	if len(last.Content) == 0 {
		return
	}
	setCacheControl(&last.Content[len(last.Content)-1], control)
}

// setCacheControl assigns cache control to whichever variant the union holds.
func setCacheControl(block *anthropic.ContentBlockParamUnion, control anthropic.CacheControlEphemeralParam) {
	switch {
	case block.OfText != nil:
		block.OfText.CacheControl = control
	case block.OfToolUse != nil:
		block.OfToolUse.CacheControl = control
	case block.OfToolResult != nil:
		block.OfToolResult.CacheControl = control
	case block.OfImage != nil:
		block.OfImage.CacheControl = control
	}
}
