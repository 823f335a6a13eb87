package provider

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	"llmux/model"
	"llmux/sse"
)

// AnthropicNormalizer normalizes Anthropic Messages API responses, using the
// official SDK's event types as decode targets.
type AnthropicNormalizer struct {
	model string
}

// NewAnthropicNormalizer returns a normalizer for the Anthropic Messages
// family.
func NewAnthropicNormalizer(model string) *AnthropicNormalizer {
	return &AnthropicNormalizer{model: model}
}

// NormalizeStream implements Normalizer.NormalizeStream for the
// message_start / content_block_delta / message_delta / message_stop event
// sequence the Messages API streams.
func (n *AnthropicNormalizer) NormalizeStream(ctx context.Context, events <-chan sse.Event, emit EmitFunc) error {
	out := newEventEmitter(emit)
	// Block index → running ordinal of tool_use blocks, so tool-argument
	// fragments stay attributable to their call.
	toolIndex := make(map[int64]int)

	for {
		var ev sse.Event
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok = <-events:
		}
		if !ok || ev.Done {
			break
		}

		var event anthropic.MessageStreamEventUnion
		if err := json.Unmarshal([]byte(ev.Data), &event); err != nil {
			return &DecodeError{Provider: ProviderTypeAnthropic, Err: err}
		}

		switch variant := event.AsAny().(type) {
		case anthropic.MessageStartEvent:
			if err := out.start(variant.Message.ID); err != nil {
				return err
			}
			out.usage = convertAnthropicUsage(variant.Message.Usage)

		case anthropic.ContentBlockStartEvent:
			if variant.ContentBlock.Type == "tool_use" {
				toolIndex[variant.Index] = len(toolIndex)
			}

		case anthropic.ContentBlockDeltaEvent:
			switch delta := variant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if err := out.delta(model.TextDelta(delta.Text)); err != nil {
					return err
				}
			case anthropic.ThinkingDelta:
				if err := out.delta(model.ThinkingDelta(delta.Thinking)); err != nil {
					return err
				}
			case anthropic.InputJSONDelta:
				if err := out.delta(model.ToolArgsDelta(toolIndex[variant.Index], delta.PartialJSON)); err != nil {
					return err
				}
			}

		case anthropic.MessageDeltaEvent:
			if variant.Usage.OutputTokens > 0 {
				out.usage.OutputTokens = variant.Usage.OutputTokens
			}
			if err := out.usageUpdate(); err != nil {
				return err
			}

		case anthropic.MessageStopEvent:
			return out.end()
		}
	}

	return out.end()
}

// NormalizeResponse implements Normalizer.NormalizeResponse for a complete
// (non-streaming) Messages API response.
func (n *AnthropicNormalizer) NormalizeResponse(raw []byte, emit EmitFunc) error {
	var msg anthropic.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return &DecodeError{Provider: ProviderTypeAnthropic, Err: err}
	}

	out := newEventEmitter(emit)
	if err := out.start(msg.ID); err != nil {
		return err
	}
	out.usage = convertAnthropicUsage(msg.Usage)

	toolOrdinal := 0
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			if err := out.delta(model.TextDelta(variant.Text)); err != nil {
				return err
			}
		case anthropic.ThinkingBlock:
			if err := out.delta(model.ThinkingDelta(variant.Thinking)); err != nil {
				return err
			}
		case anthropic.ToolUseBlock:
			if err := out.delta(model.ToolArgsDelta(toolOrdinal, string(variant.Input))); err != nil {
				return err
			}
			toolOrdinal++
		}
	}

	return out.end()
}

// convertAnthropicUsage maps the SDK usage shape onto the canonical one.
// Anthropic does not report thinking tokens separately; they are included in
// output tokens.
func convertAnthropicUsage(u anthropic.Usage) model.Usage {
	return model.Usage{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		CachedTokens: u.CacheReadInputTokens,
	}
}
