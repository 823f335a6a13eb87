package provider

import (
	"context"
	"encoding/json"

	"llmux/model"
	"llmux/sse"
)

// OpenAINormalizer normalizes Chat-Completions-style responses. OpenRouter,
// Mistral, DeepSeek and most self-hosted gateways speak this format, so the
// wire structs below stay permissive: unknown fields are ignored and
// reasoning content is accepted under the common "reasoning_content" key.
type OpenAINormalizer struct {
	model string
}

// NewOpenAINormalizer returns a normalizer for the Chat Completions family.
func NewOpenAINormalizer(model string) *OpenAINormalizer {
	return &OpenAINormalizer{model: model}
}

type chatCompletionChunk struct {
	ID      string            `json:"id"`
	Choices []chatChunkChoice `json:"choices"`
	Usage   *chatUsage        `json:"usage"`
}

type chatChunkChoice struct {
	Index        int           `json:"index"`
	Delta        chatChunkData `json:"delta"`
	FinishReason string        `json:"finish_reason"`
}

type chatChunkData struct {
	Role             string             `json:"role"`
	Content          string             `json:"content"`
	ReasoningContent string             `json:"reasoning_content"`
	ToolCalls        []chatWireToolCall `json:"tool_calls"`
}

type chatWireToolCall struct {
	Index    int          `json:"index"`
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function chatWireFunc `json:"function"`
}

type chatWireFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatUsage struct {
	PromptTokens        int64 `json:"prompt_tokens"`
	CompletionTokens    int64 `json:"completion_tokens"`
	TotalTokens         int64 `json:"total_tokens"`
	PromptTokensDetails struct {
		CachedTokens int64 `json:"cached_tokens"`
	} `json:"prompt_tokens_details"`
	CompletionTokensDetails struct {
		ReasoningTokens int64 `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

type chatCompletion struct {
	ID      string       `json:"id"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage"`
}

type chatChoice struct {
	Index        int             `json:"index"`
	Message      chatChoiceBody  `json:"message"`
	FinishReason string          `json:"finish_reason"`
	Logprobs     json.RawMessage `json:"logprobs"`
}

type chatChoiceBody struct {
	Role             string             `json:"role"`
	Content          string             `json:"content"`
	ReasoningContent string             `json:"reasoning_content"`
	ToolCalls        []chatWireToolCall `json:"tool_calls"`
}

// NormalizeStream implements Normalizer.NormalizeStream. The stream ends at
// the [DONE] sentinel or when the events channel closes.
func (n *OpenAINormalizer) NormalizeStream(ctx context.Context, events <-chan sse.Event, emit EmitFunc) error {
	out := newEventEmitter(emit)

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

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
			return &DecodeError{Provider: ProviderTypeOpenAI, Err: err}
		}

		if err := out.start(chunk.ID); err != nil {
			return err
		}

		if chunk.Usage != nil {
			out.usage = convertChatUsage(chunk.Usage)
			if err := out.usageUpdate(); err != nil {
				return err
			}
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.ReasoningContent != "" {
				if err := out.delta(model.ThinkingDelta(choice.Delta.ReasoningContent)); err != nil {
					return err
				}
			}
			if choice.Delta.Content != "" {
				if err := out.delta(model.TextDelta(choice.Delta.Content)); err != nil {
					return err
				}
			}
			for _, call := range choice.Delta.ToolCalls {
				if call.Function.Arguments == "" && call.Function.Name == "" {
					continue
				}
				fragment := call.Function.Arguments
				if err := out.delta(model.ToolArgsDelta(call.Index, fragment)); err != nil {
					return err
				}
			}
		}
	}

	return out.end()
}

// NormalizeResponse implements Normalizer.NormalizeResponse for a complete
// chat completion object.
func (n *OpenAINormalizer) NormalizeResponse(raw []byte, emit EmitFunc) error {
	var completion chatCompletion
	if err := json.Unmarshal(raw, &completion); err != nil {
		return &DecodeError{Provider: ProviderTypeOpenAI, Err: err}
	}

	out := newEventEmitter(emit)
	if err := out.start(completion.ID); err != nil {
		return err
	}
	if completion.Usage != nil {
		out.usage = convertChatUsage(completion.Usage)
	}

	for _, choice := range completion.Choices {
		if choice.Message.ReasoningContent != "" {
			if err := out.delta(model.ThinkingDelta(choice.Message.ReasoningContent)); err != nil {
				return err
			}
		}
		if choice.Message.Content != "" {
			if err := out.delta(model.TextDelta(choice.Message.Content)); err != nil {
				return err
			}
		}
		for i, call := range choice.Message.ToolCalls {
			if err := out.delta(model.ToolArgsDelta(i, call.Function.Arguments)); err != nil {
				return err
			}
		}
	}

	return out.end()
}

func convertChatUsage(u *chatUsage) model.Usage {
	return model.Usage{
		InputTokens:    u.PromptTokens,
		OutputTokens:   u.CompletionTokens,
		ThinkingTokens: u.CompletionTokensDetails.ReasoningTokens,
		CachedTokens:   u.PromptTokensDetails.CachedTokens,
	}
}
