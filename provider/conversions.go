package provider

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"

	"llmux/model"
)

// ConvertToOllamaMessages converts canonical messages to Ollama API messages.
//
// Ollama-compatible servers take flat role/content strings, so parts are
// collapsed to their visible text; thinking parts are never sent back.
// Timestamps are not preserved; the Ollama API has no field for them.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		visible, _ := model.SplitContent(msg.Parts, "\n")
		result = append(result, api.Message{
			Role:    string(msg.Role),
			Content: visible,
		})
	}
	return result
}

// ParseToolArguments parses a JSON arguments string into a map. Providers in
// the Chat Completions family stream tool arguments as stringified JSON.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		// If parsing fails, return empty map
		return make(map[string]any)
	}
	return args
}

// ConvertOllamaToolCalls converts Ollama tool calls to canonical tool calls.
// Ollama does not issue call ids, so opaque ids are synthesized here; the
// same ids must be used when anchoring results back into the history.
func ConvertOllamaToolCalls(ollamaCalls []api.ToolCall) []model.ToolCall {
	if len(ollamaCalls) == 0 {
		return nil
	}

	result := make([]model.ToolCall, len(ollamaCalls))
	for i, call := range ollamaCalls {
		result[i] = model.ToolCall{
			ID:        uuid.NewString(),
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		}
	}
	return result
}
