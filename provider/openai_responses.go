package provider

import (
	"context"
	"encoding/json"

	"llmux/model"
	"llmux/sse"
)

// OpenAIResponsesNormalizer normalizes Responses-API-style payloads: typed
// stream events ("response.output_text.delta", ...) and an output-item list
// in the non-streaming form. URL citations attached to output text become
// the sources block.
type OpenAIResponsesNormalizer struct {
	model string
}

// NewOpenAIResponsesNormalizer returns a normalizer for the OpenAI Responses
// family.
func NewOpenAIResponsesNormalizer(model string) *OpenAIResponsesNormalizer {
	return &OpenAIResponsesNormalizer{model: model}
}

type responsesStreamEvent struct {
	Type        string               `json:"type"`
	Delta       string               `json:"delta"`
	OutputIndex int                  `json:"output_index"`
	Item        *responsesOutput     `json:"item"`
	Response    *responsesBody       `json:"response"`
	Annotation  *responsesAnnotation `json:"annotation"`
}

type responsesBody struct {
	ID     string               `json:"id"`
	Output []responsesOutput    `json:"output"`
	Usage  *responsesUsageShape `json:"usage"`
}

type responsesOutput struct {
	Type      string             `json:"type"`
	CallID    string             `json:"call_id"`
	Name      string             `json:"name"`
	Arguments string             `json:"arguments"`
	Content   []responsesContent `json:"content"`
	Summary   []responsesContent `json:"summary"`
}

type responsesContent struct {
	Type        string                `json:"type"`
	Text        string                `json:"text"`
	Annotations []responsesAnnotation `json:"annotations"`
}

type responsesAnnotation struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type responsesUsageShape struct {
	InputTokens        int64 `json:"input_tokens"`
	OutputTokens       int64 `json:"output_tokens"`
	InputTokensDetails struct {
		CachedTokens int64 `json:"cached_tokens"`
	} `json:"input_tokens_details"`
	OutputTokensDetails struct {
		ReasoningTokens int64 `json:"reasoning_tokens"`
	} `json:"output_tokens_details"`
}

// NormalizeStream implements Normalizer.NormalizeStream for the typed event
// stream. The event type is read from the payload body; the SSE event name
// mirrors it and is not needed.
func (n *OpenAIResponsesNormalizer) NormalizeStream(ctx context.Context, events <-chan sse.Event, emit EmitFunc) error {
	out := newEventEmitter(emit)
	sources := newSourceCollector()
	// Output index → running ordinal of function-call items.
	toolIndex := make(map[int]int)

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

		var event responsesStreamEvent
		if err := json.Unmarshal([]byte(ev.Data), &event); err != nil {
			return &DecodeError{Provider: ProviderTypeOpenAIResponses, Err: err}
		}

		switch event.Type {
		case "response.created":
			id := ""
			if event.Response != nil {
				id = event.Response.ID
			}
			if err := out.start(id); err != nil {
				return err
			}

		case "response.output_text.delta":
			if err := out.delta(model.TextDelta(event.Delta)); err != nil {
				return err
			}

		case "response.reasoning_summary_text.delta", "response.reasoning_text.delta":
			if err := out.delta(model.ThinkingDelta(event.Delta)); err != nil {
				return err
			}

		case "response.output_item.added":
			// Only function-call items claim a tool ordinal; message and
			// reasoning items share the same output index space.
			if event.Item != nil && event.Item.Type == "function_call" {
				toolIndex[event.OutputIndex] = len(toolIndex)
			}

		case "response.function_call_arguments.delta":
			if err := out.delta(model.ToolArgsDelta(toolIndex[event.OutputIndex], event.Delta)); err != nil {
				return err
			}

		case "response.output_text.annotation.added":
			if event.Annotation != nil && event.Annotation.Type == "url_citation" {
				sources.addRich(WebSource{Title: event.Annotation.Title, URL: event.Annotation.URL})
			}

		case "response.completed":
			if event.Response != nil && event.Response.Usage != nil {
				out.usage = convertResponsesUsage(event.Response.Usage)
			}
			if err := sources.flush(out); err != nil {
				return err
			}
			return out.end()
		}
	}

	if err := sources.flush(out); err != nil {
		return err
	}
	return out.end()
}

// NormalizeResponse implements Normalizer.NormalizeResponse for a complete
// Responses API body.
func (n *OpenAIResponsesNormalizer) NormalizeResponse(raw []byte, emit EmitFunc) error {
	var body responsesBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return &DecodeError{Provider: ProviderTypeOpenAIResponses, Err: err}
	}

	out := newEventEmitter(emit)
	sources := newSourceCollector()
	if err := out.start(body.ID); err != nil {
		return err
	}
	if body.Usage != nil {
		out.usage = convertResponsesUsage(body.Usage)
	}

	toolOrdinal := 0
	for _, item := range body.Output {
		switch item.Type {
		case "message":
			for _, content := range item.Content {
				if content.Type != "output_text" {
					continue
				}
				if err := out.delta(model.TextDelta(content.Text)); err != nil {
					return err
				}
				for _, ann := range content.Annotations {
					if ann.Type == "url_citation" {
						sources.addRich(WebSource{Title: ann.Title, URL: ann.URL})
					}
				}
			}
		case "reasoning":
			for _, summary := range item.Summary {
				if err := out.delta(model.ThinkingDelta(summary.Text)); err != nil {
					return err
				}
			}
		case "function_call":
			if err := out.delta(model.ToolArgsDelta(toolOrdinal, item.Arguments)); err != nil {
				return err
			}
			toolOrdinal++
		}
	}

	if err := sources.flush(out); err != nil {
		return err
	}
	return out.end()
}

func convertResponsesUsage(u *responsesUsageShape) model.Usage {
	return model.Usage{
		InputTokens:    u.InputTokens,
		OutputTokens:   u.OutputTokens,
		ThinkingTokens: u.OutputTokensDetails.ReasoningTokens,
		CachedTokens:   u.InputTokensDetails.CachedTokens,
	}
}
