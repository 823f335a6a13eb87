package provider

import (
	"context"
	"encoding/json"

	"llmux/model"
	"llmux/sse"
)

// GoogleNormalizer normalizes generateContent-style responses, including the
// grounding metadata Google attaches to search-grounded answers. Streaming
// responses arrive as a sequence of partial generateContent bodies.
type GoogleNormalizer struct {
	model string
}

// NewGoogleNormalizer returns a normalizer for the Google grounding family.
func NewGoogleNormalizer(model string) *GoogleNormalizer {
	return &GoogleNormalizer{model: model}
}

type generateContentResponse struct {
	ResponseID    string            `json:"responseId"`
	Candidates    []googleCandidate `json:"candidates"`
	UsageMetadata *googleUsage      `json:"usageMetadata"`
}

type googleCandidate struct {
	Content           googleContent    `json:"content"`
	FinishReason      string           `json:"finishReason"`
	GroundingMetadata *googleGrounding `json:"groundingMetadata"`
	CitationMetadata  *googleCitations `json:"citationMetadata"`
}

type googleContent struct {
	Role  string       `json:"role"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text         string          `json:"text"`
	Thought      bool            `json:"thought"`
	FunctionCall *googleFuncCall `json:"functionCall"`
}

type googleFuncCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type googleGrounding struct {
	WebSearchQueries []string               `json:"webSearchQueries"`
	GroundingChunks  []googleGroundingChunk `json:"groundingChunks"`
}

type googleGroundingChunk struct {
	Web *googleWebChunk `json:"web"`
}

type googleWebChunk struct {
	URI     string `json:"uri"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type googleCitations struct {
	CitationSources []googleCitationSource `json:"citationSources"`
}

type googleCitationSource struct {
	URI string `json:"uri"`
}

type googleUsage struct {
	PromptTokenCount        int64 `json:"promptTokenCount"`
	CandidatesTokenCount    int64 `json:"candidatesTokenCount"`
	ThoughtsTokenCount      int64 `json:"thoughtsTokenCount"`
	CachedContentTokenCount int64 `json:"cachedContentTokenCount"`
}

// NormalizeStream implements Normalizer.NormalizeStream for a stream of
// partial generateContent bodies.
func (n *GoogleNormalizer) NormalizeStream(ctx context.Context, events <-chan sse.Event, emit EmitFunc) error {
	out := newEventEmitter(emit)
	sources := newSourceCollector()
	toolOrdinal := 0

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

		var body generateContentResponse
		if err := json.Unmarshal([]byte(ev.Data), &body); err != nil {
			return &DecodeError{Provider: ProviderTypeGoogle, Err: err}
		}

		if err := out.start(body.ResponseID); err != nil {
			return err
		}
		if err := n.consumeBody(&body, out, sources, &toolOrdinal); err != nil {
			return err
		}
	}

	if err := sources.flush(out); err != nil {
		return err
	}
	return out.end()
}

// NormalizeResponse implements Normalizer.NormalizeResponse for one complete
// generateContent body.
func (n *GoogleNormalizer) NormalizeResponse(raw []byte, emit EmitFunc) error {
	var body generateContentResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return &DecodeError{Provider: ProviderTypeGoogle, Err: err}
	}

	out := newEventEmitter(emit)
	sources := newSourceCollector()
	if err := out.start(body.ResponseID); err != nil {
		return err
	}

	toolOrdinal := 0
	if err := n.consumeBody(&body, out, sources, &toolOrdinal); err != nil {
		return err
	}

	if err := sources.flush(out); err != nil {
		return err
	}
	return out.end()
}

// consumeBody emits deltas for one (possibly partial) body and folds its
// usage and grounding metadata into the running state.
func (n *GoogleNormalizer) consumeBody(body *generateContentResponse, out *eventEmitter, sources *sourceCollector, toolOrdinal *int) error {
	if body.UsageMetadata != nil {
		out.usage = model.Usage{
			InputTokens:    body.UsageMetadata.PromptTokenCount,
			OutputTokens:   body.UsageMetadata.CandidatesTokenCount,
			ThinkingTokens: body.UsageMetadata.ThoughtsTokenCount,
			CachedTokens:   body.UsageMetadata.CachedContentTokenCount,
		}
	}

	for _, candidate := range body.Candidates {
		for _, part := range candidate.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				args, err := json.Marshal(part.FunctionCall.Args)
				if err != nil {
					return &DecodeError{Provider: ProviderTypeGoogle, Err: err}
				}
				if err := out.delta(model.ToolArgsDelta(*toolOrdinal, string(args))); err != nil {
					return err
				}
				*toolOrdinal++
			case part.Thought:
				if err := out.delta(model.ThinkingDelta(part.Text)); err != nil {
					return err
				}
			case part.Text != "":
				if err := out.delta(model.TextDelta(part.Text)); err != nil {
					return err
				}
			}
		}

		// Plain citation URLs and richer grounding chunks both feed the
		// sources block; richer entries win at render time.
		if candidate.CitationMetadata != nil {
			for _, src := range candidate.CitationMetadata.CitationSources {
				sources.addURL(src.URI)
			}
		}
		if candidate.GroundingMetadata != nil {
			for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
				if chunk.Web != nil {
					sources.addRich(WebSource{
						Title:   chunk.Web.Title,
						URL:     chunk.Web.URI,
						Snippet: chunk.Web.Snippet,
					})
				}
			}
		}
	}

	return nil
}
