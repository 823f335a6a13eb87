// Package provider normalizes heterogeneous LLM provider responses into
// llmux's canonical stream-event model.
//
// Every supported provider family (OpenAI Chat Completions, OpenAI Responses,
// Anthropic Messages, Google generateContent) implements the same Normalizer
// contract: given either one decoded non-streaming response object or a live
// server-sent-event sequence, produce one canonical StreamEvent sequence.
// The family is selected once at request-build time by declared provider
// type, never by inspecting payload shape at runtime.
//
// # Guarantees
//
// Each normalization emits exactly one message-start event first and exactly
// one terminal message-end event carrying aggregated token usage, with
// content deltas in between in arrival order. Reasoning content is always
// delivered on the thinking channel, never mixed into visible text. Malformed
// payloads fail fast with a decode error; deltas already emitted are never
// retracted.
//
// The package also owns the tool-sequencing contract Anthropic imposes on
// tool-use/tool-result pairs (see NormalizeToolSequence and
// PreflightToolSequence) and the cache-strategy resolution policy
// (ResolveCacheStrategy).
package provider

import (
	"context"
	"fmt"

	"llmux/model"
	"llmux/sse"
)

// ProviderType identifies the provider family a normalizer speaks.
type ProviderType string

const (
	ProviderTypeOpenAI          ProviderType = "openai"
	ProviderTypeOpenAIResponses ProviderType = "openai-responses"
	ProviderTypeAnthropic       ProviderType = "anthropic"
	ProviderTypeGoogle          ProviderType = "google"
)

// Config selects and parameterizes a normalizer.
type Config struct {
	Type  ProviderType
	Model string
}

// EmitFunc receives canonical events as they are produced. Returning an error
// aborts normalization immediately; the caller uses this to propagate
// consumer cancellation upstream without buffering the rest of the response.
type EmitFunc func(model.StreamEvent) error

// Normalizer converts one provider response, streamed or complete, into the
// canonical event sequence.
type Normalizer interface {
	// NormalizeResponse consumes one decoded non-streaming response body.
	NormalizeResponse(raw []byte, emit EmitFunc) error

	// NormalizeStream consumes a live event sequence, single-pass and
	// forward-only. It returns when the provider signals completion, the
	// events channel closes, ctx is cancelled, or emit fails.
	NormalizeStream(ctx context.Context, events <-chan sse.Event, emit EmitFunc) error
}

// DecodeError wraps a malformed-payload failure with the provider family and
// the payload fragment that failed, for diagnostics.
type DecodeError struct {
	Provider ProviderType
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: failed to decode payload: %v", e.Provider, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
