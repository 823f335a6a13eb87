// Package model defines the provider-agnostic conversation types that every
// part of llmux speaks.
//
// Providers (OpenAI, Anthropic, Google, Ollama-compatible servers) all expose
// different response shapes and different structural requirements for tool
// invocation. The model package is the canonical middle ground: the provider
// package normalizes provider responses INTO these types, and request builders
// convert FROM these types back into provider-specific wire formats.
//
// # Cross-references
//
// Messages, tool calls and tool results never hold pointers to each other.
// A ToolResult references its ToolCall by the opaque ToolCall.ID string and is
// resolved by scanning the enclosing ordered message list. This keeps the
// model free of reference cycles and trivially serializable.
package model

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartType identifies the variant of a ContentPart.
type PartType string

const (
	PartText     PartType = "text"
	PartThinking PartType = "thinking"
	PartImage    PartType = "image"
	PartVideo    PartType = "video"
)

// ContentPart is one ordered item of a message body.
//
// Exactly one variant is populated, selected by Type:
//   - PartText: Text
//   - PartThinking: Text, optionally Signature
//   - PartImage / PartVideo: MIME plus either Data or URL
type ContentPart struct {
	Type      PartType
	Text      string
	Signature string // thinking blocks only, provider-issued
	MIME      string
	Data      []byte
	URL       string
}

// TextPart returns a visible text part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ThinkingPart returns a reasoning part. The signature is optional and
// preserved verbatim for providers that require it on replay.
func ThinkingPart(text, signature string) ContentPart {
	return ContentPart{Type: PartThinking, Text: text, Signature: signature}
}

// ImagePart returns an image part carrying either inline data or a URL.
func ImagePart(mime string, data []byte, url string) ContentPart {
	return ContentPart{Type: PartImage, MIME: mime, Data: data, URL: url}
}

// VideoPart returns a video part carrying either inline data or a URL.
func VideoPart(mime string, data []byte, url string) ContentPart {
	return ContentPart{Type: PartVideo, MIME: mime, Data: data, URL: url}
}

// ToolCall is an assistant-issued request to invoke an external tool.
// ID is an opaque unique string assigned by the provider (or synthesized for
// providers that do not issue ids). Name is the namespaced exposed tool name.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResult is the outcome of a prior ToolCall, referenced by id.
//
// Each ToolCall id is resolved by exactly one ToolResult, and that result's
// owning message is the one immediately following the call's owning assistant
// message. The provider package repairs histories that violate this.
type ToolResult struct {
	ToolCallID string
	Content    string
	Structured any
	IsError    bool
}

// Message is one conversation turn.
type Message struct {
	Role        Role
	Parts       []ContentPart
	ToolCalls   []ToolCall
	ToolResults []ToolResult
	Timestamp   time.Time
}

// Text returns the concatenated visible text of the message.
func (m Message) Text() string {
	visible, _ := SplitContent(m.Parts, "")
	return visible
}

// HasToolCalls reports whether the message issues any tool calls.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
