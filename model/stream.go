package model

// StreamEventKind identifies the variant of a StreamEvent.
type StreamEventKind string

const (
	EventMessageStart StreamEventKind = "message_start"
	EventContentDelta StreamEventKind = "content_delta"
	EventUsageUpdate  StreamEventKind = "usage_update"
	EventMessageEnd   StreamEventKind = "message_end"
)

// DeltaChannel identifies which content channel a delta belongs to. Thinking
// content is always delivered on its own channel, never mixed into text.
type DeltaChannel string

const (
	ChannelText     DeltaChannel = "text"
	ChannelThinking DeltaChannel = "thinking"
	ChannelToolArgs DeltaChannel = "tool_args"
)

// Usage aggregates token accounting for one streamed message.
type Usage struct {
	InputTokens    int64
	OutputTokens   int64
	ThinkingTokens int64
	CachedTokens   int64
}

// StreamEvent is one item of the canonical event sequence every provider
// normalizer produces.
//
// Sequencing invariant: exactly one EventMessageStart first, exactly one
// terminal EventMessageEnd, any number of deltas and usage updates in
// between, never reordered.
type StreamEvent struct {
	Kind StreamEventKind

	// EventMessageStart
	MessageID string

	// EventContentDelta
	Channel DeltaChannel
	Text    string
	// ToolCallIndex orders tool-argument fragments by the call they extend.
	ToolCallIndex int

	// EventUsageUpdate and EventMessageEnd
	Usage Usage
}

// MessageStart returns the opening event of a stream.
func MessageStart(id string) StreamEvent {
	return StreamEvent{Kind: EventMessageStart, MessageID: id}
}

// TextDelta returns a visible-text delta event.
func TextDelta(text string) StreamEvent {
	return StreamEvent{Kind: EventContentDelta, Channel: ChannelText, Text: text}
}

// ThinkingDelta returns a reasoning delta event.
func ThinkingDelta(text string) StreamEvent {
	return StreamEvent{Kind: EventContentDelta, Channel: ChannelThinking, Text: text}
}

// ToolArgsDelta returns a tool-argument fragment for the call at index.
func ToolArgsDelta(index int, fragment string) StreamEvent {
	return StreamEvent{Kind: EventContentDelta, Channel: ChannelToolArgs, Text: fragment, ToolCallIndex: index}
}

// UsageUpdate returns a mid-stream usage snapshot.
func UsageUpdate(u Usage) StreamEvent {
	return StreamEvent{Kind: EventUsageUpdate, Usage: u}
}

// MessageEnd returns the terminal event carrying the aggregated usage.
func MessageEnd(u Usage) StreamEvent {
	return StreamEvent{Kind: EventMessageEnd, Usage: u}
}
