package model

import "testing"

func TestSplitContent(t *testing.T) {
	tests := []struct {
		name         string
		parts        []ContentPart
		sep          string
		wantVisible  string
		wantThinking string
	}{
		{
			name:  "empty parts",
			parts: nil,
		},
		{
			name:        "text only",
			parts:       []ContentPart{TextPart("hello"), TextPart("world")},
			sep:         "\n",
			wantVisible: "hello\nworld",
		},
		{
			name:         "thinking only concatenated without separator",
			parts:        []ContentPart{ThinkingPart("first ", ""), ThinkingPart("second", "")},
			sep:          "\n",
			wantThinking: "first second",
		},
		{
			name: "interleaved parts keep order per channel",
			parts: []ContentPart{
				ThinkingPart("plan", ""),
				TextPart("step one"),
				ThinkingPart(" more", ""),
				TextPart("step two"),
			},
			sep:          " | ",
			wantVisible:  "step one | step two",
			wantThinking: "plan more",
		},
		{
			name: "media parts skipped",
			parts: []ContentPart{
				TextPart("caption"),
				ImagePart("image/png", []byte{1, 2, 3}, ""),
				VideoPart("video/mp4", nil, "https://example.com/v.mp4"),
			},
			sep:         "\n",
			wantVisible: "caption",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, thinking := SplitContent(tt.parts, tt.sep)
			if visible != tt.wantVisible {
				t.Errorf("visible = %q, want %q", visible, tt.wantVisible)
			}
			if thinking != tt.wantThinking {
				t.Errorf("thinking = %q, want %q", thinking, tt.wantThinking)
			}
		})
	}
}

func TestMessageText(t *testing.T) {
	msg := Message{
		Role: RoleAssistant,
		Parts: []ContentPart{
			ThinkingPart("internal", ""),
			TextPart("visible answer"),
		},
	}
	if got := msg.Text(); got != "visible answer" {
		t.Errorf("Text() = %q", got)
	}
}

func TestMessageHasToolCalls(t *testing.T) {
	msg := Message{Role: RoleAssistant}
	if msg.HasToolCalls() {
		t.Error("HasToolCalls() = true for empty message")
	}
	msg.ToolCalls = append(msg.ToolCalls, ToolCall{ID: "call-1", Name: "run"})
	if !msg.HasToolCalls() {
		t.Error("HasToolCalls() = false with one call")
	}
}
