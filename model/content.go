package model

import "strings"

// SplitContent separates a mixed content sequence into the visible string and
// the thinking string, preserving part order in both.
//
// Visible parts (text) are joined with sep; thinking parts are concatenated
// without any separator. Image and video parts carry no text and are skipped.
func SplitContent(parts []ContentPart, sep string) (visible, thinking string) {
	var vis []string
	var think strings.Builder

	for _, part := range parts {
		switch part.Type {
		case PartText:
			vis = append(vis, part.Text)
		case PartThinking:
			think.WriteString(part.Text)
		}
	}

	return strings.Join(vis, sep), think.String()
}
