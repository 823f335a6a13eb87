// Package mcp covers llmux's tool-server plumbing: the length-prefixed
// JSON-RPC framing used on stdio transports, the catalog router that merges
// tools discovered from many independent servers into one collision-free
// namespace, and conversion of the merged catalog into each provider's tool
// format.
//
// The framing layer is a synchronous state machine. The caller owns the
// subprocess pipes, reads bytes with whatever concurrency primitive it likes,
// and feeds them in with Append; the codec never performs I/O, never blocks
// and never retries. One FrameCodec is owned per connection and one logical
// request is in flight per connection; multiplexing by request id is the
// caller's concern; the codec is id-agnostic.
package mcp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultMaxPreamble bounds bytes buffered before the first recognizable
	// header or JSON body. Tool servers that log to stdout before speaking
	// the protocol produce preamble.
	DefaultMaxPreamble = 1 << 20 // 1 MiB

	// DefaultMaxMessage bounds a single framed payload.
	DefaultMaxMessage = 16 << 20 // 16 MiB

	// maxHeaderBlock bounds the header region itself. A header that does not
	// terminate within this window is treated as preamble noise.
	maxHeaderBlock = 4 << 10
)

const headerKeyword = "content-length:"

// FrameLimits bounds the decoder's two internal buffers independently.
type FrameLimits struct {
	MaxPreamble int
	MaxMessage  int
}

// DefaultFrameLimits returns the default decoder limits.
func DefaultFrameLimits() FrameLimits {
	return FrameLimits{
		MaxPreamble: DefaultMaxPreamble,
		MaxMessage:  DefaultMaxMessage,
	}
}

// FrameSizeError reports that a size ceiling was exceeded. It is fatal for
// the connection: the caller should terminate and restart the transport.
type FrameSizeError struct {
	What  string // "preamble" or "message"
	Size  int
	Limit int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("framing: %s size %d exceeds limit %d", e.What, e.Size, e.Limit)
}

// EncodeFrame wraps a payload in the canonical wire form:
// "Content-Length: <n>" + CRLF CRLF + exactly n payload bytes.
func EncodeFrame(payload []byte) []byte {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
	frame := make([]byte, 0, len(header)+len(payload))
	frame = append(frame, header...)
	return append(frame, payload...)
}

// FrameCodec is the pull-based incremental decoder for one connection.
//
// Input accepts either explicit Content-Length framing (CRLF or LF blank-line
// terminator) or a permissive bare-line JSON fallback: a line whose first
// byte is '{' or '[' is taken whole as one payload. Bytes preceding the first
// recognizable unit accumulate as preamble, retrievable via DrainPreamble,
// and are never delivered as a message.
type FrameCodec struct {
	buf      []byte
	preamble []byte
	limits   FrameLimits
}

// NewFrameCodec returns a decoder with default limits.
func NewFrameCodec() *FrameCodec {
	return &FrameCodec{limits: DefaultFrameLimits()}
}

// SetLimits replaces the decoder's size ceilings.
func (c *FrameCodec) SetLimits(limits FrameLimits) {
	c.limits = limits
}

// Append extends the internal buffer with transport bytes.
func (c *FrameCodec) Append(chunk []byte) {
	c.buf = append(c.buf, chunk...)
}

// DrainPreamble returns the accumulated preamble bytes and resets the
// preamble buffer.
func (c *FrameCodec) DrainPreamble() []byte {
	pre := c.preamble
	c.preamble = nil
	return pre
}

// Next returns one complete payload, or (nil, nil) when insufficient bytes
// are buffered, or a *FrameSizeError when a ceiling is exceeded. Call
// repeatedly to drain several buffered messages.
func (c *FrameCodec) Next() ([]byte, error) {
	for {
		if err := c.shiftPreamble(); err != nil {
			return nil, err
		}
		if len(c.buf) == 0 {
			return nil, nil
		}

		if c.buf[0] == '{' || c.buf[0] == '[' {
			return c.nextBareLine()
		}

		payload, retry, err := c.nextFramed()
		if err != nil {
			return nil, err
		}
		if retry {
			continue
		}
		return payload, nil
	}
}

// shiftPreamble moves leading bytes that cannot start a header or a bare JSON
// body into the preamble buffer.
func (c *FrameCodec) shiftPreamble() error {
	i := 0
	for i < len(c.buf) {
		b := c.buf[i]
		if b == '{' || b == '[' || headerPrefixAt(c.buf[i:]) {
			break
		}
		i++
	}
	if i > 0 {
		c.preamble = append(c.preamble, c.buf[:i]...)
		c.buf = c.buf[i:]
	}
	if len(c.preamble) > c.limits.MaxPreamble {
		return &FrameSizeError{What: "preamble", Size: len(c.preamble), Limit: c.limits.MaxPreamble}
	}
	return nil
}

// headerPrefixAt reports whether rest begins with the Content-Length keyword,
// or with an incomplete leading fragment of it (case-insensitive).
func headerPrefixAt(rest []byte) bool {
	n := len(rest)
	if n > len(headerKeyword) {
		n = len(headerKeyword)
	}
	if n == 0 {
		return false
	}
	return strings.EqualFold(string(rest[:n]), headerKeyword[:n])
}

// demote pushes one byte into the preamble so scanning can make progress past
// bytes that looked like a header but were not.
func (c *FrameCodec) demote() {
	c.preamble = append(c.preamble, c.buf[0])
	c.buf = c.buf[1:]
}

// nextFramed decodes a Content-Length framed payload starting at buf[0].
// retry=true means a byte was reclassified as preamble and scanning should
// restart; payload=nil with retry=false means more bytes are needed.
func (c *FrameCodec) nextFramed() (payload []byte, retry bool, err error) {
	if len(c.buf) < len(headerKeyword) {
		// Incomplete keyword fragment; wait for more bytes.
		return nil, false, nil
	}
	if !strings.EqualFold(string(c.buf[:len(headerKeyword)]), headerKeyword) {
		c.demote()
		return nil, true, nil
	}

	hdrEnd, sepLen := findBlankLine(c.buf)
	if hdrEnd == -1 {
		if len(c.buf) > maxHeaderBlock {
			c.demote()
			return nil, true, nil
		}
		return nil, false, nil
	}

	size, ok := parseContentLength(c.buf[:hdrEnd])
	if !ok {
		c.demote()
		return nil, true, nil
	}
	if size > c.limits.MaxMessage {
		return nil, false, &FrameSizeError{What: "message", Size: size, Limit: c.limits.MaxMessage}
	}

	total := hdrEnd + sepLen + size
	if len(c.buf) < total {
		return nil, false, nil
	}

	payload = make([]byte, size)
	copy(payload, c.buf[hdrEnd+sepLen:total])
	c.buf = c.buf[total:]
	return payload, false, nil
}

// nextBareLine takes one newline-terminated JSON line as a payload.
func (c *FrameCodec) nextBareLine() ([]byte, error) {
	nl := bytes.IndexByte(c.buf, '\n')
	if nl == -1 {
		if len(c.buf) > c.limits.MaxMessage {
			return nil, &FrameSizeError{What: "message", Size: len(c.buf), Limit: c.limits.MaxMessage}
		}
		return nil, nil
	}

	line := c.buf[:nl]
	line = bytes.TrimSuffix(line, []byte("\r"))
	c.buf = c.buf[nl+1:]

	if len(line) > c.limits.MaxMessage {
		return nil, &FrameSizeError{What: "message", Size: len(line), Limit: c.limits.MaxMessage}
	}

	payload := make([]byte, len(line))
	copy(payload, line)
	return payload, nil
}

// findBlankLine locates the earliest blank-line terminator, returning the
// offset where the header region ends and the terminator length.
func findBlankLine(buf []byte) (idx, sepLen int) {
	lf := bytes.Index(buf, []byte("\n\n"))
	crlf := bytes.Index(buf, []byte("\r\n\r\n"))

	switch {
	case lf == -1 && crlf == -1:
		return -1, 0
	case lf == -1:
		return crlf, 4
	case crlf != -1 && crlf < lf:
		return crlf, 4
	default:
		return lf, 2
	}
}

// parseContentLength extracts the decimal byte count from a header block.
func parseContentLength(header []byte) (int, bool) {
	for _, line := range strings.Split(string(header), "\n") {
		line = strings.TrimSuffix(line, "\r")
		key, value, found := strings.Cut(line, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "content-length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
