// Package sse implements an incremental decoder for server-sent event
// streams, the line-oriented protocol every cloud LLM provider uses to
// deliver streamed responses.
//
// The parser is a pull-based synchronous state machine: the owner of the
// connection appends raw chunks of whatever size the transport delivered with
// Write, then drains zero or more complete events with Next. The parser never
// blocks and performs no I/O; waiting for more bytes is entirely the caller's
// responsibility. One Parser is owned per open response body and never shared.
package sse

import (
	"bytes"
	"strings"
)

// doneSentinel is the literal data payload providers send to mark the end of
// a stream.
const doneSentinel = "[DONE]"

// Event is one decoded server-sent event.
type Event struct {
	// Name is the value of the record's event: field, empty if absent.
	Name string
	// Data is the record's data payload. Multiple data: lines in one record
	// are joined with "\n".
	Data string
	// Done marks the terminal [DONE] sentinel. Data is empty when set.
	Done bool
}

// Parser incrementally decodes an SSE byte stream.
type Parser struct {
	buf []byte
}

// NewParser returns an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// Write appends a chunk of raw bytes. Chunks may split records, lines or even
// UTF-8 sequences at any boundary; decoding is unaffected.
func (p *Parser) Write(chunk []byte) {
	p.buf = append(p.buf, chunk...)
}

// Next returns the next complete event, or ok=false when no complete record
// is buffered. Records whose assembled data is empty are dropped. Malformed
// lines are ignored rather than reported; only complete, well-formed records
// produce events.
func (p *Parser) Next() (Event, bool) {
	for {
		record, ok := p.takeRecord()
		if !ok {
			return Event{}, false
		}
		if ev, emit := parseRecord(record); emit {
			return ev, true
		}
	}
}

// takeRecord cuts the earliest blank-line-terminated record off the buffer.
// Both "\n\n" and "\r\n\r\n" terminate a record.
func (p *Parser) takeRecord() ([]byte, bool) {
	lf := bytes.Index(p.buf, []byte("\n\n"))
	crlf := bytes.Index(p.buf, []byte("\r\n\r\n"))

	idx, sepLen := lf, 2
	switch {
	case lf == -1 && crlf == -1:
		return nil, false
	case lf == -1:
		idx, sepLen = crlf, 4
	case crlf != -1 && crlf < lf:
		idx, sepLen = crlf, 4
	}

	record := p.buf[:idx]
	p.buf = p.buf[idx+sepLen:]
	return record, true
}

// parseRecord assembles one record's fields. The second return is false when
// the record should be dropped instead of emitted.
func parseRecord(record []byte) (Event, bool) {
	var name string
	var data []string

	for _, line := range strings.Split(string(record), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			name = strings.TrimSpace(value)
		case "data":
			data = append(data, value)
		}
	}

	payload := strings.Join(data, "\n")
	if strings.TrimSpace(payload) == "" {
		return Event{}, false
	}
	if strings.TrimSpace(payload) == doneSentinel {
		return Event{Name: name, Done: true}, true
	}
	return Event{Name: name, Data: payload}, true
}
