package client

import (
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
)

type eventKind int

const (
	eventContent eventKind = iota
	eventError
	eventDone
	// eventMalformed is a data line whose payload is not JSON
	eventMalformed
)

type event struct {
	kind eventKind
	text string
}

// lineDecoder splits an SSE byte stream into data events. Bytes after the
// last newline are held until the rest of the line arrives, so neither a
// line nor a UTF-8 sequence is ever cut by chunking.
type lineDecoder struct {
	pending []byte
}

func (d *lineDecoder) reset() {
	d.pending = d.pending[:0]
}

// feed returns the events completed by chunk
func (d *lineDecoder) feed(chunk []byte) []event {
	d.pending = append(d.pending, chunk...)

	var events []event
	for {
		i := bytes.IndexByte(d.pending, '\n')
		if i < 0 {
			break
		}
		line := string(d.pending[:i])
		d.pending = d.pending[i+1:]
		if ev, ok := parseLine(line); ok {
			events = append(events, ev)
		}
	}
	return events
}

// flush parses a final line that had no trailing newline
func (d *lineDecoder) flush() []event {
	if len(d.pending) == 0 {
		return nil
	}
	line := string(d.pending)
	d.pending = d.pending[:0]
	if ev, ok := parseLine(line); ok {
		return []event{ev}
	}
	return nil
}

func parseLine(line string) (event, bool) {
	line = strings.TrimRight(line, "\r")
	if !strings.HasPrefix(line, "data: ") {
		return event{}, false
	}
	payload := strings.TrimSpace(line[len("data: "):])
	if payload == "" {
		return event{}, false
	}
	if payload == "[DONE]" {
		return event{kind: eventDone}, true
	}
	if !gjson.Valid(payload) {
		return event{kind: eventMalformed, text: payload}, true
	}

	if errField := gjson.Get(payload, "error"); errField.Exists() {
		msg := errField.String()
		if errField.IsObject() {
			msg = errField.Get("message").String()
		}
		if msg == "" {
			msg = errField.Raw
		}
		return event{kind: eventError, text: msg}, true
	}

	content := gjson.Get(payload, "choices.0.delta.content").String()
	if content == "" {
		return event{}, false
	}
	return event{kind: eventContent, text: content}, true
}
