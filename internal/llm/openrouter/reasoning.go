package openrouter

import (
	"bytes"
	"encoding/json"
	"strings"
)

type reasoningKind int

const (
	reasoningAbsent reasoningKind = iota
	reasoningText
	reasoningObject
	reasoningList
)

// reasoningPayload is the tagged form of delta.reasoning / reasoning_details.
// Providers send a bare string, a single {"type":"reasoning.text","text":...}
// object, or an array mixing both.
type reasoningPayload struct {
	kind  reasoningKind
	text  string
	items []reasoningPayload
}

// parseReasoning classifies raw JSON by its leading token. Anything that is
// not a string, object or array (null, numbers, booleans) is absent.
func parseReasoning(raw json.RawMessage) reasoningPayload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return reasoningPayload{}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return reasoningPayload{}
		}
		return reasoningPayload{kind: reasoningText, text: s}

	case '{':
		var obj struct {
			Text json.RawMessage `json:"text"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return reasoningPayload{}
		}
		p := reasoningPayload{kind: reasoningObject}
		// A non-string text field contributes nothing
		if t := parseReasoning(obj.Text); t.kind == reasoningText {
			p.text = t.text
		}
		return p

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return reasoningPayload{}
		}
		p := reasoningPayload{kind: reasoningList, items: make([]reasoningPayload, 0, len(elems))}
		for _, e := range elems {
			item := parseReasoning(e)
			// Only strings and objects are meaningful inside the array
			if item.kind == reasoningText || item.kind == reasoningObject {
				p.items = append(p.items, item)
			}
		}
		return p
	}

	return reasoningPayload{}
}

// Text flattens the payload into the text it contributes
func (p reasoningPayload) Text() string {
	switch p.kind {
	case reasoningAbsent:
		return ""
	case reasoningText, reasoningObject:
		return p.text
	case reasoningList:
		var sb strings.Builder
		for _, item := range p.items {
			sb.WriteString(item.Text())
		}
		return sb.String()
	default:
		panic("openrouter: unhandled reasoning payload kind")
	}
}

// NormalizeReasoning returns the flat text of a reasoning delta in any of
// its supported shapes.
func NormalizeReasoning(raw json.RawMessage) string {
	return parseReasoning(raw).Text()
}
