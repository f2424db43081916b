package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marketevents/internal/event"
)

// ErrParse marks a response that holds no decodable structured payload.
var ErrParse = errors.New("extract: parse error")

// ParseError describes why a response could not be decoded.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %v", e.Reason, e.Err)
	}
	return "extract: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Parse demarcates and decodes the structured block embedded in a model
// response. A fenced code block is preferred when present; when it holds
// nothing decodable the whole response is searched instead. Every opening
// bracket is tried in turn and the first balanced segment that decodes
// wins, which tolerates conversational text around the payload.
func Parse(text string) ([]event.Candidate, error) {
	var lastErr error
	for _, body := range bodies(text) {
		for _, seg := range segments(body) {
			out, err := Decode(seg)
			if err == nil {
				return out, nil
			}
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &ParseError{Reason: "no balanced payload in response"}
}

// Demarcate returns the first balanced bracket segment of text.
func Demarcate(text string) (string, error) {
	for _, body := range bodies(text) {
		if segs := segments(body); len(segs) > 0 {
			return segs[0], nil
		}
	}
	return "", &ParseError{Reason: "no balanced payload in response"}
}

// bodies lists where to look for the payload: the fenced block first, if
// any, then the full response.
func bodies(text string) []string {
	if fenced, ok := fencedBlock(text); ok {
		return []string{fenced, text}
	}
	return []string{text}
}

// segments lists balanced segments in order of their opening bracket.
// String literals are honoured so brackets inside quoted text do not count.
func segments(body string) []string {
	var out []string
	for start := 0; start < len(body); start++ {
		if body[start] != '[' && body[start] != '{' {
			continue
		}
		if end, ok := balancedEnd(body, start); ok {
			out = append(out, body[start:end+1])
		}
	}
	return out
}

// fencedBlock returns the contents of the first ``` fence, skipping an
// optional language tag on the opening line.
func fencedBlock(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}
	rest := text[open+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if tag == "" || isFenceTag(tag) {
			rest = rest[nl+1:]
		}
	}
	closing := strings.Index(rest, "```")
	if closing < 0 {
		return "", false
	}
	return rest[:closing], true
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func balancedEnd(s string, start int) (int, bool) {
	var stack []byte
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')
		case ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// Decode parses a demarcated payload into candidates. A single top-level
// object becomes a one-element list; list items that are not objects become
// a candidate carrying only their text as description.
func Decode(payload string) ([]event.Candidate, error) {
	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, &ParseError{Reason: "payload is not valid JSON", Err: err}
	}

	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case map[string]any:
		if nested, ok := nestedList(x); ok {
			items = nested
		} else {
			items = []any{x}
		}
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unexpected top-level %T", v)}
	}

	out := make([]event.Candidate, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case map[string]any:
			out = append(out, event.Candidate(x))
		case nil:
		default:
			desc := strings.TrimSpace(event.Stringify(x))
			if desc == "" {
				continue
			}
			out = append(out, event.Candidate{"description": desc})
		}
	}
	if len(out) == 0 {
		return nil, &ParseError{Reason: "payload holds no records"}
	}
	return out, nil
}

// nestedList unwraps {"events": [...]} style envelopes.
func nestedList(m map[string]any) ([]any, bool) {
	if len(m) != 1 {
		return nil, false
	}
	for _, v := range m {
		list, ok := v.([]any)
		if !ok || len(list) == 0 {
			return nil, false
		}
		for _, item := range list {
			if _, ok := item.(map[string]any); !ok {
				return nil, false
			}
		}
		return list, true
	}
	return nil, false
}
