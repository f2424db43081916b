// Package validate enforces the minimum shape of a candidate record. It
// rejects and never repairs.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"marketevents/internal/clean"
	"marketevents/internal/event"
)

// MinDescriptionLength is counted in characters, not bytes.
const MinDescriptionLength = 10

// ValidationError names the field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// timeTokens are the accepted non-clock time values, lowercased.
var timeTokens = tokenSet(
	"pre-market", "premarket", "盘前",
	"intraday", "盘中",
	"post-market", "postmarket", "after-hours", "盘后",
	"open", "开盘",
	"close", "收盘",
	event.TimeUnspecified, "未指定时间",
)

func tokenSet(tokens ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// IsTimeToken reports whether s is an accepted phase keyword.
func IsTimeToken(s string) bool {
	_, ok := timeTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Candidate checks that c carries a recognised time, a description of at
// least MinDescriptionLength characters and a type.
func Candidate(c event.Candidate) error {
	t := c.Text("time")
	if t == "" {
		return &ValidationError{Field: "time", Reason: "missing"}
	}
	if _, ok := clean.Clock(t); !ok && !IsTimeToken(t) {
		return &ValidationError{Field: "time", Reason: fmt.Sprintf("unrecognised format %q", t)}
	}

	// Measured as published: the cleaner collapses whitespace runs.
	desc := clean.Whitespace(c.Text("description"))
	if desc == "" {
		return &ValidationError{Field: "description", Reason: "missing"}
	}
	if n := utf8.RuneCountInString(desc); n < MinDescriptionLength {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("too short (%d < %d)", n, MinDescriptionLength)}
	}

	if c.Text("type") == "" {
		return &ValidationError{Field: "type", Reason: "missing"}
	}
	return nil
}
