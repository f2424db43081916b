package event

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Candidate is a record as decoded from model output, before validation and
// cleaning. Values are whatever the decoder produced (string, float64, bool,
// []any, map[string]any or nil).
type Candidate map[string]any

// Text returns the first non-empty value among keys, rendered as text.
func (c Candidate) Text(keys ...string) string {
	for _, key := range keys {
		v, ok := c[key]
		if !ok {
			continue
		}
		if s := strings.TrimSpace(Stringify(v)); s != "" {
			return s
		}
	}
	return ""
}

// Stringify renders a decoded value as text. Lists are joined with ", " and
// objects are rendered as "key: value" pairs in key order.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := strings.TrimSpace(Stringify(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(x, ", ")
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+Stringify(x[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}
