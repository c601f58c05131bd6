package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/soundscout/internal/catalog"
)

// TextShape is the shape a raw text node arrived in.
type TextShape int

const (
	ShapeMissing TextShape = iota
	ShapePlain             // "text"
	ShapeText              // {"text": "..."}
	ShapeSimple            // {"simpleText": "..."}
	ShapeRuns              // {"runs": [{"text": "..."}]}
)

func (s TextShape) String() string {
	switch s {
	case ShapePlain:
		return "plain"
	case ShapeText:
		return "text"
	case ShapeSimple:
		return "simple"
	case ShapeRuns:
		return "runs"
	default:
		return "missing"
	}
}

// ShapeOf classifies v, preferring a plain string, then {text}, then {simpleText}, then {runs}.
func ShapeOf(v any) TextShape {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) != "" {
			return ShapePlain
		}
	case map[string]any:
		if str(t["text"]) != "" {
			return ShapeText
		}
		if str(t["simpleText"]) != "" {
			return ShapeSimple
		}
		if runs, ok := t["runs"].([]any); ok && len(runs) > 0 {
			return ShapeRuns
		}
	}
	return ShapeMissing
}

// Text flattens a raw text node. Runs are concatenated in order.
func Text(v any) string {
	switch ShapeOf(v) {
	case ShapePlain:
		return strings.TrimSpace(v.(string))
	case ShapeText:
		return str(v.(map[string]any)["text"])
	case ShapeSimple:
		return str(v.(map[string]any)["simpleText"])
	case ShapeRuns:
		var b strings.Builder
		for _, r := range v.(map[string]any)["runs"].([]any) {
			if m, ok := r.(map[string]any); ok {
				if s, ok := m["text"].(string); ok {
					b.WriteString(s)
				}
			}
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}

// lookup walks nested maps and slices. Named map types such as [catalog.Result] are accepted.
func lookup(v any, keys ...any) any {
	cur := v
	for _, k := range keys {
		if r, ok := cur.(catalog.Result); ok {
			cur = map[string]any(r)
		}
		switch key := k.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[key]
		case int:
			a, ok := cur.([]any)
			if !ok || key < 0 || key >= len(a) {
				return nil
			}
			cur = a[key]
		}
	}
	return cur
}

// str reads a string-ish scalar, trimming whitespace. Non-scalars read as "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int, int64:
		return fmt.Sprint(t)
	}
	return ""
}

// number reads an integer from any numeric shape, including numeric strings.
func number(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		f, _ := n.Float64()
		return int(f)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	}
	return 0
}
