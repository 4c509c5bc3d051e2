package comparison

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	defaultIntensity = 3
	minScore         = 1
	maxScore         = 5
)

var consentStatusKeys = []string{"status", "dom_status", "sub_status", "active_status", "passive_status"}

// Normalize returns a copy of answer with the consent-family defaults filled in.
// Answers without any status key are returned as an unchanged copy. Normalize is idempotent.
func Normalize(answer Answer) Answer {
	out := make(Answer, len(answer)+4)
	for k, v := range answer {
		out[k] = v
	}
	if !isConsentFamily(answer) {
		return out
	}

	if n, ok := toInt(out["intensity"]); ok {
		out["intensity"] = clamp(n, minScore, maxScore)
	} else {
		out["intensity"] = defaultIntensity
	}

	// Only the top-level status drives hardNo; sub-role statuses never do.
	if _, ok := out["hardNo"]; !ok {
		st, _ := statusOf(out, "status")
		out["hardNo"] = st == StatusNo || st == StatusHardLimit
	}

	switch flags := out["contextFlags"].(type) {
	case []any:
		out["contextFlags"] = append([]any{}, flags...)
	case []string:
		converted := make([]any, 0, len(flags))
		for _, f := range flags {
			converted = append(converted, f)
		}
		out["contextFlags"] = converted
	default:
		out["contextFlags"] = []any{}
	}

	if raw, ok := out["confidence"]; ok {
		if n, ok := toInt(raw); ok {
			out["confidence"] = clamp(n, minScore, maxScore)
		} else {
			delete(out, "confidence")
		}
	}
	return out
}

func isConsentFamily(answer Answer) bool {
	for _, k := range consentStatusKeys {
		if _, ok := answer[k]; ok {
			return true
		}
	}
	return false
}

// toInt coerces JSON-ish numeric values. Floats truncate toward zero; strings must hold an integer.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
		return 0, false
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func intField(a Answer, key string) *int {
	n, ok := toInt(a[key])
	if !ok {
		return nil
	}
	return &n
}

// statusOf reads a status key. The boolean is false when the key is absent or blank.
func statusOf(a Answer, key string) (Status, bool) {
	s, ok := a[key].(string)
	if !ok {
		return "", false
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	return Status(s), true
}

// scalarField returns a scalar value with its JSON type kept: strings stay strings,
// bools stay bools and every numeric type becomes float64. Lists and maps are not scalars.
func scalarField(a Answer, key string) (any, bool) {
	switch v := a[key].(type) {
	case string, bool:
		return v, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	default:
		if f, ok := toFloat(v); ok {
			return f, true
		}
		return nil, false
	}
}

// toFloat coerces numeric values and numeric strings without losing fractions.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool, nil:
		return 0, false
	default:
		i, ok := toInt(v)
		if !ok {
			return 0, false
		}
		f = float64(i)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func floatField(a Answer, key string) *float64 {
	f, ok := toFloat(a[key])
	if !ok {
		return nil
	}
	return &f
}

func stringList(a Answer, key string) []string {
	switch v := a[key].(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func absDiff(a, b *int) *int {
	if a == nil || b == nil {
		return nil
	}
	d := *a - *b
	if d < 0 {
		d = -d
	}
	return &d
}
