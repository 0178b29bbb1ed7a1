package generator

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ReadInt reads key from in as an integer clamped to [lo, hi]. Missing or nil
// values yield def. Strings contribute their leading digits, floats are
// truncated and booleans count as 0 or 1.
func ReadInt(in Input, key string, lo, hi, def int) int {
	v, ok := in[key]
	if !ok || v == nil {
		return def
	}
	return max(lo, min(hi, toInt(v)))
}

// ReadArray reads key from in as a list restricted to valid. A string is split
// on commas (command lines cannot pass lists). A list whose elements are all
// empty yields an empty list; otherwise unknown elements are dropped. Missing
// keys and values of any other type yield a copy of def.
func ReadArray(in Input, key string, valid, def []string) []string {
	v, ok := in[key]
	if !ok || v == nil {
		return slices.Clone(def)
	}

	var items []string
	switch t := v.(type) {
	case string:
		items = strings.Split(t, ",")
	case []string:
		items = t
	case []any:
		items = make([]string, len(t))
		for i, e := range t {
			items[i] = toString(e)
		}
	default:
		return slices.Clone(def)
	}

	out := []string{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if falsy(item) {
			continue
		}
		if slices.Contains(valid, item) {
			out = append(out, item)
		}
	}
	return out
}

func toInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int8:
		return int(t)
	case int16:
		return int(t)
	case int32:
		return int(t)
	case int64:
		return clampInt64(t)
	case uint:
		return clampUint64(uint64(t))
	case uint8:
		return int(t)
	case uint16:
		return int(t)
	case uint32:
		return int(t)
	case uint64:
		return clampUint64(t)
	case float32:
		return floatToInt(float64(t))
	case float64:
		return floatToInt(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return clampInt64(i)
		}
		if f, err := t.Float64(); err == nil {
			return floatToInt(f)
		}
		return 0
	case string:
		return leadingInt(t)
	case []string:
		if len(t) > 0 {
			return 1
		}
		return 0
	case []any:
		if len(t) > 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// leadingInt parses an optional sign and the run of digits at the start of s.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	// Out-of-range values saturate to the nearest bound.
	n, _ := strconv.ParseInt(s[:end], 10, 64)
	return clampInt64(n)
}

func floatToInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt
	case f <= math.MinInt64:
		return math.MinInt
	}
	return clampInt64(int64(f))
}

func clampInt64(n int64) int {
	if n > int64(math.MaxInt) {
		return math.MaxInt
	}
	if n < int64(math.MinInt) {
		return math.MinInt
	}
	return int(n)
}

func clampUint64(n uint64) int {
	if n > math.MaxInt64 {
		return math.MaxInt
	}
	return clampInt64(int64(n))
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func falsy(s string) bool {
	return s == "" || s == "0"
}
