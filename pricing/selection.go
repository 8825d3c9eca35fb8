package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Index is an optional selector value.
type Index struct {
	Value int
	Valid bool
}

// At returns a present index.
func At(v int) Index { return Index{Value: v, Valid: true} }

// ParseIndex normalises a loosely typed selector the way a UI hands it over:
// a number, a numeric string, "", or nil. Strings follow parseInt rules:
// leading whitespace and an optional sign are accepted, a 0x prefix selects
// hexadecimal, and parsing stops at the first non-digit ("12abc" is 12).
// Finite floats are truncated toward zero. Anything else is not valid.
func ParseIndex(v any) Index {
	switch t := v.(type) {
	case nil:
		return Index{}
	case Index:
		return t
	case *int:
		if t == nil {
			return Index{}
		}
		return At(*t)
	case int:
		return At(t)
	case int8:
		return At(int(t))
	case int16:
		return At(int(t))
	case int32:
		return At(int(t))
	case int64:
		return fromInt64(t)
	case uint:
		return fromUint64(uint64(t))
	case uint8:
		return At(int(t))
	case uint16:
		return At(int(t))
	case uint32:
		return fromUint64(uint64(t))
	case uint64:
		return fromUint64(t)
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case json.Number:
		return parseIntPrefix(t.String())
	case string:
		return parseIntPrefix(t)
	default:
		return Index{}
	}
}

func fromInt64(v int64) Index {
	if v > math.MaxInt || v < math.MinInt {
		return Index{}
	}
	return At(int(v))
}

func fromUint64(v uint64) Index {
	if v > math.MaxInt {
		return Index{}
	}
	return At(int(v))
}

// fromFloat mirrors parseInt(String(v)): very large and very small
// magnitudes are printed in exponent form, so only the leading digit
// survives.
func fromFloat(v float64) Index {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Index{}
	}
	abs := math.Abs(v)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return parseIntPrefix(strconv.FormatFloat(v, 'e', -1, 64))
	}
	t := math.Trunc(v)
	if t >= float64(math.MaxInt) || t < float64(math.MinInt) {
		return Index{}
	}
	return At(int(t))
}

func parseIntPrefix(s string) Index {
	s = strings.TrimLeftFunc(s, isJSSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return Index{}
	}
	n, err := strconv.ParseInt(s[:end], base, 0)
	if err != nil {
		return Index{}
	}
	if neg {
		n = -n
	}
	return At(int(n))
}

// isJSSpace reports whitespace and line terminators as parseInt skips them.
// U+0085 is not one of them.
func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// Selection is a (line, departure, arrival) choice.
type Selection struct {
	Line      Index
	Departure Index
	Arrival   Index
}

// NewSelection parses three loosely typed selector values.
func NewSelection(line, departure, arrival any) Selection {
	return Selection{
		Line:      ParseIndex(line),
		Departure: ParseIndex(departure),
		Arrival:   ParseIndex(arrival),
	}
}

// Indices builds a selection from known integers.
func Indices(line, departure, arrival int) Selection {
	return Selection{Line: At(line), Departure: At(departure), Arrival: At(arrival)}
}

// Complete reports whether all three selectors are present.
func (s Selection) Complete() bool {
	return s.Line.Valid && s.Departure.Valid && s.Arrival.Valid
}
