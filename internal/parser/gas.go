// Package parser provides pure string -> value conversion for user gas and
// pO2 input. Parsers never mutate the output on failure; the caller keeps
// its prior value.
package parser

import (
	"strings"

	"github.com/opendive/planner/pkg/core"
)

// parseTenths reads an integer with an optional fraction and returns the
// value in tenths ("10.2" -> 102, "9" -> 90). Only the first fraction digit
// counts; the rest are consumed. Returns the remainder of the string and
// whether a number was read at all.
func parseTenths(s string) (value int, rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		value = value*10 + int(s[i]-'0')
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	value *= 10
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return 0, s, false
		}
		value += int(s[i] - '0')
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return value, s[i:], true
}

// parsePermille reads a tenths value with an optional trailing percent sign.
func parsePermille(s string) (value int, rest string, ok bool) {
	value, rest, ok = parseTenths(s)
	if ok && strings.HasPrefix(rest, "%") {
		rest = rest[1:]
	}
	return value, rest, ok
}

// ParseGas parses a user gas string: "air", "EAN32", "21/35", "18/45%".
// Values are read with tenths-of-a-percent precision. Trailing garbage and
// mixes outside 1 <= o2 <= 1000, 0 <= he, o2+he <= 1000 are rejected.
func ParseGas(text string) (core.GasMix, bool) {
	var o2, he int

	s := strings.TrimLeft(text, " \t")
	if s == "" {
		return core.GasMix{}, false
	}

	switch {
	case strings.EqualFold(s, "air"):
		return core.Air(), true
	case len(s) >= 3 && strings.EqualFold(s[:3], "ean"):
		var ok bool
		o2, s, ok = parsePermille(s[3:])
		if !ok {
			return core.GasMix{}, false
		}
	default:
		var ok bool
		o2, s, ok = parsePermille(s)
		if !ok {
			return core.GasMix{}, false
		}
		if strings.HasPrefix(s, "/") {
			he, s, ok = parsePermille(s[1:])
			if !ok {
				return core.GasMix{}, false
			}
		}
	}

	if strings.TrimLeft(s, " \t") != "" {
		return core.GasMix{}, false
	}
	if o2 < 1 || o2 > 1000 || he < 0 || o2+he > 1000 {
		return core.GasMix{}, false
	}
	return core.GasMix{O2: o2, He: he}, true
}

// ParsePO2 parses a setpoint in tenths of bar and returns it in mbar
// ("1.4" -> 1400).
func ParsePO2(text string) (int, bool) {
	s := strings.TrimLeft(text, " \t")
	value, rest, ok := parseTenths(s)
	if !ok {
		return 0, false
	}
	if strings.TrimLeft(rest, " \t") != "" {
		return 0, false
	}
	return value * 100, true
}
