// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"math"
	"strconv"
	"strings"
)

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func skipDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func skipSign(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	return i
}

// parseIntPrefix converts the longest base-10 integer prefix of s after any
// leading whitespace. Values out of range saturate.
func parseIntPrefix(s string) int {
	s = strings.TrimLeft(s, asciiSpace)
	digitsStart := skipSign(s, 0)
	end := skipDigits(s, digitsStart)
	if end == digitsStart {
		return 0
	}
	// On range errors, ParseInt returns the nearest representable value.
	n, _ := strconv.ParseInt(s[:end], 10, 0)
	return int(n)
}

// parseFloatPrefix converts the longest decimal floating-point prefix of s
// after any leading whitespace. It accepts an optional exponent and the
// case-insensitive words "inf", "infinity" and "nan". Hexadecimal floats are
// not recognized.
func parseFloatPrefix(s string) float64 {
	s = strings.TrimLeft(s, asciiSpace)
	mantStart := skipSign(s, 0)
	rest := strings.ToLower(s[mantStart:])
	neg := mantStart > 0 && s[0] == '-'
	switch {
	case strings.HasPrefix(rest, "inf"):
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case strings.HasPrefix(rest, "nan"):
		return math.NaN()
	}

	end := skipDigits(s, mantStart)
	ndigits := end - mantStart
	if end < len(s) && s[end] == '.' {
		fracEnd := skipDigits(s, end+1)
		ndigits += fracEnd - (end + 1)
		end = fracEnd
	}
	if ndigits == 0 {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		expStart := skipSign(s, end+1)
		if expEnd := skipDigits(s, expStart); expEnd > expStart {
			end = expEnd
		}
	}
	// Overflow yields ±Inf and underflow yields 0, as with strtod.
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f
}
