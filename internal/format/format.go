// Package format renders values the way the batch driver's output format
// expects them.
package format

import (
	"math"
	"strconv"
	"strings"
)

// Double formats v with plain decimal notation for magnitudes in [1e-3, 1e7),
// scientific notation with an upper-case E ("1.0E7", "-2.5E-4") otherwise, and
// always at least one fractional digit.
// The digit string is the shortest one that round-trips to v.
func Double(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(v)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	// Shortest mantissa, e.g. "1.5e+07" or "-1e-05"
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}

// Join formats values with Double and joins them with commas.
func Join(values []float64) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Double(v))
	}
	return b.String()
}
