package converter

import (
	"math"
	"strconv"
	"strings"
)

type columnKind int

const (
	intColumn columnKind = iota
	floatColumn
	textColumn
)

// missingValues are the cell texts read as "no value".
var missingValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

func isMissing(s string) bool {
	_, ok := missingValues[strings.TrimSpace(s)]
	return ok
}

func parseInt(s string) (int64, bool) {
	if strings.ContainsAny(s, ".eE") {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

// classifyColumn decides how a column is printed. Integer columns must be
// complete; a missing cell turns an otherwise integer column into floats.
func classifyColumn(values []string) columnKind {
	kind := intColumn
	present := 0

	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if isMissing(v) {
			if kind == intColumn {
				kind = floatColumn
			}
			continue
		}
		present++

		if _, ok := parseInt(v); ok {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			kind = floatColumn
			continue
		}
		return textColumn
	}

	if present == 0 {
		return textColumn
	}
	return kind
}

// FormatColumn renders the cells of one column for the text outputs.
// Numeric columns are printed canonically so that reading and writing an
// already formatted column is a no-op.
func FormatColumn(values []string) []string {
	kind := classifyColumn(values)
	out := make([]string, len(values))

	for i, raw := range values {
		v := strings.TrimSpace(raw)
		if isMissing(v) {
			continue
		}

		switch kind {
		case intColumn:
			n, _ := parseInt(v)
			out[i] = strconv.FormatInt(n, 10)
		case floatColumn:
			f, _ := strconv.ParseFloat(v, 64)
			out[i] = FormatFloat(f)
		default:
			out[i] = raw
		}
	}

	return out
}

// FormatFloat prints f as the shortest decimal that round-trips, always
// with a fractional part or exponent: 10 -> "10.0", 1e-5 -> "1e-05".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if exp := decimalExponent(f); exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func decimalExponent(f float64) int {
	if f == 0 {
		return 0
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	idx := strings.IndexByte(s, 'e')
	exp, _ := strconv.Atoi(s[idx+1:])
	return exp
}
