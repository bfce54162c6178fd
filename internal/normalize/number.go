package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberFormat selects how numeric text is read
type NumberFormat string

const (
	// FormatPeriod reads '.' as the decimal separator and drops ',' grouping
	FormatPeriod NumberFormat = "period"
	// FormatComma reads ',' as the decimal separator and drops '.' grouping
	FormatComma NumberFormat = "comma"
	// FormatStrict accepts only plain decimal text
	FormatStrict NumberFormat = "strict"
)

var (
	// ErrEmpty marks a blank cell
	ErrEmpty = errors.New("empty cell")
	// ErrNotNumeric marks text that is not a number
	ErrNotNumeric = errors.New("not a number")
	// ErrNotFinite marks NaN or infinite values
	ErrNotFinite = errors.New("not a finite number")
)

// ParseNumber converts a cell into a finite float64.
// A trailing percent sign divides the value by 100.
func ParseNumber(v any, format NumberFormat) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, ErrEmpty
	case string:
		return parseNumberString(val, format)
	case bool:
		return 0, fmt.Errorf("%w: %v", ErrNotNumeric, val)
	}

	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
	return finite(f)
}

func parseNumberString(s string, format NumberFormat) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}

	percent := false
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	cleaned := s
	switch format {
	case FormatComma:
		cleaned = stripSpaces(cleaned)
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case FormatStrict:
	default:
		cleaned = stripSpaces(cleaned)
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	if percent {
		f /= 100
	}
	return finite(f)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\u2009', '\'':
			return -1
		}
		return r
	}, s)
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	return f, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
