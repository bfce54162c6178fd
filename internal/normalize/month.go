package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// maxExcelSerial is 9999-12-31 in the 1900 date system
const maxExcelSerial = 2958466

var stringLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/01",
	"2006.01.02",
	"2006.01",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

var (
	yearMonthPattern   = regexp.MustCompile(`^([0-9]{4})[.\-/]([0-9]{1,2})$`)
	bareYearPattern    = regexp.MustCompile(`^[0-9]{4}$`)
	monthAbbrevPattern = regexp.MustCompile(`^([A-Za-z]{3,})[\s\-_/.,']*([0-9]{2}|[0-9]{4})$`)
	koreanMonthPattern = regexp.MustCompile(`^([0-9]{4})\s*년\s*([0-9]{1,2})\s*월`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// ParseMonth converts a cell into the first day of its month (UTC).
// It reports false for empty or unrecognized values.
func ParseMonth(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return FirstOfMonth(val), true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return ParseMonth(*val)
	case string:
		return parseMonthString(val)
	}

	if f, ok := toFloat(v); ok {
		return fromSerial(f)
	}
	return time.Time{}, false
}

// FirstOfMonth truncates t to the first day of its month in UTC
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthLabel formats a month the way chart axes show it ("Jan 20")
func MonthLabel(t time.Time) string {
	return t.Format("Jan 06")
}

func fromSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial <= 0 || serial >= maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return FirstOfMonth(t), true
}

func parseMonthString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// "2020.01" and "2020" also parse as floats; they are never day serials
	if m := yearMonthPattern.FindStringSubmatch(s); m != nil {
		return yearMonth(m[1], m[2])
	}
	if bareYearPattern.MatchString(s) {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}

	for _, layout := range stringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FirstOfMonth(t), true
		}
	}

	if m := koreanMonthPattern.FindStringSubmatch(s); m != nil {
		return yearMonth(m[1], m[2])
	}

	if m := monthAbbrevPattern.FindStringSubmatch(s); m != nil {
		month := lookupMonth(m[1])
		if month == 0 {
			return time.Time{}, false
		}
		year, _ := strconv.Atoi(m[2])
		if len(m[2]) == 2 {
			year += 2000
		}
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

// lookupMonth accepts any prefix of an English month name of at least three letters
func lookupMonth(name string) time.Month {
	name = strings.ToLower(name)
	for i, full := range monthNames {
		if strings.HasPrefix(full, name) {
			return time.Month(i + 1)
		}
	}
	return 0
}

// ParseYear reads a calendar year between 1900 and 2100
func ParseYear(v any) (int, bool) {
	var year float64
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		s = strings.TrimSuffix(s, "년")
		s = strings.TrimSpace(s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		year = f
	default:
		f, ok := toFloat(v)
		if !ok {
			return 0, false
		}
		year = f
	}

	if year != math.Trunc(year) || year < 1900 || year > 2100 {
		return 0, false
	}
	return int(year), true
}

func yearMonth(y, m string) (time.Time, bool) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}
