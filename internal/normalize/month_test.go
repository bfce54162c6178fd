package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestParseMonth(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	native := time.Date(2023, time.July, 19, 23, 30, 0, 0, seoul)

	tests := []struct {
		name   string
		input  any
		want   time.Time
		wantOK bool
	}{
		{"native date", native, month(2023, time.July), true},
		{"native date pointer", &native, month(2023, time.July), true},
		{"zero time", time.Time{}, time.Time{}, false},
		{"nil pointer", (*time.Time)(nil), time.Time{}, false},
		{"serial", 43831.0, month(2020, time.January), true},
		{"serial with fraction", 43861.75, month(2020, time.January), true},
		{"serial as int", 45383, month(2024, time.April), true},
		{"serial as text", "43862", month(2020, time.February), true},
		{"zero serial", 0.0, time.Time{}, false},
		{"negative serial", -5.0, time.Time{}, false},
		{"serial out of range", 3e6, time.Time{}, false},
		{"NaN", math.NaN(), time.Time{}, false},
		{"iso date", "2021-03-15", month(2021, time.March), true},
		{"iso month", "2021-03", month(2021, time.March), true},
		{"iso datetime", "2022-11-30T10:00:00Z", month(2022, time.November), true},
		{"slashed", "2022/05/01", month(2022, time.May), true},
		{"us date", "8/15/2024", month(2024, time.August), true},
		{"us date two digit year", "1/1/20", month(2020, time.January), true},
		{"dotted year month", "2020.01", month(2020, time.January), true},
		{"dotted year month later", "2021.03", month(2021, time.March), true},
		{"dotted single digit month", "2020.1", month(2020, time.January), true},
		{"dashed single digit month", "2022-7", month(2022, time.July), true},
		{"dotted invalid month", "2020.13", time.Time{}, false},
		{"bare year text", "2020", time.Time{}, false},
		{"long date", "Jan 5, 2025", month(2025, time.January), true},
		{"abbrev two digit year", "Jan 20", month(2020, time.January), true},
		{"abbrev with dash", "Feb-21", month(2021, time.February), true},
		{"abbrev with underscore", "mar_22", month(2022, time.March), true},
		{"abbrev no separator", "Apr25", month(2025, time.April), true},
		{"full month four digit year", "September 2023", month(2023, time.September), true},
		{"partial month name", "Sept 23", month(2023, time.September), true},
		{"korean", "2021년 3월", month(2021, time.March), true},
		{"korean invalid month", "2021년 13월", time.Time{}, false},
		{"padded", "  Dec 24 ", month(2024, time.December), true},
		{"empty string", "", time.Time{}, false},
		{"whitespace", "   ", time.Time{}, false},
		{"unknown month", "Foo 20", time.Time{}, false},
		{"garbage", "n/a", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
		{"bool", true, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMonth(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, 1, got.Day())
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan 20", MonthLabel(month(2020, time.January)))
	assert.Equal(t, "Apr 25", MonthLabel(month(2025, time.April)))
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input  any
		want   int
		wantOK bool
	}{
		{2020, 2020, true},
		{2021.0, 2021, true},
		{"2022", 2022, true},
		{" 2023년 ", 2023, true},
		{"2024.0", 2024, true},
		{2020.5, 0, false},
		{1899, 0, false},
		{2101, 0, false},
		{"twenty", 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseYear(tt.input)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.input)
		assert.Equal(t, tt.want, got, "%v", tt.input)
	}
}
