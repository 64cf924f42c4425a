package invoice

import (
	"regexp"
	"strconv"
	"time"
)

var dateParts = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})$`)

// ParseDate builds a calendar date from an extracted day-first date string.
// Two digit years are read as 20xx. Dates that do not exist are rejected.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	m := dateParts.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	switch len(m[3]) {
	case 2:
		year += 2000
	case 3:
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// ParseTotal converts an extracted total into an amount. Totals that do not
// fit into int64 are rejected.
func ParseTotal(s string) (int64, bool) {
	digits := digitsOnly(s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
