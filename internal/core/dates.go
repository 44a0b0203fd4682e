package core

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a day-precision calendar date with no time component.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. A trailing time component
// (ISO timestamp) is ignored: only the first ten characters count.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Validate reports whether the date carries a real calendar value.
func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddMonths returns the date k calendar months later (or earlier for
// negative k), preserving the day-of-month. When the target month is
// shorter, the day clamps to the last day of that month: Jan 31 plus one
// month is Feb 29 in a leap year, Feb 28 otherwise.
func (d Date) AddMonths(k int) Date {
	y, mo, day := d.Date()
	target := time.Date(y, mo+time.Month(k), 1, 0, 0, 0, 0, time.UTC)
	last := target.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return Date{Time: time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)}
}

// FirstOfMonth returns day 1 of the same month and year.
func (d Date) FirstOfMonth() Date {
	y, mo, _ := d.Date()
	return Date{Time: time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)}
}

// DaysApart returns the absolute number of whole days between two dates.
func (d Date) DaysApart(other Date) int {
	diff := d.Sub(other.Time)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts YYYY-MM-DD strings and full ISO timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
