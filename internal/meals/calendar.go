package meals

import (
	"fmt"
	"time"
)

// Date is a calendar day. Month is zero based (0 = January), Day is one
// based. Human facing month numbers are Month+1.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date{Day: t.Day(), Month: int(t.Month()) - 1, Year: t.Year()}
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month+1), d.Day, 0, 0, 0, 0, loc)
}

// AddDays shifts d by n days, rolling month and year as needed.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// Compare orders dates by year, then month, then day.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(d.Month, o.Month)
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Validate checks that d names a real Gregorian day.
func (d Date) Validate() error {
	if err := validateYear(d.Year); err != nil {
		return err
	}
	if d.Month < 0 || d.Month > 11 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, d.Month+1)
	}
	if d.Day < 1 || d.Day > DaysIn(d.Year, d.Month) {
		return fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDay, d.Year, d.Month+1, d.Day)
	}
	return nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month+1, d.Day)
}

// MonthInfo is the metadata needed to lay out a month grid.
type MonthInfo struct {
	Year int    `json:"year"`
	Name string `json:"name"`
	// Days is the number of days in the month.
	Days int `json:"days"`
	// StartWeekday is the weekday of the 1st, 0 = Sunday.
	StartWeekday int `json:"startWeekday"`
	MonthIndex   int `json:"monthIndex"`
	// Previous month, used to fill the leading cells of the grid. Its year
	// is not reported; callers chaining months roll the year themselves.
	PrevMonthIndex int `json:"prevMonthIndex"`
	PrevMonthDays  int `json:"prevMonthDays"`
}

// ComputeMonthInfo describes month (1..12) of year. Month arithmetic must be
// normalized by the caller, see NextMonth and PrevMonth.
func ComputeMonthInfo(year, month int) (MonthInfo, error) {
	if err := validateYear(year); err != nil {
		return MonthInfo{}, err
	}
	if month < 1 || month > 12 {
		return MonthInfo{}, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}

	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the month is the last day of the previous one
	prevLast := time.Date(year, time.Month(month), 0, 0, 0, 0, 0, time.UTC)

	return MonthInfo{
		Year:           year,
		Name:           time.Month(month).String(),
		Days:           last.Day(),
		StartWeekday:   int(first.Weekday()),
		MonthIndex:     month - 1,
		PrevMonthIndex: int(prevLast.Month()) - 1,
		PrevMonthDays:  prevLast.Day(),
	}, nil
}

// DaysIn returns the number of days in the zero based month of year.
func DaysIn(year, monthIndex int) int {
	return time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextMonth returns the zero based month after (year, monthIndex).
func NextMonth(year, monthIndex int) (int, int) {
	monthIndex++
	if monthIndex > 11 {
		return year + 1, 0
	}
	return year, monthIndex
}

// PrevMonth returns the zero based month before (year, monthIndex).
func PrevMonth(year, monthIndex int) (int, int) {
	monthIndex--
	if monthIndex < 0 {
		return year - 1, 11
	}
	return year, monthIndex
}

func validateYear(year int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
