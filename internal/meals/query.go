package meals

// MonthQuery selects every marking of a month. Month is zero based.
type MonthQuery struct {
	Year  int
	Month int
}

// NewMonthQuery validates year and the zero based month.
func NewMonthQuery(year, monthIndex int) (MonthQuery, error) {
	if _, err := ComputeMonthInfo(year, monthIndex+1); err != nil {
		return MonthQuery{}, err
	}
	return MonthQuery{Year: year, Month: monthIndex}, nil
}

// Days returns the number of days in the queried month.
func (q MonthQuery) Days() int {
	return DaysIn(q.Year, q.Month)
}

// Info returns the month metadata. A query built as a literal with an out
// of range year or month is rejected here.
func (q MonthQuery) Info() (MonthInfo, error) {
	return ComputeMonthInfo(q.Year, q.Month+1)
}

// Date returns the given day of the queried month.
func (q MonthQuery) Date(day int) Date {
	return Date{Day: day, Month: q.Month, Year: q.Year}
}

// DayQuery selects the markings of a single day.
type DayQuery struct {
	Year  int
	Month int
	Day   int
}

// NewDayQuery validates d and wraps it.
func NewDayQuery(d Date) (DayQuery, error) {
	if err := d.Validate(); err != nil {
		return DayQuery{}, err
	}
	return DayQuery{Year: d.Year, Month: d.Month, Day: d.Day}, nil
}

// Date returns the queried day.
func (q DayQuery) Date() Date {
	return Date{Day: q.Day, Month: q.Month, Year: q.Year}
}

// MonthQuery returns the month containing the queried day.
func (q DayQuery) MonthQuery() MonthQuery {
	return MonthQuery{Year: q.Year, Month: q.Month}
}
