package meals

import "fmt"

// DayGroup is every marking of one hostel for one day, as returned by the
// store when grouping by day.
type DayGroup struct {
	Day      int
	Markings []MealStatus
}

// ResidentMarking is one resident's status for one day of the queried month.
type ResidentMarking struct {
	ResidentID int64
	Day        int
	Status     MealStatus
}

// DayCounts holds one number per meal. The aggregator fills it with
// opt-outs; Attendance turns it into head counts.
type DayCounts struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Snacks    int `json:"snacks"`
	Dinner    int `json:"dinner"`
}

// Get returns the count of one meal.
func (c DayCounts) Get(m MealType) int {
	switch m {
	case Breakfast:
		return c.Breakfast
	case Lunch:
		return c.Lunch
	case Snacks:
		return c.Snacks
	case Dinner:
		return c.Dinner
	}
	return 0
}

func (c *DayCounts) addOptOuts(s MealStatus) {
	if !s.Breakfast {
		c.Breakfast++
	}
	if !s.Lunch {
		c.Lunch++
	}
	if !s.Snacks {
		c.Snacks++
	}
	if !s.Dinner {
		c.Dinner++
	}
}

// Attendance converts opt-out counts into the number of residents eating,
// given the hostel's total roster size. Residents without a marking are
// counted as eating every meal.
func (c DayCounts) Attendance(totalResidents int) DayCounts {
	return DayCounts{
		Breakfast: totalResidents - c.Breakfast,
		Lunch:     totalResidents - c.Lunch,
		Snacks:    totalResidents - c.Snacks,
		Dinner:    totalResidents - c.Dinner,
	}
}

// MonthCounts maps a day of month to its opt-out counts. Days nobody opted
// out of are absent.
type MonthCounts map[int]DayCounts

// Day returns the counts for day, zero when no marking exists.
func (m MonthCounts) Day(day int) DayCounts {
	return m[day]
}

// AggregateByDay counts, per day and per meal, how many markings skip the
// meal. Each day may appear in at most one group.
func AggregateByDay(q MonthQuery, groups []DayGroup) (MonthCounts, error) {
	days := q.Days()
	out := make(MonthCounts, len(groups))
	for _, g := range groups {
		if g.Day < 1 || g.Day > days {
			return nil, fmt.Errorf("%w: day %d of %04d-%02d", ErrInvalidDay, g.Day, q.Year, q.Month+1)
		}
		if _, seen := out[g.Day]; seen {
			return nil, fmt.Errorf("%w: day %d", ErrDuplicateDay, g.Day)
		}
		out[g.Day] = countOptOuts(g.Markings)
	}
	return out, nil
}

// AggregateDay counts the opt-outs of a single day. No group means nobody
// opted out.
func AggregateDay(q DayQuery, groups []DayGroup) (DayCounts, error) {
	switch len(groups) {
	case 0:
		return DayCounts{}, nil
	case 1:
		if groups[0].Day != q.Day {
			return DayCounts{}, fmt.Errorf("%w: want day %d, got %d", ErrDayMismatch, q.Day, groups[0].Day)
		}
		return countOptOuts(groups[0].Markings), nil
	default:
		return DayCounts{}, fmt.Errorf("%w: %d groups for %s", ErrDuplicateDay, len(groups), q.Date())
	}
}

func countOptOuts(statuses []MealStatus) DayCounts {
	var c DayCounts
	for _, s := range statuses {
		c.addOptOuts(s)
	}
	return c
}

// OptOutMatrix maps resident id to day to "skipped every meal". Residents
// without markings in the month are absent, which reads as zero skipped
// days.
type OptOutMatrix map[int64]map[int]bool

// OptOutDays counts the days the resident skipped entirely.
func (m OptOutMatrix) OptOutDays(residentID int64) int {
	n := 0
	for _, out := range m[residentID] {
		if out {
			n++
		}
	}
	return n
}

// OptedOut reports whether the resident skipped every meal of day.
func (m OptOutMatrix) OptedOut(residentID int64, day int) bool {
	return m[residentID][day]
}

// DetailedMatrix maps resident id to day to the full meal status.
type DetailedMatrix map[int64]map[int]MealStatus

// Status returns the resident's status for day, DefaultMealStatus when
// nothing was marked.
func (m DetailedMatrix) Status(residentID int64, day int) MealStatus {
	if s, ok := m[residentID][day]; ok {
		return s
	}
	return DefaultMealStatus()
}

// Summary collapses the matrix to whole-day opt-outs.
func (m DetailedMatrix) Summary() OptOutMatrix {
	out := make(OptOutMatrix, len(m))
	for id, days := range m {
		row := make(map[int]bool, len(days))
		for day, s := range days {
			row[day] = s.OptedOutEntirely()
		}
		out[id] = row
	}
	return out
}

// AggregateByResident groups markings per resident, keeping only whether
// each marked day was skipped entirely.
func AggregateByResident(q MonthQuery, markings []ResidentMarking) (OptOutMatrix, error) {
	detailed, err := AggregateByResidentDetailed(q, markings)
	if err != nil {
		return nil, err
	}
	return detailed.Summary(), nil
}

// AggregateByResidentDetailed groups markings per resident and day.
func AggregateByResidentDetailed(q MonthQuery, markings []ResidentMarking) (DetailedMatrix, error) {
	days := q.Days()
	out := make(DetailedMatrix)
	for _, mk := range markings {
		if mk.Day < 1 || mk.Day > days {
			return nil, fmt.Errorf("%w: day %d of %04d-%02d", ErrInvalidDay, mk.Day, q.Year, q.Month+1)
		}
		row, ok := out[mk.ResidentID]
		if !ok {
			row = make(map[int]MealStatus)
			out[mk.ResidentID] = row
		}
		if _, seen := row[mk.Day]; seen {
			return nil, fmt.Errorf("%w: resident %d day %d", ErrDuplicateMarking, mk.ResidentID, mk.Day)
		}
		row[mk.Day] = mk.Status
	}
	return out, nil
}
