package mess

import (
	"context"
	"fmt"
	"io"
	"time"

	"MessAPI/internal/meals"
)

// Service combines the stores with the calendar, lock policy and
// aggregation rules. Every "now" comes from the injected clock.
type Service struct {
	repo   *Repository
	policy meals.Policy
	clock  meals.Clock
}

func NewService(repo *Repository, policy meals.Policy, clock meals.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, policy: policy, clock: clock}
}

func (s *Service) Now() time.Time {
	return s.clock()
}

func (s *Service) Today() meals.Date {
	return meals.DateOf(s.clock())
}

func (s *Service) Tomorrow() meals.Date {
	return s.Today().AddDays(1)
}

// Calendar builds the resident's month grid
func (s *Service) Calendar(ctx context.Context, residentID int64, q meals.MonthQuery) (*CalendarResponse, error) {
	info, err := q.Info()
	if err != nil {
		return nil, err
	}
	markings, err := s.repo.ResidentMonthMarkings(ctx, residentID, q)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int]meals.MealStatus, len(markings))
	prefs := make([]DayPreference, 0, len(markings))
	for _, m := range markings {
		byDay[m.Date.Day] = m.Meals
		prefs = append(prefs, DayPreference{Date: m.Date, Meals: m.Meals})
	}

	now := s.clock()
	tomorrow := meals.DateOf(now).AddDays(1)
	cells := make([]CalendarCell, 0, q.Days())
	for day := 1; day <= q.Days(); day++ {
		d := q.Date(day)
		status, ok := byDay[day]
		if !ok {
			status = meals.DefaultMealStatus()
		}
		cells = append(cells, CalendarCell{
			Day:        day,
			Locked:     s.policy.IsLocked(d, now),
			Today:      meals.IsToday(d, now),
			Tomorrow:   d.Compare(tomorrow) == 0,
			MealsTaken: status.Taken(),
			Meals:      status,
		})
	}

	return &CalendarResponse{Month: info, Preferences: prefs, Cells: cells}, nil
}

// MonthPreferences returns only the days the resident has marked
func (s *Service) MonthPreferences(ctx context.Context, residentID int64, q meals.MonthQuery) ([]DayPreference, error) {
	markings, err := s.repo.ResidentMonthMarkings(ctx, residentID, q)
	if err != nil {
		return nil, err
	}
	prefs := make([]DayPreference, len(markings))
	for i, m := range markings {
		prefs[i] = DayPreference{Date: m.Date, Meals: m.Meals}
	}
	return prefs, nil
}

// DayPreference returns the resident's status for one day, the default
// all-meals status when the day is unmarked
func (s *Service) DayPreference(ctx context.Context, residentID int64, q meals.DayQuery) (DayPreference, error) {
	m, err := s.repo.ResidentDayMarking(ctx, residentID, q)
	if err != nil {
		return DayPreference{}, err
	}
	if m == nil {
		return DayPreference{Date: q.Date(), Meals: meals.DefaultMealStatus()}, nil
	}
	return DayPreference{Date: m.Date, Meals: m.Meals}, nil
}

// SaveMarking writes a full meal status. It returns meals.ErrDateLocked
// when the day is no longer editable.
func (s *Service) SaveMarking(ctx context.Context, residentID int64, hostelID string, d meals.Date, status meals.MealStatus) error {
	return s.repo.UpdateResidentMarking(ctx, meals.Marking{
		Date:       d,
		ResidentID: residentID,
		HostelID:   hostelID,
		Meals:      status,
	}, s.policy, s.clock())
}

// DayCount returns the head count per meal of a hostel for one day
func (s *Service) DayCount(ctx context.Context, hostelID string, d meals.Date) (*DayCountResponse, error) {
	q, err := meals.NewDayQuery(d)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountResidents(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.DayGroups(ctx, hostelID, q)
	if err != nil {
		return nil, err
	}
	optOuts, err := meals.AggregateDay(q, groups)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s for %s: %w", d, hostelID, err)
	}

	return &DayCountResponse{
		Hostel:         hostelID,
		Date:           d,
		TotalResidents: total,
		Attendance:     optOuts.Attendance(total),
		OptOuts:        optOuts,
	}, nil
}

// TomorrowCount is what the kitchen plans against
func (s *Service) TomorrowCount(ctx context.Context, hostelID string) (*DayCountResponse, error) {
	return s.DayCount(ctx, hostelID, s.Tomorrow())
}

// MonthCount returns the head count of every day of the month
func (s *Service) MonthCount(ctx context.Context, hostelID string, q meals.MonthQuery) (*MonthCountResponse, error) {
	info, err := q.Info()
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountResidents(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.MonthDayGroups(ctx, hostelID, q)
	if err != nil {
		return nil, err
	}
	counts, err := meals.AggregateByDay(q, groups)
	if err != nil {
		return nil, fmt.Errorf("aggregate %04d-%02d for %s: %w", q.Year, q.Month+1, hostelID, err)
	}

	now := s.clock()
	rows := make([]MonthCountRow, 0, q.Days())
	for day := 1; day <= q.Days(); day++ {
		d := q.Date(day)
		rows = append(rows, MonthCountRow{
			Day:        day,
			Past:       meals.IsPast(d, now),
			Today:      meals.IsToday(d, now),
			Attendance: counts.Day(day).Attendance(total),
		})
	}

	return &MonthCountResponse{Hostel: hostelID, Month: info, TotalResidents: total, Days: rows}, nil
}

// monthReport loads the sorted roster and the per-resident opt-out matrix
func (s *Service) monthReport(ctx context.Context, hostelID string, q meals.MonthQuery) ([]Resident, meals.OptOutMatrix, error) {
	residents, err := s.repo.ListResidents(ctx, hostelID, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	markings, err := s.repo.HostelResidentMarkings(ctx, hostelID, q)
	if err != nil {
		return nil, nil, err
	}
	matrix, err := meals.AggregateByResident(q, markings)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregate residents of %s: %w", hostelID, err)
	}
	return residents, matrix, nil
}

// Report lists every resident with the number of days they ate in the month
func (s *Service) Report(ctx context.Context, hostelID string, q meals.MonthQuery) (*ReportResponse, error) {
	info, err := q.Info()
	if err != nil {
		return nil, err
	}
	residents, matrix, err := s.monthReport(ctx, hostelID, q)
	if err != nil {
		return nil, err
	}

	rows := make([]ReportRow, len(residents))
	for i, r := range residents {
		rows[i] = ReportRow{Resident: r, Days: meals.DaysEaten(matrix, r.ID, q.Days())}
	}
	return &ReportResponse{Hostel: hostelID, Month: info, Residents: rows}, nil
}

// Export writes the month report as CSV
func (s *Service) Export(ctx context.Context, w io.Writer, hostelID string, q meals.MonthQuery, detailed bool) error {
	residents, matrix, err := s.monthReport(ctx, hostelID, q)
	if err != nil {
		return err
	}

	rows := make([]meals.ResidentRow, len(residents))
	for i, r := range residents {
		rows[i] = r.Row()
	}
	return meals.WriteCSV(w, rows, matrix, q.Days(), detailed)
}
