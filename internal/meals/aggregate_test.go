package meals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2024 = MonthQuery{Year: 2024, Month: 2}

func TestHasOptedIn(t *testing.T) {
	assert.False(t, MealStatus{}.HasOptedIn())
	assert.True(t, MealStatus{}.OptedOutEntirely())
	assert.True(t, MealStatus{Snacks: true}.HasOptedIn())
	assert.True(t, DefaultMealStatus().HasOptedIn())
	assert.Equal(t, 4, DefaultMealStatus().Taken())
	assert.Equal(t, 2, MealStatus{Lunch: true, Dinner: true}.Taken())
}

func TestAggregateByDay_CountsOptOuts(t *testing.T) {
	groups := []DayGroup{
		{Day: 5, Markings: []MealStatus{
			{Breakfast: false, Lunch: true, Snacks: true, Dinner: true},
			{Breakfast: false, Lunch: false, Snacks: true, Dinner: true},
		}},
	}

	counts, err := AggregateByDay(march2024, groups)
	require.NoError(t, err)

	assert.Equal(t, DayCounts{Breakfast: 2, Lunch: 1, Snacks: 0, Dinner: 0}, counts[5])
	_, present := counts[6]
	assert.False(t, present)
	assert.Equal(t, DayCounts{}, counts.Day(6))
}

func TestAggregateByDay_Idempotent(t *testing.T) {
	groups := []DayGroup{
		{Day: 1, Markings: []MealStatus{{}, {Lunch: true}}},
		{Day: 31, Markings: []MealStatus{{Breakfast: true}}},
	}

	first, err := AggregateByDay(march2024, groups)
	require.NoError(t, err)
	second, err := AggregateByDay(march2024, groups)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, MealStatus{}, groups[0].Markings[0])
}

func TestAggregateByDay_OrderIndependent(t *testing.T) {
	a := []DayGroup{
		{Day: 2, Markings: []MealStatus{{Lunch: true}}},
		{Day: 3, Markings: []MealStatus{{Dinner: true}, {}}},
	}
	b := []DayGroup{a[1], a[0]}

	ca, err := AggregateByDay(march2024, a)
	require.NoError(t, err)
	cb, err := AggregateByDay(march2024, b)
	require.NoError(t, err)
	assert.Equal(t, ca, cb)
}

func TestAggregateByDay_RejectsDuplicateAndOutOfRangeDays(t *testing.T) {
	_, err := AggregateByDay(march2024, []DayGroup{{Day: 4}, {Day: 4}})
	assert.ErrorIs(t, err, ErrDuplicateDay)

	_, err = AggregateByDay(MonthQuery{Year: 2023, Month: 1}, []DayGroup{{Day: 29}})
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestAggregateDay(t *testing.T) {
	q := DayQuery{Year: 2024, Month: 2, Day: 11}

	counts, err := AggregateDay(q, nil)
	require.NoError(t, err)
	assert.Equal(t, DayCounts{}, counts)

	counts, err = AggregateDay(q, []DayGroup{{Day: 11, Markings: []MealStatus{{Snacks: true}}}})
	require.NoError(t, err)
	assert.Equal(t, DayCounts{Breakfast: 1, Lunch: 1, Dinner: 1}, counts)

	_, err = AggregateDay(q, []DayGroup{{Day: 11}, {Day: 11}})
	assert.ErrorIs(t, err, ErrDuplicateDay)

	_, err = AggregateDay(q, []DayGroup{{Day: 12}})
	assert.ErrorIs(t, err, ErrDayMismatch)
}

func TestDayCounts_Attendance(t *testing.T) {
	optOuts := DayCounts{Breakfast: 2, Lunch: 1}
	assert.Equal(t, DayCounts{Breakfast: 38, Lunch: 39, Snacks: 40, Dinner: 40}, optOuts.Attendance(40))
	assert.Equal(t, 40, DayCounts{}.Attendance(40).Get(Dinner))
}

func TestAggregateByResident(t *testing.T) {
	markings := []ResidentMarking{
		{ResidentID: 1, Day: 3, Status: MealStatus{}},
		{ResidentID: 1, Day: 4, Status: MealStatus{Lunch: true}},
		{ResidentID: 1, Day: 9, Status: MealStatus{}},
		{ResidentID: 2, Day: 3, Status: DefaultMealStatus()},
	}

	matrix, err := AggregateByResident(march2024, markings)
	require.NoError(t, err)

	assert.Equal(t, map[int]bool{3: true, 4: false, 9: true}, matrix[1])
	assert.Equal(t, 2, matrix.OptOutDays(1))
	assert.Equal(t, 0, matrix.OptOutDays(2))
	assert.True(t, matrix.OptedOut(1, 9))
	assert.False(t, matrix.OptedOut(1, 4))

	// resident 3 never marked anything
	_, present := matrix[3]
	assert.False(t, present)
	assert.Equal(t, 0, matrix.OptOutDays(3))
	assert.Equal(t, 31, DaysEaten(matrix, 3, 31))
}

func TestAggregateByResidentDetailed(t *testing.T) {
	markings := []ResidentMarking{
		{ResidentID: 7, Day: 2, Status: MealStatus{Dinner: true}},
	}

	detailed, err := AggregateByResidentDetailed(march2024, markings)
	require.NoError(t, err)

	assert.Equal(t, MealStatus{Dinner: true}, detailed.Status(7, 2))
	assert.Equal(t, DefaultMealStatus(), detailed.Status(7, 3))
	assert.Equal(t, DefaultMealStatus(), detailed.Status(8, 2))

	_, err = AggregateByResidentDetailed(march2024, append(markings, markings[0]))
	assert.ErrorIs(t, err, ErrDuplicateMarking)

	_, err = AggregateByResidentDetailed(march2024, []ResidentMarking{{ResidentID: 1, Day: 0}})
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestQueries(t *testing.T) {
	q, err := NewMonthQuery(2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 29, q.Days())
	info, err := q.Info()
	require.NoError(t, err)
	assert.Equal(t, "February", info.Name)

	_, err = MonthQuery{Year: 2024, Month: 12}.Info()
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = NewMonthQuery(2024, 12)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	dq, err := NewDayQuery(Date{Day: 29, Month: 1, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, q, dq.MonthQuery())

	_, err = NewDayQuery(Date{Day: 30, Month: 1, Year: 2024})
	assert.ErrorIs(t, err, ErrInvalidDay)
}
