package meals

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMonthInfo_DayCounts(t *testing.T) {
	tests := []struct {
		year, month, days int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{1900, 2, 28},
		{2000, 2, 29},
		{2024, 4, 30},
		{2024, 1, 31},
		{2024, 12, 31},
	}
	for _, tt := range tests {
		info, err := ComputeMonthInfo(tt.year, tt.month)
		require.NoError(t, err)
		assert.Equal(t, tt.days, info.Days, "%d-%02d", tt.year, tt.month)
	}
}

func TestComputeMonthInfo_January2024(t *testing.T) {
	info, err := ComputeMonthInfo(2024, 1)
	require.NoError(t, err)

	assert.Equal(t, 2024, info.Year)
	assert.Equal(t, "January", info.Name)
	assert.Equal(t, 1, info.StartWeekday) // Monday
	assert.Equal(t, 0, info.MonthIndex)
	assert.Equal(t, 11, info.PrevMonthIndex)
	assert.Equal(t, 31, info.PrevMonthDays)
}

func TestComputeMonthInfo_March2024PreviousIsLeapFebruary(t *testing.T) {
	info, err := ComputeMonthInfo(2024, 3)
	require.NoError(t, err)

	assert.Equal(t, "March", info.Name)
	assert.Equal(t, 5, info.StartWeekday) // Friday
	assert.Equal(t, 1, info.PrevMonthIndex)
	assert.Equal(t, 29, info.PrevMonthDays)
}

func TestComputeMonthInfo_RejectsOutOfRange(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		_, err := ComputeMonthInfo(2024, month)
		assert.True(t, errors.Is(err, ErrInvalidMonth), "month %d", month)
	}
	_, err := ComputeMonthInfo(0, 5)
	assert.ErrorIs(t, err, ErrInvalidYear)
}

func TestComputeMonthInfo_MatchesTimePackage(t *testing.T) {
	for year := 1999; year <= 2030; year++ {
		for month := 1; month <= 12; month++ {
			info, err := ComputeMonthInfo(year, month)
			require.NoError(t, err)
			first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			assert.Equal(t, int(first.Weekday()), info.StartWeekday)
			assert.Equal(t, first.AddDate(0, 1, -1).Day(), info.Days)
		}
	}
}

func TestNextAndPrevMonth(t *testing.T) {
	y, m := NextMonth(2024, 11)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 0, m)

	y, m = PrevMonth(2024, 0)
	assert.Equal(t, 2023, y)
	assert.Equal(t, 11, m)

	y, m = NextMonth(2024, 4)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 5, m)
}

func TestDate_AddDaysAndValidate(t *testing.T) {
	d := Date{Day: 31, Month: 11, Year: 2024}
	assert.Equal(t, Date{Day: 1, Month: 0, Year: 2025}, d.AddDays(1))
	assert.Equal(t, Date{Day: 29, Month: 1, Year: 2024}, Date{Day: 1, Month: 2, Year: 2024}.AddDays(-1))

	assert.NoError(t, Date{Day: 29, Month: 1, Year: 2024}.Validate())
	assert.ErrorIs(t, Date{Day: 29, Month: 1, Year: 2023}.Validate(), ErrInvalidDay)
	assert.ErrorIs(t, Date{Day: 1, Month: 12, Year: 2023}.Validate(), ErrInvalidMonth)
	assert.Equal(t, "2024-03-09", Date{Day: 9, Month: 2, Year: 2024}.String())
}
