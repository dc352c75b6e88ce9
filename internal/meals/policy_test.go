package meals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestPolicy_CutoffLocksTomorrow(t *testing.T) {
	p := NewPolicy(DefaultCutoffHour)
	tomorrow := Date{Day: 11, Month: 2, Year: 2024}

	assert.True(t, p.IsEditable(tomorrow, at(21, 59)))
	assert.True(t, p.IsLocked(tomorrow, at(22, 0)))
	assert.True(t, p.IsLocked(tomorrow, at(23, 30)))
}

func TestPolicy_TodayAlwaysLocked(t *testing.T) {
	p := NewPolicy(DefaultCutoffHour)
	today := Date{Day: 10, Month: 2, Year: 2024}

	for _, hour := range []int{0, 8, 21, 22} {
		assert.True(t, p.IsLocked(today, at(hour, 0)), "hour %d", hour)
	}
}

func TestPolicy_PastAndFuture(t *testing.T) {
	p := NewPolicy(DefaultCutoffHour)

	assert.True(t, p.IsLocked(Date{Day: 29, Month: 1, Year: 2024}, at(9, 0)))
	assert.True(t, p.IsLocked(Date{Day: 31, Month: 11, Year: 2023}, at(9, 0)))
	assert.True(t, p.IsEditable(Date{Day: 12, Month: 2, Year: 2024}, at(23, 0)))
	assert.True(t, p.IsEditable(Date{Day: 1, Month: 0, Year: 2025}, at(23, 0)))
}

func TestPolicy_CutoffAcrossMonthBoundary(t *testing.T) {
	p := NewPolicy(DefaultCutoffHour)
	now := time.Date(2024, time.January, 31, 22, 15, 0, 0, time.UTC)

	assert.True(t, p.IsLocked(Date{Day: 1, Month: 1, Year: 2024}, now))
	assert.True(t, p.IsEditable(Date{Day: 2, Month: 1, Year: 2024}, now))
}

func TestPolicy_HourReadInClockLocation(t *testing.T) {
	p := NewPolicy(DefaultCutoffHour)
	ist := time.FixedZone("IST", 5*3600+1800)
	// 16:45 UTC is 22:15 in IST
	now := time.Date(2024, time.March, 10, 16, 45, 0, 0, time.UTC).In(ist)

	assert.True(t, p.IsLocked(Date{Day: 11, Month: 2, Year: 2024}, now))
}

func TestNewPolicy_FallsBackOnBadHour(t *testing.T) {
	assert.Equal(t, DefaultCutoffHour, NewPolicy(24).CutoffHour)
	assert.Equal(t, DefaultCutoffHour, NewPolicy(-1).CutoffHour)
	assert.Equal(t, 20, NewPolicy(20).CutoffHour)
}

func TestInclusiveAndExclusiveComparisons(t *testing.T) {
	today := Date{Day: 10, Month: 2, Year: 2024}

	assert.True(t, IsOnOrBefore(today, today))
	assert.False(t, IsBefore(today, today))
	assert.True(t, IsBefore(Date{Day: 9, Month: 2, Year: 2024}, today))
	assert.False(t, IsOnOrBefore(Date{Day: 11, Month: 2, Year: 2024}, today))

	now := at(12, 0)
	assert.False(t, IsPast(today, now))
	assert.True(t, IsToday(today, now))
	assert.True(t, IsPast(Date{Day: 9, Month: 2, Year: 2024}, now))
}
