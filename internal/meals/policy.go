package meals

import "time"

// DefaultCutoffHour locks tomorrow's preferences from 22:00 today, once the
// kitchen has started planning.
const DefaultCutoffHour = 22

// Clock supplies the current instant in the mess time zone.
type Clock func() time.Time

// IsOnOrBefore reports d <= ref. The write guard and the calendar cells use
// this form, so "today" counts as already past.
func IsOnOrBefore(d, ref Date) bool {
	return d.Compare(ref) <= 0
}

// IsBefore reports d < ref. Reports use this form to render today apart
// from the days already gone.
func IsBefore(d, ref Date) bool {
	return d.Compare(ref) < 0
}

// Policy decides whether a day's preference may still change.
type Policy struct {
	CutoffHour int
}

// NewPolicy returns a policy with the given cutoff hour, falling back to
// DefaultCutoffHour for values outside 0..23.
func NewPolicy(cutoffHour int) Policy {
	if cutoffHour < 0 || cutoffHour > 23 {
		cutoffHour = DefaultCutoffHour
	}
	return Policy{CutoffHour: cutoffHour}
}

// IsLocked reports whether d can no longer be edited at now. Days up to and
// including today are locked; tomorrow is locked once now's wall clock hour
// reaches the cutoff. The hour is read in now's location.
func (p Policy) IsLocked(d Date, now time.Time) bool {
	today := DateOf(now)
	if IsOnOrBefore(d, today) {
		return true
	}
	return now.Hour() >= p.CutoffHour && IsOnOrBefore(d, today.AddDays(1))
}

// IsEditable is the negation of IsLocked.
func (p Policy) IsEditable(d Date, now time.Time) bool {
	return !p.IsLocked(d, now)
}

// IsPast reports whether d is strictly before now's calendar day.
func IsPast(d Date, now time.Time) bool {
	return IsBefore(d, DateOf(now))
}

// IsToday reports whether d is now's calendar day.
func IsToday(d Date, now time.Time) bool {
	return d.Compare(DateOf(now)) == 0
}
