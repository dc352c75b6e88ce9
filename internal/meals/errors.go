package meals

import "errors"

var (
	ErrInvalidYear  = errors.New("year must be between 1 and 9999")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidDay   = errors.New("day is outside the month")

	// ErrDateLocked is returned by write paths when the policy forbids
	// editing a date.
	ErrDateLocked = errors.New("preferences cannot be edited for the day anymore")

	// Integrity violations: the store must never hand these to the
	// aggregator since markings are upserted by (date, resident).
	ErrDuplicateDay     = errors.New("more than one group for the same day")
	ErrDuplicateMarking = errors.New("more than one marking for the same resident and day")
	ErrDayMismatch      = errors.New("group does not belong to the requested day")
)
