// Package meals holds the mess bookkeeping rules: the meal model, month
// calendar metadata, the date lock policy, opt-out aggregation and the CSV
// report. Everything here is pure and safe for concurrent use.
package meals

import "fmt"

// MealType is one of the four daily mess meals.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Snacks    MealType = "snacks"
	Dinner    MealType = "dinner"
)

// MealTypes lists the meals in display and export order.
var MealTypes = []MealType{Breakfast, Lunch, Snacks, Dinner}

var mealLabels = map[MealType]string{
	Breakfast: "Breakfast",
	Lunch:     "Lunch",
	Snacks:    "Snacks",
	Dinner:    "Dinner",
}

// ParseMealType converts a lowercase meal name into a MealType.
func ParseMealType(s string) (MealType, error) {
	m := MealType(s)
	if _, ok := mealLabels[m]; !ok {
		return "", fmt.Errorf("unknown meal type %q", s)
	}
	return m, nil
}

// Label returns the human readable name of the meal.
func (m MealType) Label() string {
	return mealLabels[m]
}

// MealStatus records, for one resident and one day, which meals they will
// eat. true means opted in, false means opted out.
type MealStatus struct {
	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Snacks    bool `json:"snacks"`
	Dinner    bool `json:"dinner"`
}

// DefaultMealStatus is the status of a day that has no marking: every meal
// is taken.
func DefaultMealStatus() MealStatus {
	return MealStatus{Breakfast: true, Lunch: true, Snacks: true, Dinner: true}
}

// Get reports the status of a single meal.
func (s MealStatus) Get(m MealType) bool {
	switch m {
	case Breakfast:
		return s.Breakfast
	case Lunch:
		return s.Lunch
	case Snacks:
		return s.Snacks
	case Dinner:
		return s.Dinner
	}
	return false
}

// HasOptedIn is true when at least one meal is taken.
func (s MealStatus) HasOptedIn() bool {
	return s.Breakfast || s.Lunch || s.Snacks || s.Dinner
}

// OptedOutEntirely is true when every meal of the day is skipped.
func (s MealStatus) OptedOutEntirely() bool {
	return !s.HasOptedIn()
}

// Taken counts the meals the resident will eat.
func (s MealStatus) Taken() int {
	n := 0
	for _, m := range MealTypes {
		if s.Get(m) {
			n++
		}
	}
	return n
}

// Marking is the persisted preference of one resident for one date. At most
// one marking exists per (date, resident); a later write replaces it.
type Marking struct {
	Date       Date       `json:"date"`
	ResidentID int64      `json:"residentId"`
	HostelID   string     `json:"hostelId"`
	Meals      MealStatus `json:"meals"`
}
