package mess

import (
	"time"

	"MessAPI/internal/meals"
)

type Resident struct {
	ID        int64     `json:"id"`
	Admission string    `json:"admission"`
	Name      string    `json:"name"`
	Room      string    `json:"room"`
	Hostel    string    `json:"hostel"`
	CreatedAt time.Time `json:"createdAt"`
}

// Row returns the fields printed in the monthly report
func (r Resident) Row() meals.ResidentRow {
	return meals.ResidentRow{ID: r.ID, Room: r.Room, Name: r.Name, Admission: r.Admission}
}

// DateInput is a calendar date in a request body. Month is zero based.
type DateInput struct {
	Day   *int `json:"day" binding:"required"`
	Month *int `json:"month" binding:"required"`
	Year  *int `json:"year" binding:"required"`
}

func (d DateInput) Date() meals.Date {
	return meals.Date{Day: *d.Day, Month: *d.Month, Year: *d.Year}
}

// MealStatusInput requires all four meals; a partial status is rejected
// rather than defaulted.
type MealStatusInput struct {
	Breakfast *bool `json:"breakfast" binding:"required"`
	Lunch     *bool `json:"lunch" binding:"required"`
	Snacks    *bool `json:"snacks" binding:"required"`
	Dinner    *bool `json:"dinner" binding:"required"`
}

func (m MealStatusInput) Status() meals.MealStatus {
	return meals.MealStatus{Breakfast: *m.Breakfast, Lunch: *m.Lunch, Snacks: *m.Snacks, Dinner: *m.Dinner}
}

type MarkingRequest struct {
	Date  DateInput       `json:"date"`
	Meals MealStatusInput `json:"meals"`
}

type DayPreference struct {
	Date  meals.Date       `json:"date"`
	Meals meals.MealStatus `json:"meals"`
}

type CalendarCell struct {
	Day        int              `json:"day"`
	Locked     bool             `json:"locked"`
	Today      bool             `json:"today"`
	Tomorrow   bool             `json:"tomorrow"`
	MealsTaken int              `json:"mealsTaken"`
	Meals      meals.MealStatus `json:"meals"`
}

type CalendarResponse struct {
	Month       meals.MonthInfo `json:"month"`
	Preferences []DayPreference `json:"preferences"`
	Cells       []CalendarCell  `json:"cells"`
}

type DayCountResponse struct {
	Hostel         string          `json:"hostel"`
	Date           meals.Date      `json:"date"`
	TotalResidents int             `json:"totalResidents"`
	Attendance     meals.DayCounts `json:"attendance"`
	OptOuts        meals.DayCounts `json:"optOuts"`
}

type MonthCountRow struct {
	Day        int             `json:"day"`
	Past       bool            `json:"past"`
	Today      bool            `json:"today"`
	Attendance meals.DayCounts `json:"attendance"`
}

type MonthCountResponse struct {
	Hostel         string          `json:"hostel"`
	Month          meals.MonthInfo `json:"month"`
	TotalResidents int             `json:"totalResidents"`
	Days           []MonthCountRow `json:"days"`
}

type ResidentPage struct {
	Page           int        `json:"page"`
	TotalPages     int        `json:"totalPages"`
	TotalResidents int        `json:"totalResidents"`
	Residents      []Resident `json:"residents"`
}

type ReportRow struct {
	Resident
	Days int `json:"days"`
}

type ReportResponse struct {
	Hostel    string          `json:"hostel"`
	Month     meals.MonthInfo `json:"month"`
	Residents []ReportRow     `json:"residents"`
}

type HostelsRequest struct {
	Hostels map[string]string `json:"hostels" binding:"required"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type PasswordResetRequest struct {
	Password string `json:"password" binding:"required"`
}

type ValidationResponse struct {
	OK     bool         `json:"ok"`
	Rules  []meals.Rule `json:"rules"`
	Errors []string     `json:"errors"`
}

//   This project is the backend API for the hostel mess meal tracker. Residents mark the meals they skip, managers see the counts.
//   Mess API Copyright (C) 2025 Mess API contributors
//       This program is free software: you can redistribute it and/or modify
//       it under the terms of the GNU General Public License as published by
//       the Free Software Foundation, either version 3 of the License, or
//       (at your option) any later version.

//       This program is distributed in the hope that it will be useful,
//       but WITHOUT ANY WARRANTY; without even the implied warranty of
//       MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//       GNU General Public License for more details.

//       You should have received a copy of the GNU General Public License
//       along with this program.  If not, see <https://www.gnu.org/licenses/>.
