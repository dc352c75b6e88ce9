package mess

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"MessAPI/internal/auth"
	"MessAPI/internal/meals"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrAdmissionTaken  = errors.New("a resident with this admission number already exists")
	ErrUnknownHostel   = errors.New("unknown hostel")
	ErrUnknownResident = errors.New("resident no longer exists")
)

type Repository struct {
	db *sql.DB
}

// NewRepository creates a new mess repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// --- Hostels ---

// GetHostels returns hostel id -> display name
func (r *Repository) GetHostels(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM hostels ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hostels := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		hostels[id] = name
	}
	return hostels, rows.Err()
}

// HostelExists reports whether the hostel id is known
func (r *Repository) HostelExists(ctx context.Context, hostelID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hostels WHERE id = ?", hostelID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplaceHostels swaps the hostel list for the given one
func (r *Repository) ReplaceHostels(ctx context.Context, hostels map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Defer a rollback in case anything fails.
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM hostels"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO hostels (id, name) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, name := range hostels {
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if id == "" || name == "" {
			return fmt.Errorf("hostel id and name must not be empty")
		}
		if _, err := stmt.ExecContext(ctx, id, name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// --- Residents ---

const residentColumns = "id, admission, name, room, hostel_id, created_at"

func scanResident(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*Resident, error) {
	var res Resident
	dest := append([]interface{}{&res.ID, &res.Admission, &res.Name, &res.Room, &res.Hostel, &res.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateResident adds a resident to the roster
func (r *Repository) CreateResident(ctx context.Context, in meals.ResidentInput, passwordHash string) (*Resident, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO residents (admission, name, room, hostel_id, password_hash)
		VALUES (?, ?, ?, ?, ?)`,
		in.Admission, strings.TrimSpace(in.Name), strings.TrimSpace(in.Room), in.Hostel, passwordHash,
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrAdmissionTaken
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetResidentByID(ctx, id)
}

// GetResidentByID returns a resident, nil when none exists
func (r *Repository) GetResidentByID(ctx context.Context, id int64) (*Resident, error) {
	res, err := scanResident(r.db.QueryRowContext(ctx,
		"SELECT "+residentColumns+" FROM residents WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return res, err
}

// GetResidentByAdmission returns a resident and its password hash, nil when
// none exists
func (r *Repository) GetResidentByAdmission(ctx context.Context, admission string) (*Resident, string, error) {
	var hash string
	res, err := scanResident(r.db.QueryRowContext(ctx,
		"SELECT "+residentColumns+", password_hash FROM residents WHERE admission = ?", admission), &hash)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return res, hash, nil
}

// ResidentCredentials implements auth.CredentialStore
func (r *Repository) ResidentCredentials(ctx context.Context, admission string) (*auth.User, string, error) {
	res, hash, err := r.GetResidentByAdmission(ctx, admission)
	if err != nil || res == nil {
		return nil, "", err
	}
	return &auth.User{
		ID:        res.ID,
		Role:      auth.RoleResident,
		Name:      res.Name,
		Hostel:    res.Hostel,
		Room:      res.Room,
		Admission: res.Admission,
	}, hash, nil
}

// DeleteResident removes a resident and, through the foreign key, their
// markings. It reports false when no resident had that admission number.
func (r *Repository) DeleteResident(ctx context.Context, admission string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM residents WHERE admission = ?", admission)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpdatePasswordHash replaces a resident's password hash
func (r *Repository) UpdatePasswordHash(ctx context.Context, admission, hash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE residents SET password_hash = ? WHERE admission = ?", hash, admission)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountResidents returns the roster size of a hostel
func (r *Repository) CountResidents(ctx context.Context, hostelID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM residents WHERE hostel_id = ?", hostelID).Scan(&count)
	return count, err
}

// ListResidents returns a hostel's residents sorted by room then name.
// limit <= 0 returns all of them.
func (r *Repository) ListResidents(ctx context.Context, hostelID string, limit, offset int) ([]Resident, error) {
	query := "SELECT " + residentColumns + " FROM residents WHERE hostel_id = ? ORDER BY room, name, id"
	args := []interface{}{hostelID}
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	residents := []Resident{}
	for rows.Next() {
		res, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		residents = append(residents, *res)
	}
	return residents, rows.Err()
}

// --- Markings ---

// UpdateResidentMarking stores the full meal status of a resident for a
// date, replacing any earlier marking. The lock policy is checked against
// now, which must come from the server clock.
func (r *Repository) UpdateResidentMarking(ctx context.Context, m meals.Marking, policy meals.Policy, now time.Time) error {
	if err := m.Date.Validate(); err != nil {
		return err
	}
	if policy.IsLocked(m.Date, now) {
		return meals.ErrDateLocked
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO markings (resident_id, hostel_id, year, month, day, breakfast, lunch, snacks, dinner, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (resident_id, year, month, day) DO UPDATE SET
			hostel_id = excluded.hostel_id,
			breakfast = excluded.breakfast,
			lunch = excluded.lunch,
			snacks = excluded.snacks,
			dinner = excluded.dinner,
			updated_at = excluded.updated_at`,
		m.ResidentID, m.HostelID, m.Date.Year, m.Date.Month, m.Date.Day,
		m.Meals.Breakfast, m.Meals.Lunch, m.Meals.Snacks, m.Meals.Dinner, now,
	)
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return ErrUnknownResident
	}
	return err
}

const markingColumns = "resident_id, hostel_id, year, month, day, breakfast, lunch, snacks, dinner"

func scanMarking(row interface{ Scan(...interface{}) error }) (meals.Marking, error) {
	var m meals.Marking
	err := row.Scan(&m.ResidentID, &m.HostelID, &m.Date.Year, &m.Date.Month, &m.Date.Day,
		&m.Meals.Breakfast, &m.Meals.Lunch, &m.Meals.Snacks, &m.Meals.Dinner)
	return m, err
}

func (r *Repository) queryMarkings(ctx context.Context, query string, args ...interface{}) ([]meals.Marking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	markings := []meals.Marking{}
	for rows.Next() {
		m, err := scanMarking(rows)
		if err != nil {
			return nil, err
		}
		markings = append(markings, m)
	}
	return markings, rows.Err()
}

// ResidentMonthMarkings returns a resident's markings of a month by day
func (r *Repository) ResidentMonthMarkings(ctx context.Context, residentID int64, q meals.MonthQuery) ([]meals.Marking, error) {
	return r.queryMarkings(ctx, `
		SELECT `+markingColumns+` FROM markings
		WHERE resident_id = ? AND year = ? AND month = ?
		ORDER BY day`, residentID, q.Year, q.Month)
}

// ResidentDayMarking returns a resident's marking of one day, nil when the
// resident has not marked it
func (r *Repository) ResidentDayMarking(ctx context.Context, residentID int64, q meals.DayQuery) (*meals.Marking, error) {
	m, err := scanMarking(r.db.QueryRowContext(ctx, `
		SELECT `+markingColumns+` FROM markings
		WHERE resident_id = ? AND year = ? AND month = ? AND day = ?`,
		residentID, q.Year, q.Month, q.Day))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MonthDayGroups returns a hostel's markings of a month grouped by day
func (r *Repository) MonthDayGroups(ctx context.Context, hostelID string, q meals.MonthQuery) ([]meals.DayGroup, error) {
	markings, err := r.queryMarkings(ctx, `
		SELECT `+markingColumns+` FROM markings
		WHERE hostel_id = ? AND year = ? AND month = ?
		ORDER BY day`, hostelID, q.Year, q.Month)
	if err != nil {
		return nil, err
	}
	return groupByDay(markings), nil
}

// DayGroups returns a hostel's markings of a single day as at most one group
func (r *Repository) DayGroups(ctx context.Context, hostelID string, q meals.DayQuery) ([]meals.DayGroup, error) {
	markings, err := r.queryMarkings(ctx, `
		SELECT `+markingColumns+` FROM markings
		WHERE hostel_id = ? AND year = ? AND month = ? AND day = ?`,
		hostelID, q.Year, q.Month, q.Day)
	if err != nil {
		return nil, err
	}
	return groupByDay(markings), nil
}

// groupByDay folds markings sorted by day into one group per day
func groupByDay(markings []meals.Marking) []meals.DayGroup {
	groups := []meals.DayGroup{}
	for _, m := range markings {
		if n := len(groups); n > 0 && groups[n-1].Day == m.Date.Day {
			groups[n-1].Markings = append(groups[n-1].Markings, m.Meals)
			continue
		}
		groups = append(groups, meals.DayGroup{Day: m.Date.Day, Markings: []meals.MealStatus{m.Meals}})
	}
	return groups
}

// HostelResidentMarkings returns every marking of a hostel for a month as
// resident/day triples
func (r *Repository) HostelResidentMarkings(ctx context.Context, hostelID string, q meals.MonthQuery) ([]meals.ResidentMarking, error) {
	markings, err := r.queryMarkings(ctx, `
		SELECT `+markingColumns+` FROM markings
		WHERE hostel_id = ? AND year = ? AND month = ?
		ORDER BY resident_id, day`, hostelID, q.Year, q.Month)
	if err != nil {
		return nil, err
	}

	out := make([]meals.ResidentMarking, len(markings))
	for i, m := range markings {
		out[i] = meals.ResidentMarking{ResidentID: m.ResidentID, Day: m.Date.Day, Status: m.Meals}
	}
	return out, nil
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
