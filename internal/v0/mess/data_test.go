package mess

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"MessAPI/internal/databases"
	"MessAPI/internal/meals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mess.db")
	require.NoError(t, databases.Migrate(path, databases.Mess))
	db, err := databases.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	require.NoError(t, repo.ReplaceHostels(context.Background(), map[string]string{
		"bh1": "Boys Hostel 1",
		"gh1": "Girls Hostel 1",
	}))
	return repo
}

func addResident(t *testing.T, repo *Repository, admission, name, room, hostel string) *Resident {
	t.Helper()
	res, err := repo.CreateResident(context.Background(), meals.ResidentInput{
		Name:      name,
		Admission: admission,
		Hostel:    hostel,
		Room:      room,
	}, "hash")
	require.NoError(t, err)
	return res
}

// 2024-03-04 21:00, before the cutoff
var testNow = time.Date(2024, time.March, 4, 21, 0, 0, 0, time.UTC)

func march(day int) meals.Date {
	return meals.Date{Day: day, Month: 2, Year: 2024}
}

func TestHostels(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	hostels, err := repo.GetHostels(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bh1": "Boys Hostel 1", "gh1": "Girls Hostel 1"}, hostels)

	ok, err := repo.HostelExists(ctx, "bh1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.ReplaceHostels(ctx, map[string]string{"bh2": "Boys Hostel 2"}))
	ok, err = repo.HostelExists(ctx, "bh1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, repo.ReplaceHostels(ctx, map[string]string{" ": "Blank"}))
	hostels, err = repo.GetHostels(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bh2": "Boys Hostel 2"}, hostels, "failed replace must roll back")
}

func TestCreateResident_DuplicateAdmission(t *testing.T) {
	repo := newTestRepository(t)
	addResident(t, repo, "240001", "Jane Doe", "A1", "bh1")

	_, err := repo.CreateResident(context.Background(), meals.ResidentInput{
		Name: "John Roe", Admission: "240001", Hostel: "bh1", Room: "A2",
	}, "hash")
	assert.ErrorIs(t, err, ErrAdmissionTaken)
}

func TestResidentCredentials(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	res := addResident(t, repo, "240001", "Jane Doe", "A1", "bh1")

	user, hash, err := repo.ResidentCredentials(ctx, "240001")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, res.ID, user.ID)
	assert.Equal(t, "bh1", user.Hostel)
	assert.Equal(t, "hash", hash)

	user, _, err = repo.ResidentCredentials(ctx, "299999")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestListResidents_SortedByRoomThenName(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	addResident(t, repo, "240003", "Zed", "B2", "bh1")
	addResident(t, repo, "240002", "Bob", "A1", "bh1")
	addResident(t, repo, "240001", "Amy", "A1", "bh1")
	addResident(t, repo, "240004", "Other", "A0", "gh1")

	all, err := repo.ListResidents(ctx, "bh1", 0, 0)
	require.NoError(t, err)
	var names []string
	for _, r := range all {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Amy", "Bob", "Zed"}, names)

	page, err := repo.ListResidents(ctx, "bh1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Zed", page[0].Name)

	count, err := repo.CountResidents(ctx, "bh1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpdateResidentMarking_Upserts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	res := addResident(t, repo, "240001", "Jane Doe", "A1", "bh1")
	policy := meals.NewPolicy(meals.DefaultCutoffHour)

	m := meals.Marking{Date: march(10), ResidentID: res.ID, HostelID: "bh1", Meals: meals.MealStatus{Breakfast: false, Lunch: true, Snacks: true, Dinner: true}}
	require.NoError(t, repo.UpdateResidentMarking(ctx, m, policy, testNow))

	m.Meals = meals.MealStatus{}
	require.NoError(t, repo.UpdateResidentMarking(ctx, m, policy, testNow))

	q, err := meals.NewDayQuery(march(10))
	require.NoError(t, err)
	got, err := repo.ResidentDayMarking(ctx, res.ID, q)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meals.MealStatus{}, got.Meals)

	month, err := repo.ResidentMonthMarkings(ctx, res.ID, q.MonthQuery())
	require.NoError(t, err)
	assert.Len(t, month, 1)
}

func TestUpdateResidentMarking_Locked(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	res := addResident(t, repo, "240001", "Jane Doe", "A1", "bh1")
	policy := meals.NewPolicy(meals.DefaultCutoffHour)
	afterCutoff := time.Date(2024, time.March, 4, 22, 0, 0, 0, time.UTC)

	mark := func(d meals.Date, now time.Time) error {
		return repo.UpdateResidentMarking(ctx, meals.Marking{Date: d, ResidentID: res.ID, HostelID: "bh1"}, policy, now)
	}

	assert.ErrorIs(t, mark(march(4), testNow), meals.ErrDateLocked)
	assert.NoError(t, mark(march(5), testNow))
	assert.ErrorIs(t, mark(march(5), afterCutoff), meals.ErrDateLocked)
	assert.NoError(t, mark(march(6), afterCutoff))
	assert.ErrorIs(t, mark(meals.Date{Day: 30, Month: 1, Year: 2024}, testNow), meals.ErrInvalidDay)
}

func TestUpdateResidentMarking_DeletedResident(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	res := addResident(t, repo, "240001", "Jane Doe", "A1", "bh1")
	_, err := repo.DeleteResident(ctx, "240001")
	require.NoError(t, err)

	err = repo.UpdateResidentMarking(ctx, meals.Marking{Date: march(5), ResidentID: res.ID, HostelID: "bh1"}, meals.NewPolicy(22), testNow)
	assert.ErrorIs(t, err, ErrUnknownResident)
}

func TestDeleteResident_RemovesMarkings(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	res := addResident(t, repo, "240001", "Jane Doe", "A1", "bh1")
	require.NoError(t, repo.UpdateResidentMarking(ctx, meals.Marking{Date: march(10), ResidentID: res.ID, HostelID: "bh1"}, meals.NewPolicy(22), testNow))

	deleted, err := repo.DeleteResident(ctx, "240001")
	require.NoError(t, err)
	assert.True(t, deleted)

	groups, err := repo.MonthDayGroups(ctx, "bh1", meals.MonthQuery{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Empty(t, groups)

	deleted, err = repo.DeleteResident(ctx, "240001")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMonthDayGroups_GroupsByDay(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	policy := meals.NewPolicy(22)
	a := addResident(t, repo, "240001", "Amy", "A1", "bh1")
	b := addResident(t, repo, "240002", "Bob", "A2", "bh1")
	g := addResident(t, repo, "240003", "Gia", "G1", "gh1")

	for _, m := range []meals.Marking{
		{Date: march(5), ResidentID: a.ID, HostelID: "bh1"},
		{Date: march(5), ResidentID: b.ID, HostelID: "bh1", Meals: meals.DefaultMealStatus()},
		{Date: march(7), ResidentID: a.ID, HostelID: "bh1"},
		{Date: march(5), ResidentID: g.ID, HostelID: "gh1"},
	} {
		require.NoError(t, repo.UpdateResidentMarking(ctx, m, policy, testNow))
	}

	groups, err := repo.MonthDayGroups(ctx, "bh1", meals.MonthQuery{Year: 2024, Month: 2})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 5, groups[0].Day)
	assert.Len(t, groups[0].Markings, 2)
	assert.Equal(t, 7, groups[1].Day)

	day, err := repo.DayGroups(ctx, "bh1", meals.DayQuery{Year: 2024, Month: 2, Day: 7})
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, []meals.MealStatus{{}}, day[0].Markings)

	triples, err := repo.HostelResidentMarkings(ctx, "bh1", meals.MonthQuery{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Len(t, triples, 3)
}
