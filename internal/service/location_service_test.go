package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
)

// ── test fixture ──
//
// Same "alpha" group as the duty tests: epoch 2025-08-28 (Thursday),
// 4-day cycle, U1/U3 at base position 0, U2 at base position 1.
// Cycle days 0 and 1 resolve to the day slots, days 2 and 3 to the
// night slots.

func setupLocationTest(t *testing.T, slots []model.TimeSlot) (*LocationService, *mockRepos) {
	t.Helper()
	repo, mocks := newMockRepository()
	logger := zap.NewNop()
	roster := &rosterResolver{repo: repo, logger: logger}
	svc := NewLocationService(repo, roster, logger)

	ctx := context.Background()
	profile := &model.TimeProfile{Key: "standard", Name: "Standard"}
	if err := mocks.profile.Upsert(ctx, profile); err != nil {
		t.Fatalf("profile setup: %v", err)
	}
	for i := range slots {
		slots[i].ProfileID = profile.ID
	}
	profile.Slots = slots

	group := &model.Group{
		Key:             "alpha",
		Name:            "Alpha",
		ProfileID:       profile.ID,
		Profile:         profile,
		Epoch:           time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC),
		CycleLengthDays: 4,
	}
	if err := mocks.group.Upsert(ctx, group); err != nil {
		t.Fatalf("group setup: %v", err)
	}
	for _, uid := range []int64{1, 2, 3} {
		mocks.user.users[uid] = &model.User{UserID: uid}
	}
	mocks.group.AddMember(ctx, group.ID, 1, 0, model.RankSpecialist)
	mocks.group.AddMember(ctx, group.ID, 2, 1, model.RankSpecialist)
	mocks.group.AddMember(ctx, group.ID, 3, 0, model.RankSpecialist)

	return svc, mocks
}

func standardSlots() []model.TimeSlot {
	return []model.TimeSlot{
		{Pos: 0, Name: "Day-1", StartTime: "09:00", EndTime: "21:00"},
		{Pos: 1, Name: "Day-2", StartTime: "10:00", EndTime: "22:00"},
		{Pos: 2, Name: "Night-1", StartTime: "21:00", EndTime: "09:00"},
		{Pos: 3, Name: "Night-2", StartTime: "22:00", EndTime: "10:00"},
	}
}

func seedOfficeHistory(mocks *mockRepos, userID int64, days int, before time.Time) {
	for i := 1; i <= days; i++ {
		mocks.location.rows = append(mocks.location.rows, model.LocationAssignment{
			GroupKey: "alpha",
			OnDate:   before.AddDate(0, 0, -i),
			UserID:   userID,
			Location: model.LocationOffice,
		})
	}
}

func locationsByUser(t *testing.T, mocks *mockRepos, onDate time.Time) map[int64]string {
	t.Helper()
	rows, err := mocks.location.ListByDate(context.Background(), onDate, "alpha")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	result := make(map[int64]string, len(rows))
	for _, r := range rows {
		result[r.UserID] = r.Location
	}
	return result
}

// ── business day ──

func TestAssignLocations_BusinessDayAllDayMembersOffice(t *testing.T) {
	svc, mocks := setupLocationTest(t, standardSlots())
	// Thursday, cycle day 0: everyone on a day slot.
	onDate := time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)

	result, err := svc.AssignLocations(context.Background(), "alpha", onDate)
	if err != nil {
		t.Fatalf("AssignLocations: %v", err)
	}
	if result.Written != 3 {
		t.Fatalf("written = %d, want 3", result.Written)
	}

	locs := locationsByUser(t, mocks, onDate)
	for _, uid := range []int64{1, 2, 3} {
		if locs[uid] != model.LocationOffice {
			t.Errorf("user %d location = %q, want office", uid, locs[uid])
		}
	}
}

func TestAssignLocations_HolidayOverridesWeekday(t *testing.T) {
	svc, mocks := setupLocationTest(t, standardSlots())
	// Monday, cycle day 0, marked as holiday: one office pick only.
	onDate := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	mocks.calendar.SetHoliday(context.Background(), onDate, true)

	_, err := svc.AssignLocations(context.Background(), "alpha", onDate)
	if err != nil {
		t.Fatalf("AssignLocations: %v", err)
	}

	locs := locationsByUser(t, mocks, onDate)
	officeCount := 0
	for _, loc := range locs {
		if loc == model.LocationOffice {
			officeCount++
		}
	}
	if officeCount != 1 {
		t.Errorf("office picks = %d, want 1 on a holiday", officeCount)
	}
}

// ── weekend lottery ──

func TestAssignLocations_WeekendTieBreak(t *testing.T) {
	svc, mocks := setupLocationTest(t, standardSlots())
	// Saturday 2025-09-06, cycle day 1: everyone on a day slot.
	onDate := time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	// Office history [5,5,2]: U1 and U2 are tie candidates.
	seedOfficeHistory(mocks, 1, 5, onDate)
	seedOfficeHistory(mocks, 2, 5, onDate)
	seedOfficeHistory(mocks, 3, 2, onDate)

	if _, err := svc.AssignLocations(ctx, "alpha", onDate); err != nil {
		t.Fatalf("AssignLocations: %v", err)
	}

	locs := locationsByUser(t, mocks, onDate)
	if locs[1] != model.LocationOffice {
		t.Errorf("user 1 = %q, want office (first of tied subset)", locs[1])
	}
	if locs[2] != model.LocationHome || locs[3] != model.LocationHome {
		t.Errorf("users 2,3 = %q,%q, want home", locs[2], locs[3])
	}
	if cursor, _ := mocks.locationCursor.Get(ctx, "alpha"); cursor == nil || *cursor != 1 {
		t.Errorf("cursor = %v, want 1", cursor)
	}

	// Rerun for the same date: the first winner now carries an extra
	// office day and wins alone under the most-days policy, and the
	// rewrite leaves exactly one office row.
	if _, err := svc.AssignLocations(ctx, "alpha", onDate); err != nil {
		t.Fatalf("AssignLocations rerun: %v", err)
	}
	locs = locationsByUser(t, mocks, onDate)
	officeCount := 0
	for _, loc := range locs {
		if loc == model.LocationOffice {
			officeCount++
		}
	}
	if officeCount != 1 {
		t.Errorf("office picks after rerun = %d, want 1 (clear-then-write)", officeCount)
	}
}

// ── night coverage ──

func TestAssignLocations_NightAlwaysSinglePick(t *testing.T) {
	svc, mocks := setupLocationTest(t, standardSlots())
	// Wednesday 2025-09-03, cycle day 2: everyone on a night slot.
	onDate := time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)

	result, err := svc.AssignLocations(context.Background(), "alpha", onDate)
	if err != nil {
		t.Fatalf("AssignLocations: %v", err)
	}
	if result.Written != 3 {
		t.Fatalf("written = %d, want 3", result.Written)
	}

	locs := locationsByUser(t, mocks, onDate)
	officeCount := 0
	for _, loc := range locs {
		if loc == model.LocationOffice {
			officeCount++
		}
	}
	if officeCount != 1 {
		t.Errorf("office picks = %d, want exactly 1 for night coverage", officeCount)
	}
}

// ── shared cursor ordering ──

func TestAssignLocations_DayPickFeedsNightCursor(t *testing.T) {
	// Slot 0 stays a day window, slot 1 crosses midnight. On Saturday
	// 2025-09-06 (cycle day 1) U2 lands on the day slot while U1 and
	// U3 land on the night slot, so both sub-decisions fire.
	slots := []model.TimeSlot{
		{Pos: 0, Name: "Day", StartTime: "09:00", EndTime: "21:00"},
		{Pos: 1, Name: "Night", StartTime: "21:00", EndTime: "09:00"},
		{Pos: 2, Name: "Night-1", StartTime: "21:00", EndTime: "09:00"},
		{Pos: 3, Name: "Night-2", StartTime: "22:00", EndTime: "10:00"},
	}
	svc, mocks := setupLocationTest(t, slots)
	onDate := time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if _, err := svc.AssignLocations(ctx, "alpha", onDate); err != nil {
		t.Fatalf("AssignLocations: %v", err)
	}

	locs := locationsByUser(t, mocks, onDate)
	if locs[2] != model.LocationOffice {
		t.Errorf("day member 2 = %q, want office", locs[2])
	}
	if locs[1] != model.LocationOffice {
		t.Errorf("night member 1 = %q, want office", locs[1])
	}
	if locs[3] != model.LocationHome {
		t.Errorf("night member 3 = %q, want home", locs[3])
	}

	// The day pick moved the shared cursor to 2 before the night pick
	// ran; the night pick then advanced it to its own winner.
	if cursor, _ := mocks.locationCursor.Get(ctx, "alpha"); cursor == nil || *cursor != 1 {
		t.Errorf("cursor = %v, want 1 (night winner)", cursor)
	}
}

// ── errors and edge cases ──

func TestAssignLocations_UnknownGroup(t *testing.T) {
	svc, _ := setupLocationTest(t, standardSlots())

	_, err := svc.AssignLocations(context.Background(), "missing", time.Now())
	if !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("err = %v, want ErrGroupNotFound", err)
	}
}

func TestAssignLocations_ExcludedMemberGetsNoRow(t *testing.T) {
	svc, mocks := setupLocationTest(t, standardSlots())
	onDate := time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	mocks.exclusion.Add(ctx, &model.Exclusion{
		UserID:   2,
		DateFrom: onDate,
		DateTo:   onDate,
	})

	result, err := svc.AssignLocations(ctx, "alpha", onDate)
	if err != nil {
		t.Fatalf("AssignLocations: %v", err)
	}
	if result.Written != 2 {
		t.Errorf("written = %d, want 2 (excluded member skipped)", result.Written)
	}
	locs := locationsByUser(t, mocks, onDate)
	if _, ok := locs[2]; ok {
		t.Error("excluded user 2 received a location row")
	}
}

func TestAssignLocations_EightDayCycleOffDay(t *testing.T) {
	svc, mocks := setupLocationTest(t, standardSlots())
	ctx := context.Background()

	group, _ := mocks.group.GetByKey(ctx, "alpha")
	group.CycleLengthDays = 8
	// Cycle day 4 of the 8-day rotation: everyone is off.
	onDate := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	result, err := svc.AssignLocations(ctx, "alpha", onDate)
	if err != nil {
		t.Fatalf("AssignLocations: %v", err)
	}
	if result.Written != 0 {
		t.Errorf("written = %d, want 0 on an off day", result.Written)
	}
}

func TestOfficeReport_InvalidRange(t *testing.T) {
	svc, _ := setupLocationTest(t, standardSlots())

	from := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.OfficeReport(context.Background(), "alpha", from, to); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("err = %v, want ErrInvalidDateRange", err)
	}
}
