package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
)

func setupGroupTest(t *testing.T) (*GroupService, *mockRepos) {
	t.Helper()
	repo, mocks := newMockRepository()
	svc := NewGroupService(repo, zap.NewNop())
	return svc, mocks
}

func seedProfile(t *testing.T, svc *GroupService) {
	t.Helper()
	err := svc.SaveProfile(context.Background(),
		&model.TimeProfile{Key: "standard", Name: "Standard"},
		[]model.TimeSlot{
			{Pos: 0, Name: "Day-1", StartTime: "09:00", EndTime: "21:00"},
			{Pos: 1, Name: "Day-2", StartTime: "10:00", EndTime: "22:00"},
		})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
}

// ── profiles ──

func TestSaveProfile_RejectsBadSlotTime(t *testing.T) {
	svc, _ := setupGroupTest(t)

	err := svc.SaveProfile(context.Background(),
		&model.TimeProfile{Key: "bad", Name: "Bad"},
		[]model.TimeSlot{{Pos: 0, StartTime: "9am", EndTime: "21:00"}})
	if !errors.Is(err, ErrInvalidSlotTime) {
		t.Errorf("err = %v, want ErrInvalidSlotTime", err)
	}
}

func TestSaveProfile_ReplacesSlots(t *testing.T) {
	svc, _ := setupGroupTest(t)
	seedProfile(t, svc)
	ctx := context.Background()

	err := svc.SaveProfile(ctx,
		&model.TimeProfile{Key: "standard", Name: "Standard"},
		[]model.TimeSlot{{Pos: 0, Name: "Only", StartTime: "08:00", EndTime: "20:00"}})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	profile, err := svc.GetProfile(ctx, "standard")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if len(profile.Slots) != 1 || profile.Slots[0].Name != "Only" {
		t.Errorf("slots = %+v, want single replaced slot", profile.Slots)
	}
}

// ── groups ──

func TestSaveGroup_RejectsUnsupportedCycle(t *testing.T) {
	svc, _ := setupGroupTest(t)
	seedProfile(t, svc)

	group := &model.Group{Key: "alpha", Name: "Alpha", CycleLengthDays: 6,
		Epoch: time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)}
	if err := svc.SaveGroup(context.Background(), group, "standard"); err == nil {
		t.Error("cycle length 6 accepted")
	}
}

func TestSaveGroup_RequiresProfile(t *testing.T) {
	svc, _ := setupGroupTest(t)

	group := &model.Group{Key: "alpha", Name: "Alpha", CycleLengthDays: 4,
		Epoch: time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)}
	if err := svc.SaveGroup(context.Background(), group, "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestSaveGroup_BindsProfileAndNormalizesEpoch(t *testing.T) {
	svc, _ := setupGroupTest(t)
	seedProfile(t, svc)
	ctx := context.Background()

	group := &model.Group{Key: "alpha", Name: "Alpha", CycleLengthDays: 4,
		Epoch: time.Date(2025, 8, 28, 15, 30, 0, 0, time.UTC)}
	if err := svc.SaveGroup(ctx, group, "standard"); err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}

	stored, err := svc.GetGroup(ctx, "alpha")
	if err != nil {
		t.Fatalf("GetGroup: %v", err)
	}
	if stored.ProfileID == 0 {
		t.Error("profile not bound")
	}
	if h, m, _ := stored.Epoch.Clock(); h != 0 || m != 0 {
		t.Errorf("epoch not normalized to midnight: %v", stored.Epoch)
	}
}

// ── membership ──

func TestAddMember_CreatesPlaceholderUser(t *testing.T) {
	svc, mocks := setupGroupTest(t)
	seedProfile(t, svc)
	ctx := context.Background()

	group := &model.Group{Key: "alpha", Name: "Alpha", CycleLengthDays: 4,
		Epoch: time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)}
	if err := svc.SaveGroup(ctx, group, "standard"); err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}

	if err := svc.AddMember(ctx, "alpha", 77, 0, model.RankSpecialist); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, ok := mocks.user.users[77]; !ok {
		t.Error("placeholder user 77 not created")
	}

	members, err := svc.ListMembers(ctx, "alpha")
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 1 || members[0].UserID != 77 {
		t.Errorf("members = %+v, want user 77", members)
	}
}

func TestAddMember_Validation(t *testing.T) {
	svc, _ := setupGroupTest(t)
	seedProfile(t, svc)
	ctx := context.Background()

	group := &model.Group{Key: "alpha", Name: "Alpha", CycleLengthDays: 4,
		Epoch: time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)}
	if err := svc.SaveGroup(ctx, group, "standard"); err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}

	if err := svc.AddMember(ctx, "alpha", 1, 2, model.RankSpecialist); err == nil {
		t.Error("base position 2 accepted")
	}
	if err := svc.AddMember(ctx, "alpha", 1, 0, 5); !errors.Is(err, ErrInvalidRank) {
		t.Errorf("err = %v, want ErrInvalidRank", err)
	}
}

func TestRemoveMember_Missing(t *testing.T) {
	svc, _ := setupGroupTest(t)
	seedProfile(t, svc)
	ctx := context.Background()

	group := &model.Group{Key: "alpha", Name: "Alpha", CycleLengthDays: 4,
		Epoch: time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)}
	if err := svc.SaveGroup(ctx, group, "standard"); err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}

	if err := svc.RemoveMember(ctx, "alpha", 12); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("err = %v, want ErrMemberNotFound", err)
	}
}
