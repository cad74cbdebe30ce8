package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
	"github.com/budyakovan/shift-tracker-bot/internal/rotation"
)

// GroupService manages users, time profiles, rotation groups, and
// group membership.
type GroupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewGroupService(repo *repository.Repository, logger *zap.Logger) *GroupService {
	return &GroupService{repo: repo, logger: logger}
}

// ── users ──

func (s *GroupService) UpsertUser(ctx context.Context, user *model.User) error {
	return s.repo.User.Upsert(ctx, user)
}

func (s *GroupService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *GroupService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.User.List(ctx)
}

// ── time profiles ──

// SaveProfile creates or updates a profile and replaces its slot set
// when slots are supplied.
func (s *GroupService) SaveProfile(ctx context.Context, profile *model.TimeProfile, slots []model.TimeSlot) error {
	for i := range slots {
		if _, err := rotation.ParseHHMM(slots[i].StartTime); err != nil {
			return fmt.Errorf("%w: slot %d start %q", ErrInvalidSlotTime, slots[i].Pos, slots[i].StartTime)
		}
		if _, err := rotation.ParseHHMM(slots[i].EndTime); err != nil {
			return fmt.Errorf("%w: slot %d end %q", ErrInvalidSlotTime, slots[i].Pos, slots[i].EndTime)
		}
	}

	if err := s.repo.Profile.Upsert(ctx, profile); err != nil {
		return err
	}
	if slots == nil {
		return nil
	}

	stored, err := s.repo.Profile.GetByKey(ctx, profile.Key)
	if err != nil {
		return err
	}
	return s.repo.Profile.ReplaceSlots(ctx, stored.ID, slots)
}

func (s *GroupService) GetProfile(ctx context.Context, key string) (*model.TimeProfile, error) {
	profile, err := s.repo.Profile.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *GroupService) ListProfiles(ctx context.Context) ([]model.TimeProfile, error) {
	return s.repo.Profile.List(ctx)
}

func (s *GroupService) DeleteProfile(ctx context.Context, key string) error {
	if _, err := s.GetProfile(ctx, key); err != nil {
		return err
	}
	return s.repo.Profile.Delete(ctx, key)
}

// ── groups ──

// SaveGroup creates or updates a rotation group. The profile must
// exist and the cycle length must be one of the supported variants.
func (s *GroupService) SaveGroup(ctx context.Context, group *model.Group, profileKey string) error {
	if group.CycleLengthDays != rotation.CycleFour && group.CycleLengthDays != rotation.CycleEight {
		return fmt.Errorf("cycle length must be %d or %d, got %d",
			rotation.CycleFour, rotation.CycleEight, group.CycleLengthDays)
	}

	profile, err := s.GetProfile(ctx, profileKey)
	if err != nil {
		return err
	}
	group.ProfileID = profile.ID
	group.Epoch = dayUTC(group.Epoch)

	return s.repo.Group.Upsert(ctx, group)
}

func (s *GroupService) GetGroup(ctx context.Context, key string) (*model.Group, error) {
	group, err := s.repo.Group.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]model.Group, error) {
	return s.repo.Group.List(ctx)
}

func (s *GroupService) DeleteGroup(ctx context.Context, key string) error {
	if _, err := s.GetGroup(ctx, key); err != nil {
		return err
	}
	return s.repo.Group.Delete(ctx, key)
}

// ── membership ──

// AddMember joins a user to a group with a phase offset and rank.
// The user row is created on the fly when unknown.
func (s *GroupService) AddMember(ctx context.Context, groupKey string, userID int64, basePos, rank int) error {
	if basePos != 0 && basePos != 1 {
		return fmt.Errorf("base position must be 0 or 1, got %d", basePos)
	}
	if rank < model.RankLeader || rank > model.RankJunior {
		return ErrInvalidRank
	}

	group, err := s.GetGroup(ctx, groupKey)
	if err != nil {
		return err
	}

	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.repo.User.Upsert(ctx, &model.User{UserID: userID}); err != nil {
			return err
		}
		s.logger.Info("created placeholder user on group join",
			zap.Int64("user_id", userID), zap.String("group", groupKey))
	}

	return s.repo.Group.AddMember(ctx, group.ID, userID, basePos, rank)
}

// RemoveMember drops the membership row. The user identity stays.
func (s *GroupService) RemoveMember(ctx context.Context, groupKey string, userID int64) error {
	group, err := s.GetGroup(ctx, groupKey)
	if err != nil {
		return err
	}

	members, err := s.repo.Group.ListMembers(ctx, group.ID)
	if err != nil {
		return err
	}
	found := false
	for i := range members {
		if members[i].UserID == userID {
			found = true
			break
		}
	}
	if !found {
		return ErrMemberNotFound
	}

	return s.repo.Group.RemoveMember(ctx, group.ID, userID)
}

func (s *GroupService) ListMembers(ctx context.Context, groupKey string) ([]model.GroupMember, error) {
	group, err := s.GetGroup(ctx, groupKey)
	if err != nil {
		return nil, err
	}
	return s.repo.Group.ListMembers(ctx, group.ID)
}
