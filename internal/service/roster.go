package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
	"github.com/budyakovan/shift-tracker-bot/internal/rotation"
)

// OnShiftMember is a group member together with the slot the cycle
// clock resolved for the target date.
type OnShiftMember struct {
	Member  model.GroupMember
	SlotPos int
	Slot    *model.TimeSlot // nil when the profile has no slot at SlotPos
}

// rosterResolver implements the eligibility filter and the rank
// resolver shared by the duty and location orchestrators.
type rosterResolver struct {
	repo   *repository.Repository
	logger *zap.Logger
	// Cycle length substituted for groups carrying an unsupported one;
	// invalid configured values normalize to the 4-day cycle.
	fallbackCycle int
}

// cycleLength resolves a group's cycle length, substituting the
// configured fallback and logging when the stored value is unsupported.
func (rr *rosterResolver) cycleLength(group *model.Group) int {
	cycle, err := rotation.NormalizeCycle(group.CycleLengthDays)
	if err == nil {
		return cycle
	}
	cycle, _ = rotation.NormalizeCycle(rr.fallbackCycle)
	rr.logger.Warn("group has invalid cycle length, using fallback",
		zap.String("group", group.Key),
		zap.Int("cycle_length_days", group.CycleLengthDays),
		zap.Int("fallback", cycle),
	)
	return cycle
}

// onShiftMembers returns the group's members that work on the date:
// slot resolved by the cycle clock, exclusions filtered out. Result
// order follows the stored roster order (base_pos, user_id).
func (rr *rosterResolver) onShiftMembers(ctx context.Context, group *model.Group, onDate time.Time) ([]OnShiftMember, error) {
	members, err := rr.repo.Group.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	cycle := rr.cycleLength(group)
	localDate := rotation.LocalDate(onDate, group.TZOffsetHours)

	var slots []model.TimeSlot
	if group.Profile != nil {
		slots = group.Profile.Slots
	} else {
		slots, err = rr.repo.Profile.ListSlots(ctx, group.ProfileID)
		if err != nil {
			return nil, err
		}
	}
	slotByPos := make(map[int]*model.TimeSlot, len(slots))
	for i := range slots {
		slotByPos[slots[i].Pos] = &slots[i]
	}

	var result []OnShiftMember
	for _, m := range members {
		slotPos, onShift := rotation.ResolveSlot(group.Epoch, cycle, m.BasePos, localDate)
		if !onShift {
			continue
		}

		excluded, err := rr.repo.Exclusion.IsExcluded(ctx, group.Key, m.UserID, onDate)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}

		result = append(result, OnShiftMember{
			Member:  m,
			SlotPos: slotPos,
			Slot:    slotByPos[slotPos],
		})
	}
	return result, nil
}

// effectiveRank resolves a member's rank: explicit per-(group,user)
// override, then the membership's profile rank, then specialist.
func (rr *rosterResolver) effectiveRank(ctx context.Context, groupKey string, m *model.GroupMember) int {
	if override, err := rr.repo.Rank.Get(ctx, groupKey, m.UserID); err == nil && override != nil {
		if *override >= model.RankLeader && *override <= model.RankJunior {
			return *override
		}
	} else if err != nil {
		rr.logger.Warn("rank override lookup failed, using profile rank",
			zap.String("group", groupKey),
			zap.Int64("user_id", m.UserID),
			zap.Error(err),
		)
	}

	if m.Rank >= model.RankLeader && m.Rank <= model.RankJunior {
		return m.Rank
	}
	return model.RankSpecialist
}

// dayUTC truncates a timestamp to its calendar date at midnight UTC,
// the canonical form for all date columns.
func dayUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// displayName labels a member for deterministic tie-breaks and logs.
func displayName(m *model.GroupMember) string {
	if m.User != nil {
		if name := m.User.DisplayName(); name != "" {
			return name
		}
	}
	return ""
}
