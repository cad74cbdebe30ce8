package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
	"github.com/budyakovan/shift-tracker-bot/internal/rotation"
)

// ShiftEntry is one member's resolved shift on a date.
type ShiftEntry struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name,omitempty"`
	SlotPos   int    `json:"slot_pos"`
	SlotName  string `json:"slot_name,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// DaySchedule is the full on-shift picture for one date.
type DaySchedule struct {
	Date    string       `json:"date"`
	Entries []ShiftEntry `json:"entries"`
}

// ScheduleService exposes read-only shift resolution.
type ScheduleService struct {
	repo   *repository.Repository
	roster *rosterResolver
	logger *zap.Logger
}

func NewScheduleService(repo *repository.Repository, roster *rosterResolver, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{repo: repo, roster: roster, logger: logger}
}

// OnShift resolves who works in the group on a date, with slot times.
func (s *ScheduleService) OnShift(ctx context.Context, groupKey string, onDate time.Time) (*DaySchedule, error) {
	group, err := s.getGroup(ctx, groupKey)
	if err != nil {
		return nil, err
	}
	return s.daySchedule(ctx, group, dayUTC(onDate))
}

// Preview resolves the group's schedule for each of the next days
// starting at from, inclusive.
func (s *ScheduleService) Preview(ctx context.Context, groupKey string, from time.Time, days int) ([]DaySchedule, error) {
	if days < 1 {
		days = 1
	}
	group, err := s.getGroup(ctx, groupKey)
	if err != nil {
		return nil, err
	}

	from = dayUTC(from)
	result := make([]DaySchedule, 0, days)
	for i := 0; i < days; i++ {
		day, err := s.daySchedule(ctx, group, from.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		result = append(result, *day)
	}
	return result, nil
}

// ResolveSlot answers the raw cycle question for one member of the
// group on a date. The second return is false on an off-day.
func (s *ScheduleService) ResolveSlot(ctx context.Context, groupKey string, userID int64, onDate time.Time) (int, bool, error) {
	group, err := s.getGroup(ctx, groupKey)
	if err != nil {
		return 0, false, err
	}

	members, err := s.repo.Group.ListMembers(ctx, group.ID)
	if err != nil {
		return 0, false, err
	}
	var member *model.GroupMember
	for i := range members {
		if members[i].UserID == userID {
			member = &members[i]
			break
		}
	}
	if member == nil {
		return 0, false, ErrMemberNotFound
	}

	cycle := s.roster.cycleLength(group)
	local := rotation.LocalDate(dayUTC(onDate), group.TZOffsetHours)
	pos, onShift := rotation.ResolveSlot(group.Epoch, cycle, member.BasePos, local)
	return pos, onShift, nil
}

func (s *ScheduleService) getGroup(ctx context.Context, groupKey string) (*model.Group, error) {
	group, err := s.repo.Group.GetByKey(ctx, groupKey)
	if err != nil {
		return nil, mapNotFound(err, ErrGroupNotFound)
	}
	return group, nil
}

func (s *ScheduleService) daySchedule(ctx context.Context, group *model.Group, onDate time.Time) (*DaySchedule, error) {
	onShift, err := s.roster.onShiftMembers(ctx, group, onDate)
	if err != nil {
		return nil, err
	}

	day := &DaySchedule{Date: onDate.Format("2006-01-02")}
	for i := range onShift {
		m := &onShift[i]
		entry := ShiftEntry{
			UserID:  m.Member.UserID,
			Name:    displayName(&m.Member),
			SlotPos: m.SlotPos,
		}
		if m.Slot != nil {
			entry.SlotName = m.Slot.Name
			entry.StartTime = m.Slot.StartTime
			entry.EndTime = m.Slot.EndTime
		}
		day.Entries = append(day.Entries, entry)
	}
	return day, nil
}
