package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
	"github.com/budyakovan/shift-tracker-bot/internal/rotation"
)

// LocationRunResult is the outcome of one location assignment run.
type LocationRunResult struct {
	Date    string                     `json:"date"`
	Group   string                     `json:"group_key"`
	Written int                        `json:"written"`
	Rows    []model.LocationAssignment `json:"rows,omitempty"`
}

// LocationService decides who works from the office on a date.
type LocationService struct {
	repo   *repository.Repository
	roster *rosterResolver
	logger *zap.Logger
}

func NewLocationService(repo *repository.Repository, roster *rosterResolver, logger *zap.Logger) *LocationService {
	return &LocationService{repo: repo, roster: roster, logger: logger}
}

// AssignLocations rewrites the group's office/home split for a date.
// Day-window members all go to the office on business days; on weekends
// and holidays exactly one of them does. Night-window members always get
// exactly one office pick. Both picks favor the member with the most
// recorded office days and break ties round-robin on the group's shared
// cursor, day pick first.
func (s *LocationService) AssignLocations(ctx context.Context, groupKey string, onDate time.Time) (*LocationRunResult, error) {
	onDate = dayUTC(onDate)

	group, err := s.repo.Group.GetByKey(ctx, groupKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	onShift, err := s.roster.onShiftMembers(ctx, group, onDate)
	if err != nil {
		return nil, err
	}

	var dayPool, nightPool []int64
	for i := range onShift {
		m := &onShift[i]
		if m.Slot == nil {
			s.logger.Warn("member has no slot definition, treating as day window",
				zap.String("group", groupKey),
				zap.Int64("user_id", m.Member.UserID),
				zap.Int("slot_pos", m.SlotPos),
			)
			dayPool = append(dayPool, m.Member.UserID)
			continue
		}
		if rotation.IsNightWindow(m.Slot.StartTime, m.Slot.EndTime) {
			nightPool = append(nightPool, m.Member.UserID)
		} else {
			dayPool = append(dayPool, m.Member.UserID)
		}
	}

	offDay, err := s.repo.Calendar.IsHolidayOrWeekend(ctx, onDate)
	if err != nil {
		return nil, err
	}
	businessDay := !offDay

	last, err := s.repo.LocationCursor.Get(ctx, groupKey)
	if err != nil {
		return nil, err
	}

	office := make(map[int64]bool)

	if len(dayPool) > 0 {
		if businessDay {
			for _, uid := range dayPool {
				office[uid] = true
			}
		} else {
			winner, err := s.pickOfficeWinner(ctx, groupKey, dayPool, last, onDate)
			if err != nil {
				return nil, err
			}
			office[winner] = true
			last = &winner
		}
	}

	if len(nightPool) > 0 {
		winner, err := s.pickOfficeWinner(ctx, groupKey, nightPool, last, onDate)
		if err != nil {
			return nil, err
		}
		office[winner] = true
	}

	rows := make([]model.LocationAssignment, 0, len(onShift))
	for i := range onShift {
		uid := onShift[i].Member.UserID
		loc := model.LocationHome
		if office[uid] {
			loc = model.LocationOffice
		}
		rows = append(rows, model.LocationAssignment{
			GroupKey: groupKey,
			OnDate:   onDate,
			UserID:   uid,
			Location: loc,
		})
	}

	written, err := s.repo.Location.ClearAndWrite(ctx, groupKey, onDate, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("location assignment finished",
		zap.String("group", groupKey),
		zap.String("date", onDate.Format("2006-01-02")),
		zap.Int("written", written),
		zap.Bool("business_day", businessDay),
	)
	return &LocationRunResult{
		Date:    onDate.Format("2006-01-02"),
		Group:   groupKey,
		Written: written,
		Rows:    rows,
	}, nil
}

// pickOfficeWinner picks one office occupant from the pool. The member
// with the most recorded office days wins; ties rotate round-robin on
// the group cursor, which advances to the winner immediately.
func (s *LocationService) pickOfficeWinner(ctx context.Context, groupKey string, pool []int64, last *int64, onDate time.Time) (int64, error) {
	counts := make(map[int64]int, len(pool))
	for _, uid := range pool {
		n, err := s.repo.Location.OfficeDayCount(ctx, groupKey, uid, &onDate)
		if err != nil {
			return 0, err
		}
		counts[uid] = n
	}

	winner := pickMostOfficeDays(counts, pool, last)
	if err := s.repo.LocationCursor.Set(ctx, groupKey, winner); err != nil {
		return 0, err
	}
	return winner, nil
}

// ListLocations returns the stored office/home split for a date.
func (s *LocationService) ListLocations(ctx context.Context, groupKey string, onDate time.Time) ([]model.LocationAssignment, error) {
	return s.repo.Location.ListByDate(ctx, dayUTC(onDate), groupKey)
}

// OfficeReport aggregates per-member office day totals over a range.
func (s *LocationService) OfficeReport(ctx context.Context, groupKey string, from, to time.Time) ([]repository.OfficeDays, error) {
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	return s.repo.Location.OfficeReport(ctx, groupKey, dayUTC(from), dayUTC(to))
}

// SetHoliday marks a calendar date as a holiday or a working day.
func (s *LocationService) SetHoliday(ctx context.Context, onDate time.Time, isHoliday bool) error {
	return s.repo.Calendar.SetHoliday(ctx, dayUTC(onDate), isHoliday)
}
