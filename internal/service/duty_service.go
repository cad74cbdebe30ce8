package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/budyakovan/shift-tracker-bot/config"
	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
)

// Assignment modes.
const (
	ModeRoundRobin  = "round_robin"
	ModeLeastLoaded = "least_loaded"
)

// Skip reasons reported per (group, duty) that produced no assignment.
const (
	SkipNoOnShift    = "no members on shift"
	SkipNoRankMatch  = "no on-shift member meets the rank requirement"
	SkipRosterFailed = "roster resolution failed"
	SkipCursorFailed = "cursor lookup failed"
	SkipCountsFailed = "load counts lookup failed"
	SkipWriteFailed  = "assignment write failed"
)

// DutySkip explains why one (group, duty) pair was left unassigned.
type DutySkip struct {
	GroupKey string `json:"group_key"`
	DutyID   int64  `json:"duty_id,omitempty"`
	DutyCode string `json:"duty_code,omitempty"`
	Reason   string `json:"reason"`
}

// AssignRunResult is the outcome of one duty assignment batch.
type AssignRunResult struct {
	Date        string                 `json:"date"`
	Mode        string                 `json:"mode"`
	Written     int                    `json:"written"`
	Assignments []model.DutyAssignment `json:"assignments,omitempty"`
	Skips       []DutySkip             `json:"skips,omitempty"`
}

// ════════════════════════════════════════════════════════════════════
// DutyService: duty catalog, exclusions, rank overrides, and the
// daily assignment batch.
// ════════════════════════════════════════════════════════════════════

type DutyService struct {
	repo   *repository.Repository
	roster *rosterResolver
	cfg    *config.Config
	logger *zap.Logger
}

func NewDutyService(repo *repository.Repository, roster *rosterResolver, cfg *config.Config, logger *zap.Logger) *DutyService {
	return &DutyService{repo: repo, roster: roster, cfg: cfg, logger: logger}
}

// ── assignment batch ──

// AssignForDate fills every active duty for the date, for one group or
// all of them. A failure on one (group, duty) is recorded and the batch
// moves on; the result carries the success count and every skip reason.
func (s *DutyService) AssignForDate(ctx context.Context, onDate time.Time, groupKey, mode string, createdBy *int64) (*AssignRunResult, error) {
	if mode == "" {
		mode = ModeRoundRobin
	}
	if mode != ModeRoundRobin && mode != ModeLeastLoaded {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	onDate = dayUTC(onDate)

	groups, err := s.targetGroups(ctx, groupKey)
	if err != nil {
		return nil, err
	}
	duties, err := s.repo.Duty.ListActive(ctx, "")
	if err != nil {
		return nil, err
	}

	result := &AssignRunResult{Date: onDate.Format("2006-01-02"), Mode: mode}
	for i := range groups {
		s.assignGroup(ctx, &groups[i], duties, onDate, mode, createdBy, result)
	}

	s.logger.Info("duty assignment batch finished",
		zap.String("date", result.Date),
		zap.String("mode", mode),
		zap.Int("written", result.Written),
		zap.Int("skipped", len(result.Skips)),
	)
	return result, nil
}

func (s *DutyService) targetGroups(ctx context.Context, groupKey string) ([]model.Group, error) {
	if groupKey != "" {
		group, err := s.repo.Group.GetByKey(ctx, groupKey)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}
		return []model.Group{*group}, nil
	}
	return s.repo.Group.List(ctx)
}

func (s *DutyService) assignGroup(ctx context.Context, group *model.Group, duties []model.Duty, onDate time.Time, mode string, createdBy *int64, result *AssignRunResult) {
	onShift, err := s.roster.onShiftMembers(ctx, group, onDate)
	if err != nil {
		s.logger.Error("failed to resolve roster, skipping group",
			zap.String("group", group.Key), zap.Error(err))
		result.Skips = append(result.Skips, DutySkip{GroupKey: group.Key, Reason: SkipRosterFailed})
		return
	}

	// Ranks resolved once per member, reused across every duty.
	ranks := make(map[int64]int, len(onShift))
	names := make(map[int64]string, len(onShift))
	for i := range onShift {
		m := &onShift[i].Member
		ranks[m.UserID] = s.roster.effectiveRank(ctx, group.Key, m)
		names[m.UserID] = displayName(m)
	}

	for i := range duties {
		duty := &duties[i]
		s.assignDuty(ctx, group, duty, onShift, ranks, names, onDate, mode, createdBy, result)
	}
}

func (s *DutyService) assignDuty(ctx context.Context, group *model.Group, duty *model.Duty, onShift []OnShiftMember, ranks map[int64]int, names map[int64]string, onDate time.Time, mode string, createdBy *int64, result *AssignRunResult) {
	skip := func(reason string) {
		result.Skips = append(result.Skips, DutySkip{
			GroupKey: group.Key,
			DutyID:   duty.ID,
			DutyCode: duty.Code,
			Reason:   reason,
		})
	}

	if len(onShift) == 0 {
		skip(SkipNoOnShift)
		return
	}

	threshold := duty.MinRank
	if duty.Kind == model.DutyKindLeader {
		threshold = model.RankLeader
	}

	var pool []poolCandidate
	for i := range onShift {
		uid := onShift[i].Member.UserID
		if ranks[uid] <= threshold {
			pool = append(pool, poolCandidate{UserID: uid, Name: names[uid]})
		}
	}
	if len(pool) == 0 {
		skip(SkipNoRankMatch)
		return
	}

	var winner int64
	switch mode {
	case ModeLeastLoaded:
		since := onDate.AddDate(0, 0, -s.cfg.Rotation.LoadWindowDays)
		counts, err := s.repo.Assignment.CountSince(ctx, group.Key, duty.ID, since)
		if err != nil {
			s.logger.Error("failed to count recent assignments",
				zap.String("group", group.Key), zap.Int64("duty_id", duty.ID), zap.Error(err))
			skip(SkipCountsFailed)
			return
		}
		winner = pickLeastLoaded(pool, counts)
	default:
		last, err := s.repo.DutyCursor.Get(ctx, group.Key, duty.ID)
		if err != nil {
			s.logger.Error("failed to read duty cursor",
				zap.String("group", group.Key), zap.Int64("duty_id", duty.ID), zap.Error(err))
			skip(SkipCursorFailed)
			return
		}
		ids := make([]int64, 0, len(pool))
		for _, c := range pool {
			ids = append(ids, c.UserID)
		}
		winner = pickNextRoundRobin(ids, last)
	}

	assignment := &model.DutyAssignment{
		DutyID:    duty.ID,
		GroupKey:  group.Key,
		OnDate:    onDate,
		UserID:    winner,
		CreatedBy: createdBy,
	}
	if err := s.repo.Assignment.Upsert(ctx, assignment); err != nil {
		s.logger.Error("failed to write duty assignment",
			zap.String("group", group.Key), zap.Int64("duty_id", duty.ID),
			zap.Int64("user_id", winner), zap.Error(err))
		skip(SkipWriteFailed)
		return
	}
	result.Written++
	result.Assignments = append(result.Assignments, *assignment)

	// The cursor moves only after the assignment row is in place.
	if mode == ModeRoundRobin {
		if err := s.repo.DutyCursor.Set(ctx, group.Key, duty.ID, winner); err != nil {
			s.logger.Warn("assignment written but cursor advance failed",
				zap.String("group", group.Key), zap.Int64("duty_id", duty.ID), zap.Error(err))
		}
	}
}

// ── assignment reads ──

// ListAssignments returns the duty assignments recorded for a date,
// optionally narrowed to one group.
func (s *DutyService) ListAssignments(ctx context.Context, onDate time.Time, groupKey string) ([]model.DutyAssignment, error) {
	return s.repo.Assignment.ListByDate(ctx, dayUTC(onDate), groupKey)
}

// ListUserAssignments returns one member's assignments in a date range.
func (s *DutyService) ListUserAssignments(ctx context.Context, userID int64, from, to time.Time) ([]model.DutyAssignment, error) {
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	return s.repo.Assignment.ListByUser(ctx, userID, dayUTC(from), dayUTC(to))
}

// ── duty catalog ──

func (s *DutyService) CreateDuty(ctx context.Context, duty *model.Duty) error {
	if err := validateDuty(duty); err != nil {
		return err
	}
	if err := s.repo.Duty.Create(ctx, duty); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDutyCodeTaken
		}
		return err
	}
	return nil
}

func (s *DutyService) GetDuty(ctx context.Context, id int64) (*model.Duty, error) {
	duty, err := s.repo.Duty.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDutyNotFound
		}
		return nil, err
	}
	return duty, nil
}

func (s *DutyService) ListDuties(ctx context.Context, activeOnly bool, kind string) ([]model.Duty, error) {
	if activeOnly {
		return s.repo.Duty.ListActive(ctx, kind)
	}
	return s.repo.Duty.List(ctx)
}

func (s *DutyService) UpdateDuty(ctx context.Context, duty *model.Duty) error {
	if err := validateDuty(duty); err != nil {
		return err
	}
	if _, err := s.GetDuty(ctx, duty.ID); err != nil {
		return err
	}
	return s.repo.Duty.Update(ctx, duty)
}

func (s *DutyService) DeleteDuty(ctx context.Context, id int64) error {
	if _, err := s.GetDuty(ctx, id); err != nil {
		return err
	}
	return s.repo.Duty.Delete(ctx, id)
}

func validateDuty(duty *model.Duty) error {
	switch duty.Kind {
	case model.DutyKindLeader, model.DutyKindSpecialist, model.DutyKindJunior:
	default:
		return fmt.Errorf("unknown duty kind %q", duty.Kind)
	}
	if duty.MinRank < model.RankLeader || duty.MinRank > model.RankJunior {
		return ErrInvalidRank
	}
	return nil
}

// ── exclusions ──

// AddExclusion records an unavailability window. Swapped bounds are
// rejected here even though lookups tolerate them.
func (s *DutyService) AddExclusion(ctx context.Context, excl *model.Exclusion) error {
	if excl.DateFrom.After(excl.DateTo) {
		return ErrInvalidDateRange
	}
	excl.DateFrom = dayUTC(excl.DateFrom)
	excl.DateTo = dayUTC(excl.DateTo)
	return s.repo.Exclusion.Add(ctx, excl)
}

func (s *DutyService) RemoveExclusion(ctx context.Context, id int64) error {
	removed, err := s.repo.Exclusion.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrExclusionNotFound
	}
	return nil
}

func (s *DutyService) ListExclusions(ctx context.Context, onDate *time.Time, groupKey string, userID int64) ([]model.Exclusion, error) {
	if onDate != nil {
		d := dayUTC(*onDate)
		onDate = &d
	}
	return s.repo.Exclusion.List(ctx, onDate, groupKey, userID)
}

// ── rank overrides ──

func (s *DutyService) SetRankOverride(ctx context.Context, groupKey string, userID int64, rank int) error {
	if rank < model.RankLeader || rank > model.RankJunior {
		return ErrInvalidRank
	}
	if _, err := s.repo.Group.GetByKey(ctx, groupKey); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	return s.repo.Rank.Set(ctx, &model.RankOverride{GroupKey: groupKey, UserID: userID, Rank: rank})
}

func (s *DutyService) ListRankOverrides(ctx context.Context, groupKey string) ([]model.RankOverride, error) {
	return s.repo.Rank.ListByGroup(ctx, groupKey)
}
