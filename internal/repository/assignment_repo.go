package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
)

// AssignmentRepository is the duty assignments data-access interface.
type AssignmentRepository interface {
	// Upsert writes the winner for (duty, group, date), overwriting a
	// previous winner for the same triple.
	Upsert(ctx context.Context, assignment *model.DutyAssignment) error
	ListByDate(ctx context.Context, onDate time.Time, groupKey string) ([]model.DutyAssignment, error)
	ListByUser(ctx context.Context, userID int64, from, to time.Time) ([]model.DutyAssignment, error)
	// CountSince returns per-user assignment counts for a (group, duty)
	// from a date onwards, the load-based fairness input.
	CountSince(ctx context.Context, groupKey string, dutyID int64, since time.Time) (map[int64]int, error)
}

// DutyCursorRepository is the per-(group,duty) round-robin pointer store.
type DutyCursorRepository interface {
	Get(ctx context.Context, groupKey string, dutyID int64) (*int64, error)
	Set(ctx context.Context, groupKey string, dutyID int64, lastUserID int64) error
}

// ── assignments ──

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Upsert(ctx context.Context, assignment *model.DutyAssignment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "duty_id"}, {Name: "group_key"}, {Name: "on_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "created_by"}),
		}).
		Create(assignment).Error
}

func (r *assignmentRepo) ListByDate(ctx context.Context, onDate time.Time, groupKey string) ([]model.DutyAssignment, error) {
	q := r.db.WithContext(ctx).
		Preload("Duty").
		Preload("User").
		Where("on_date = ?", onDate)
	if groupKey != "" {
		q = q.Where("group_key = ?", groupKey)
	}
	var assignments []model.DutyAssignment
	err := q.Order("group_key, duty_id").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByUser(ctx context.Context, userID int64, from, to time.Time) ([]model.DutyAssignment, error) {
	var assignments []model.DutyAssignment
	err := r.db.WithContext(ctx).
		Preload("Duty").
		Where("user_id = ? AND on_date BETWEEN ? AND ?", userID, from, to).
		Order("on_date, duty_id").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) CountSince(ctx context.Context, groupKey string, dutyID int64, since time.Time) (map[int64]int, error) {
	type row struct {
		UserID int64
		Cnt    int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.DutyAssignment{}).
		Select("user_id, COUNT(*) AS cnt").
		Where("group_key = ? AND duty_id = ? AND on_date >= ?", groupKey, dutyID, since).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Cnt
	}
	return counts, nil
}

// ── round-robin cursor ──

type dutyCursorRepo struct {
	db *gorm.DB
}

func NewDutyCursorRepo(db *gorm.DB) DutyCursorRepository {
	return &dutyCursorRepo{db: db}
}

// Get returns nil when no cursor row exists yet.
func (r *dutyCursorRepo) Get(ctx context.Context, groupKey string, dutyID int64) (*int64, error) {
	var cursor model.DutyCursor
	err := r.db.WithContext(ctx).
		Where("group_key = ? AND duty_id = ?", groupKey, dutyID).
		First(&cursor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cursor.LastUserID, nil
}

func (r *dutyCursorRepo) Set(ctx context.Context, groupKey string, dutyID int64, lastUserID int64) error {
	cursor := model.DutyCursor{
		GroupKey:   groupKey,
		DutyID:     dutyID,
		LastUserID: &lastUserID,
		UpdatedAt:  time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_key"}, {Name: "duty_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_user_id", "updated_at"}),
		}).
		Create(&cursor).Error
}
