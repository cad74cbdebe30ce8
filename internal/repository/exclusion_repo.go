package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
)

// coversDateExpr matches rows whose interval contains a date, with the
// bounds sorted first so intervals stored backwards still match.
const coversDateExpr = "LEAST(date_from, date_to) <= ? AND GREATEST(date_from, date_to) >= ?"

// ExclusionRepository is the duty exclusions data-access interface.
type ExclusionRepository interface {
	Add(ctx context.Context, excl *model.Exclusion) error
	Remove(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, onDate *time.Time, groupKey string, userID int64) ([]model.Exclusion, error)
	IsExcluded(ctx context.Context, groupKey string, userID int64, onDate time.Time) (bool, error)
}

// RankRepository is the per-(group,user) rank override data-access interface.
type RankRepository interface {
	Set(ctx context.Context, override *model.RankOverride) error
	Get(ctx context.Context, groupKey string, userID int64) (*int, error)
	ListByGroup(ctx context.Context, groupKey string) ([]model.RankOverride, error)
}

// ── exclusions ──

type exclusionRepo struct {
	db *gorm.DB
}

func NewExclusionRepo(db *gorm.DB) ExclusionRepository {
	return &exclusionRepo{db: db}
}

func (r *exclusionRepo) Add(ctx context.Context, excl *model.Exclusion) error {
	return r.db.WithContext(ctx).Create(excl).Error
}

func (r *exclusionRepo) Remove(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Exclusion{})
	return result.RowsAffected > 0, result.Error
}

// List filters by any combination of covered date, group scope and user.
// The group filter also matches global rows (group_key IS NULL).
func (r *exclusionRepo) List(ctx context.Context, onDate *time.Time, groupKey string, userID int64) ([]model.Exclusion, error) {
	q := r.db.WithContext(ctx).Model(&model.Exclusion{})
	if onDate != nil {
		q = q.Where(coversDateExpr, *onDate, *onDate)
	}
	if groupKey != "" {
		q = q.Where("group_key IS NULL OR group_key = ?", groupKey)
	}
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var exclusions []model.Exclusion
	err := q.Order("date_from DESC, id DESC").Find(&exclusions).Error
	return exclusions, err
}

func (r *exclusionRepo) IsExcluded(ctx context.Context, groupKey string, userID int64, onDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Exclusion{}).
		Where("user_id = ?", userID).
		Where("group_key IS NULL OR group_key = ?", groupKey).
		Where(coversDateExpr, onDate, onDate).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ── rank overrides ──

type rankRepo struct {
	db *gorm.DB
}

func NewRankRepo(db *gorm.DB) RankRepository {
	return &rankRepo{db: db}
}

func (r *rankRepo) Set(ctx context.Context, override *model.RankOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_key"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rank", "updated_by", "updated_at"}),
		}).
		Create(override).Error
}

// Get returns nil when no override exists for the pair.
func (r *rankRepo) Get(ctx context.Context, groupKey string, userID int64) (*int, error) {
	var override model.RankOverride
	err := r.db.WithContext(ctx).
		Where("group_key = ? AND user_id = ?", groupKey, userID).
		First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override.Rank, nil
}

func (r *rankRepo) ListByGroup(ctx context.Context, groupKey string) ([]model.RankOverride, error) {
	var overrides []model.RankOverride
	err := r.db.WithContext(ctx).
		Where("group_key = ?", groupKey).
		Order("user_id").
		Find(&overrides).Error
	return overrides, err
}
