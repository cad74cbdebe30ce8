package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
)

// DutyRepository is the duty catalog data-access interface.
type DutyRepository interface {
	Create(ctx context.Context, duty *model.Duty) error
	GetByID(ctx context.Context, id int64) (*model.Duty, error)
	ListActive(ctx context.Context, kind string) ([]model.Duty, error)
	List(ctx context.Context) ([]model.Duty, error)
	Update(ctx context.Context, duty *model.Duty) error
	Delete(ctx context.Context, id int64) error
}

type dutyRepo struct {
	db *gorm.DB
}

func NewDutyRepo(db *gorm.DB) DutyRepository {
	return &dutyRepo{db: db}
}

func (r *dutyRepo) Create(ctx context.Context, duty *model.Duty) error {
	return r.db.WithContext(ctx).Create(duty).Error
}

func (r *dutyRepo) GetByID(ctx context.Context, id int64) (*model.Duty, error) {
	var duty model.Duty
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&duty).Error
	if err != nil {
		return nil, err
	}
	return &duty, nil
}

// ListActive returns active duties in catalog order, optionally
// filtered by kind.
func (r *dutyRepo) ListActive(ctx context.Context, kind string) ([]model.Duty, error) {
	q := r.db.WithContext(ctx).Where("is_active = TRUE")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var duties []model.Duty
	err := q.Order("kind, id").Find(&duties).Error
	return duties, err
}

func (r *dutyRepo) List(ctx context.Context) ([]model.Duty, error) {
	var duties []model.Duty
	err := r.db.WithContext(ctx).
		Order("kind, id").
		Find(&duties).Error
	return duties, err
}

func (r *dutyRepo) Update(ctx context.Context, duty *model.Duty) error {
	return r.db.WithContext(ctx).Save(duty).Error
}

func (r *dutyRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Duty{}).Error
}
