package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
)

// TimeProfileRepository is the time profiles data-access interface.
type TimeProfileRepository interface {
	Upsert(ctx context.Context, profile *model.TimeProfile) error
	GetByKey(ctx context.Context, key string) (*model.TimeProfile, error)
	List(ctx context.Context) ([]model.TimeProfile, error)
	Delete(ctx context.Context, key string) error
	ReplaceSlots(ctx context.Context, profileID int64, slots []model.TimeSlot) error
	ListSlots(ctx context.Context, profileID int64) ([]model.TimeSlot, error)
}

type timeProfileRepo struct {
	db *gorm.DB
}

func NewTimeProfileRepo(db *gorm.DB) TimeProfileRepository {
	return &timeProfileRepo{db: db}
}

func (r *timeProfileRepo) Upsert(ctx context.Context, profile *model.TimeProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "tz_name", "tz_offset_hours", "updated_at"}),
		}).
		Create(profile).Error
}

func (r *timeProfileRepo) GetByKey(ctx context.Context, key string) (*model.TimeProfile, error) {
	var profile model.TimeProfile
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("pos") }).
		Where("key = ?", key).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *timeProfileRepo) List(ctx context.Context) ([]model.TimeProfile, error) {
	var profiles []model.TimeProfile
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("pos") }).
		Order("name").
		Find(&profiles).Error
	return profiles, err
}

func (r *timeProfileRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.TimeProfile{}).Error
}

// ReplaceSlots rewrites the profile's slot set atomically.
func (r *timeProfileRepo) ReplaceSlots(ctx context.Context, profileID int64, slots []model.TimeSlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&model.TimeSlot{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		for i := range slots {
			slots[i].ProfileID = profileID
		}
		return tx.Create(&slots).Error
	})
}

func (r *timeProfileRepo) ListSlots(ctx context.Context, profileID int64) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("pos").
		Find(&slots).Error
	return slots, err
}
