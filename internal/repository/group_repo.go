package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
)

// GroupRepository is the rotation groups data-access interface.
type GroupRepository interface {
	Upsert(ctx context.Context, group *model.Group) error
	GetByKey(ctx context.Context, key string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	Delete(ctx context.Context, key string) error

	AddMember(ctx context.Context, groupID, userID int64, basePos, rank int) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	ListMembers(ctx context.Context, groupID int64) ([]model.GroupMember, error)
}

type groupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Upsert(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "profile_id", "epoch", "cycle_length_days",
				"tz_name", "tz_offset_hours", "updated_at",
			}),
		}).
		Create(group).Error
}

func (r *groupRepo) GetByKey(ctx context.Context, key string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.Slots", func(db *gorm.DB) *gorm.DB { return db.Order("pos") }).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("base_pos, user_id") }).
		Preload("Members.User").
		Where("key = ?", key).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Order("key").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.Group{}).Error
}

func (r *groupRepo) AddMember(ctx context.Context, groupID, userID int64, basePos, rank int) error {
	member := model.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		BasePos: basePos,
		Rank:    rank,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "time_group_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"base_pos", "rank"}),
		}).
		Create(&member).Error
}

// RemoveMember deletes the membership row; the user identity stays.
func (r *groupRepo) RemoveMember(ctx context.Context, groupID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("time_group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.GroupMember{}).Error
}

func (r *groupRepo) ListMembers(ctx context.Context, groupID int64) ([]model.GroupMember, error) {
	var members []model.GroupMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("time_group_id = ?", groupID).
		Order("base_pos, user_id").
		Find(&members).Error
	return members, err
}
