package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
)

// OfficeDays is one line of the per-period office report.
type OfficeDays struct {
	UserID     int64 `json:"user_id"`
	OfficeDays int   `json:"office_days"`
}

// LocationRepository is the location assignments data-access interface.
type LocationRepository interface {
	// ClearAndWrite rewrites every location row for (group, date) in one
	// transaction and returns the number of rows written.
	ClearAndWrite(ctx context.Context, groupKey string, onDate time.Time, rows []model.LocationAssignment) (int, error)
	ListByDate(ctx context.Context, onDate time.Time, groupKey string) ([]model.LocationAssignment, error)
	// OfficeDayCount returns the user's cumulative office days, optionally
	// capped at a date.
	OfficeDayCount(ctx context.Context, groupKey string, userID int64, until *time.Time) (int, error)
	OfficeReport(ctx context.Context, groupKey string, from, to time.Time) ([]OfficeDays, error)
}

// LocationCursorRepository is the per-group location rotation pointer store.
type LocationCursorRepository interface {
	Get(ctx context.Context, groupKey string) (*int64, error)
	Set(ctx context.Context, groupKey string, lastUserID int64) error
}

// CalendarRepository answers holiday lookups with a weekend fallback.
type CalendarRepository interface {
	IsHolidayOrWeekend(ctx context.Context, d time.Time) (bool, error)
	SetHoliday(ctx context.Context, d time.Time, isHoliday bool) error
}

// ── location assignments ──

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) ClearAndWrite(ctx context.Context, groupKey string, onDate time.Time, rows []model.LocationAssignment) (int, error) {
	written := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("group_key = ? AND on_date = ?", groupKey, onDate).
			Delete(&model.LocationAssignment{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		written = len(rows)
		return nil
	})
	return written, err
}

func (r *locationRepo) ListByDate(ctx context.Context, onDate time.Time, groupKey string) ([]model.LocationAssignment, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Where("on_date = ?", onDate)
	if groupKey != "" {
		q = q.Where("group_key = ?", groupKey)
	}
	var rows []model.LocationAssignment
	err := q.Order("group_key, user_id").Find(&rows).Error
	return rows, err
}

func (r *locationRepo) OfficeDayCount(ctx context.Context, groupKey string, userID int64, until *time.Time) (int, error) {
	q := r.db.WithContext(ctx).
		Model(&model.LocationAssignment{}).
		Where("group_key = ? AND user_id = ? AND location = ?", groupKey, userID, model.LocationOffice)
	if until != nil {
		q = q.Where("on_date <= ?", *until)
	}
	var count int64
	err := q.Count(&count).Error
	return int(count), err
}

func (r *locationRepo) OfficeReport(ctx context.Context, groupKey string, from, to time.Time) ([]OfficeDays, error) {
	var report []OfficeDays
	err := r.db.WithContext(ctx).
		Model(&model.LocationAssignment{}).
		Select("user_id, COUNT(*) AS office_days").
		Where("group_key = ? AND on_date BETWEEN ? AND ? AND location = ?", groupKey, from, to, model.LocationOffice).
		Group("user_id").
		Order("office_days DESC, user_id").
		Scan(&report).Error
	return report, err
}

// ── location cursor ──

type locationCursorRepo struct {
	db *gorm.DB
}

func NewLocationCursorRepo(db *gorm.DB) LocationCursorRepository {
	return &locationCursorRepo{db: db}
}

func (r *locationCursorRepo) Get(ctx context.Context, groupKey string) (*int64, error) {
	var cursor model.LocationCursor
	err := r.db.WithContext(ctx).
		Where("group_key = ?", groupKey).
		First(&cursor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cursor.LastUserID, nil
}

func (r *locationCursorRepo) Set(ctx context.Context, groupKey string, lastUserID int64) error {
	cursor := model.LocationCursor{
		GroupKey:   groupKey,
		LastUserID: &lastUserID,
		UpdatedAt:  time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_user_id", "updated_at"}),
		}).
		Create(&cursor).Error
}

// ── production calendar ──

type calendarRepo struct {
	db *gorm.DB
}

func NewCalendarRepo(db *gorm.DB) CalendarRepository {
	return &calendarRepo{db: db}
}

// IsHolidayOrWeekend consults the production calendar first; dates not
// present fall back to the Saturday/Sunday rule.
func (r *calendarRepo) IsHolidayOrWeekend(ctx context.Context, d time.Time) (bool, error) {
	var day model.CalendarDay
	err := r.db.WithContext(ctx).
		Where("dt = ?", d).
		First(&day).Error
	if err == nil {
		return day.IsHoliday, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday, nil
}

func (r *calendarRepo) SetHoliday(ctx context.Context, d time.Time, isHoliday bool) error {
	day := model.CalendarDay{Date: d, IsHoliday: isHoliday}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dt"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_holiday"}),
		}).
		Create(&day).Error
}
