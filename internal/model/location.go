package model

import "time"

// Location values for a day's presence decision.
const (
	LocationOffice = "office"
	LocationHome   = "home"
)

// LocationAssignment records where one on-shift person works on a date
// (location_assignments table). Rows for a (group, date) are rewritten
// wholesale on each run, never patched.
type LocationAssignment struct {
	ID       int64     `gorm:"primaryKey"                  json:"id"`
	GroupKey string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_location_assignment" json:"group_key"`
	OnDate   time.Time `gorm:"type:date;not null;uniqueIndex:uq_location_assignment" json:"on_date"`
	UserID   int64     `gorm:"not null;uniqueIndex:uq_location_assignment" json:"user_id"`
	Location string    `gorm:"type:varchar(10);not null"   json:"location"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName maps the struct to its table.
func (LocationAssignment) TableName() string { return "location_assignments" }

// LocationCursor is the single round-robin pointer per group
// (location_rr_cursor table). The day and night office picks on one date
// share this pointer; each pick advances it.
type LocationCursor struct {
	GroupKey   string    `gorm:"type:varchar(64);primaryKey" json:"group_key"`
	LastUserID *int64    `json:"last_user_id,omitempty"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName maps the struct to its table.
func (LocationCursor) TableName() string { return "location_rr_cursor" }

// CalendarDay marks a date as a holiday or working day
// (production_calendar table). Dates absent from the table fall back to
// the weekend rule.
type CalendarDay struct {
	Date      time.Time `gorm:"column:dt;type:date;primaryKey" json:"date"`
	IsHoliday bool      `gorm:"not null"                       json:"is_holiday"`
}

// TableName maps the struct to its table.
func (CalendarDay) TableName() string { return "production_calendar" }
