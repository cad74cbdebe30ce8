package model

import "time"

// DutyAssignment records the winner for one duty, group and date in the
// duty_assignments table. The triple is unique; re-running assignment
// for the same date overwrites the previous winner.
type DutyAssignment struct {
	ID        int64     `gorm:"primaryKey"                  json:"id"`
	DutyID    int64     `gorm:"not null;uniqueIndex:uq_duty_assignment" json:"duty_id"`
	GroupKey  string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_duty_assignment" json:"group_key"`
	OnDate    time.Time `gorm:"type:date;not null;uniqueIndex:uq_duty_assignment" json:"on_date"`
	UserID    int64     `gorm:"not null"                    json:"user_id"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Duty *Duty `gorm:"foreignKey:DutyID;references:ID"     json:"duty,omitempty"`
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName maps the struct to its table.
func (DutyAssignment) TableName() string { return "duty_assignments" }

// DutyCursor is the round-robin pointer per group and duty in the
// duty_rr_cursor table. Advanced only after a successful assignment write.
type DutyCursor struct {
	GroupKey   string    `gorm:"type:varchar(64);primaryKey" json:"group_key"`
	DutyID     int64     `gorm:"primaryKey"                  json:"duty_id"`
	LastUserID *int64    `json:"last_user_id,omitempty"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName maps the struct to its table.
func (DutyCursor) TableName() string { return "duty_rr_cursor" }
