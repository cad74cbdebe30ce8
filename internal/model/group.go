package model

import "time"

// Group is a rotation group bound to a time profile (time_groups table).
// Epoch plus CycleLengthDays fully determine every member's phase.
type Group struct {
	ID              int64     `gorm:"primaryKey"                            json:"id"`
	Key             string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"key"`
	Name            string    `gorm:"type:varchar(100);not null"            json:"name"`
	ProfileID       int64     `gorm:"not null"                              json:"profile_id"`
	Epoch           time.Time `gorm:"type:date;not null"                    json:"epoch"`
	CycleLengthDays int       `gorm:"not null;default:4"                    json:"cycle_length_days"` // 4 or 8
	TZName          string    `gorm:"type:varchar(64)"                      json:"tz_name,omitempty"`
	TZOffsetHours   int       `gorm:"not null;default:0"                    json:"tz_offset_hours"`
	BaseModel

	Profile *TimeProfile  `gorm:"foreignKey:ProfileID;references:ID"  json:"profile,omitempty"`
	Members []GroupMember `gorm:"foreignKey:GroupID;references:ID"    json:"members,omitempty"`
}

// TableName maps the struct to its table.
func (Group) TableName() string { return "time_groups" }

// GroupMember is one person's membership in a rotation group
// (time_group_members table). BasePos is the fixed phase offset (0 or 1)
// within the paired rotation; Rank is the profile-declared seniority.
type GroupMember struct {
	ID      int64 `gorm:"primaryKey"         json:"id"`
	GroupID int64 `gorm:"column:time_group_id;not null;index" json:"group_id"`
	UserID  int64 `gorm:"not null"           json:"user_id"`
	BasePos int   `gorm:"not null;default:0" json:"base_pos"`
	Rank    int   `gorm:"not null;default:2" json:"rank"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName maps the struct to its table.
func (GroupMember) TableName() string { return "time_group_members" }
