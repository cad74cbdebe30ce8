package model

// TimeProfile is a named set of shift slots (time_profiles table).
type TimeProfile struct {
	ID            int64  `gorm:"primaryKey"                   json:"id"`
	Key           string `gorm:"type:varchar(64);not null;uniqueIndex" json:"key"`
	Name          string `gorm:"type:varchar(100);not null"   json:"name"`
	TZName        string `gorm:"type:varchar(64)"             json:"tz_name,omitempty"`
	TZOffsetHours int    `gorm:"not null;default:0"           json:"tz_offset_hours"`
	BaseModel

	Slots []TimeSlot `gorm:"foreignKey:ProfileID;references:ID" json:"slots,omitempty"`
}

// TableName maps the struct to its table.
func (TimeProfile) TableName() string { return "time_profiles" }

// TimeSlot is one time-of-day window within a profile (time_profile_slots).
// Pos is the slot index the cycle clock resolves to (0..3).
type TimeSlot struct {
	ID        int64  `gorm:"primaryKey"                 json:"id"`
	ProfileID int64  `gorm:"not null;index"             json:"profile_id"`
	Pos       int    `gorm:"not null"                   json:"pos"`
	Name      string `gorm:"type:varchar(100)"          json:"name,omitempty"`
	StartTime string `gorm:"type:varchar(5);not null"   json:"start_time"` // HH:MM
	EndTime   string `gorm:"type:varchar(5);not null"   json:"end_time"`   // HH:MM
}

// TableName maps the struct to its table.
func (TimeSlot) TableName() string { return "time_profile_slots" }
