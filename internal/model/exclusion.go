package model

import "time"

// Exclusion removes a person from eligibility for a closed date interval
// (duty_exclusions table). A NULL GroupKey applies to every group.
type Exclusion struct {
	ID        int64     `gorm:"primaryKey"         json:"id"`
	UserID    int64     `gorm:"not null;index"     json:"user_id"`
	GroupKey  *string   `gorm:"type:varchar(64)"   json:"group_key,omitempty"`
	DateFrom  time.Time `gorm:"type:date;not null" json:"date_from"`
	DateTo    time.Time `gorm:"type:date;not null" json:"date_to"`
	Reason    string    `gorm:"type:varchar(300)"  json:"reason,omitempty"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName maps the struct to its table.
func (Exclusion) TableName() string { return "duty_exclusions" }

// Covers reports whether the exclusion is in force on the given date.
// Intervals stored backwards are normalized by swapping the bounds.
func (e *Exclusion) Covers(d time.Time) bool {
	from, to := e.DateFrom, e.DateTo
	if to.Before(from) {
		from, to = to, from
	}
	return !d.Before(from) && !d.After(to)
}

// RankOverride is a per-(group,user) explicit rank (member_ranks table).
// It takes priority over the membership's profile-declared rank.
type RankOverride struct {
	GroupKey  string    `gorm:"type:varchar(64);primaryKey" json:"group_key"`
	UserID    int64     `gorm:"primaryKey"                  json:"user_id"`
	Rank      int       `gorm:"not null"                    json:"rank"`
	UpdatedBy *int64    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName maps the struct to its table.
func (RankOverride) TableName() string { return "member_ranks" }
