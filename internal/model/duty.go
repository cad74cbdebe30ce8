package model

// Duty kinds mirror the seniority tiers.
const (
	DutyKindLeader     = "leader"
	DutyKindSpecialist = "specialist"
	DutyKindJunior     = "junior"
)

// Ranks, lower number is more senior.
const (
	RankLeader     = 1
	RankSpecialist = 2
	RankJunior     = 3
)

// Duty is one catalog entry to be filled daily (duties table).
// A member qualifies when their effective rank is at most MinRank
// (leader duties always require rank 1).
type Duty struct {
	ID          int64  `gorm:"primaryKey"                                  json:"id"`
	Code        string `gorm:"type:varchar(64);uniqueIndex"                json:"code,omitempty"`
	Title       string `gorm:"type:varchar(200);not null"                  json:"title"`
	Description string `gorm:"type:varchar(500)"                           json:"description,omitempty"`
	Kind        string `gorm:"type:varchar(20);not null;default:'specialist'" json:"kind"`
	MinRank     int    `gorm:"not null;default:2"                          json:"min_rank"`
	IsActive    bool   `gorm:"not null;default:true"                       json:"is_active"`
	BaseModel
}

// TableName maps the struct to its table.
func (Duty) TableName() string { return "duties" }
