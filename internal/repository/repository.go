package repository

import "gorm.io/gorm"

// Repository aggregates every data-access interface injected into the
// services. Nothing below the service layer holds a connection of its own.
type Repository struct {
	User           UserRepository
	Profile        TimeProfileRepository
	Group          GroupRepository
	Duty           DutyRepository
	Exclusion      ExclusionRepository
	Rank           RankRepository
	Assignment     AssignmentRepository
	DutyCursor     DutyCursorRepository
	Location       LocationRepository
	LocationCursor LocationCursorRepository
	Calendar       CalendarRepository
}

// NewRepository wires the gorm-backed implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:           NewUserRepo(db),
		Profile:        NewTimeProfileRepo(db),
		Group:          NewGroupRepo(db),
		Duty:           NewDutyRepo(db),
		Exclusion:      NewExclusionRepo(db),
		Rank:           NewRankRepo(db),
		Assignment:     NewAssignmentRepo(db),
		DutyCursor:     NewDutyCursorRepo(db),
		Location:       NewLocationRepo(db),
		LocationCursor: NewLocationCursorRepo(db),
		Calendar:       NewCalendarRepo(db),
	}
}
