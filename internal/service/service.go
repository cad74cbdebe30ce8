package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/budyakovan/shift-tracker-bot/config"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
	"github.com/budyakovan/shift-tracker-bot/pkg/jwt"
	"github.com/budyakovan/shift-tracker-bot/pkg/redis"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrProfileNotFound   = errors.New("time profile not found")
	ErrDutyNotFound      = errors.New("duty not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrExclusionNotFound = errors.New("exclusion not found")
	ErrMemberNotFound    = errors.New("group member not found")

	ErrDutyCodeTaken    = errors.New("duty code already exists")
	ErrGroupKeyTaken    = errors.New("group key already exists")
	ErrProfileKeyTaken  = errors.New("profile key already exists")
	ErrInvalidDateRange = errors.New("date range start must not be after end")
	ErrInvalidRank      = errors.New("rank must be between 1 and 3")
	ErrInvalidMode      = errors.New("unknown assignment mode")
	ErrInvalidSlotTime  = errors.New("slot time must be HH:MM")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Service aggregates the business services behind a single wiring
// point for the router and the batch assigner.
type Service struct {
	Auth     *AuthService
	Group    *GroupService
	Duty     *DutyService
	Location *LocationService
	Schedule *ScheduleService
	Export   *ExportService
}

// NewService wires the services against the repository aggregate.
func NewService(repo *repository.Repository, cfg *config.Config, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *Service {
	roster := &rosterResolver{
		repo:          repo,
		logger:        logger,
		fallbackCycle: cfg.Rotation.DefaultCycleDays,
	}

	return &Service{
		Auth:     NewAuthService(repo, jwtMgr, rdb, logger),
		Group:    NewGroupService(repo, logger),
		Duty:     NewDutyService(repo, roster, cfg, logger),
		Location: NewLocationService(repo, roster, logger),
		Schedule: NewScheduleService(repo, roster, logger),
		Export:   NewExportService(repo, roster, logger),
	}
}

// mapNotFound converts a gorm missing-row error to a domain sentinel.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
