package handler

import "github.com/budyakovan/shift-tracker-bot/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth     *AuthHandler
	Group    *GroupHandler
	Duty     *DutyHandler
	Location *LocationHandler
	Schedule *ScheduleHandler
	Export   *ExportHandler
}

// NewHandler wires the handlers against the service aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Group:    NewGroupHandler(svc.Group),
		Duty:     NewDutyHandler(svc.Duty),
		Location: NewLocationHandler(svc.Location),
		Schedule: NewScheduleHandler(svc.Schedule),
		Export:   NewExportHandler(svc.Export),
	}
}
