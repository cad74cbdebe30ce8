package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/budyakovan/shift-tracker-bot/internal/service"
	"github.com/budyakovan/shift-tracker-bot/pkg/response"
)

// ScheduleHandler serves read-only shift resolution.
type ScheduleHandler struct {
	scheduleSvc *service.ScheduleService
}

func NewScheduleHandler(scheduleSvc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// OnShift returns who works in the group on a date.
// GET /api/v1/groups/:key/schedule?date=
func (h *ScheduleHandler) OnShift(c *gin.Context) {
	onDate, ok := queryDate(c, "date")
	if !ok {
		return
	}

	day, err := h.scheduleSvc.OnShift(c.Request.Context(), c.Param("key"), onDate)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.NotFound(c, 10404, "group not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, day)
}

// Preview returns the schedule for the next days.
// GET /api/v1/groups/:key/schedule/preview?from=&days=
func (h *ScheduleHandler) Preview(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 62 {
			response.BadRequest(c, 10001, "days must be in 1-62")
			return
		}
		days = n
	}

	result, err := h.scheduleSvc.Preview(c.Request.Context(), c.Param("key"), from, days)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.NotFound(c, 10404, "group not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"days": result})
}

// ResolveSlot answers the raw cycle question for one member.
// GET /api/v1/groups/:key/members/:id/slot?date=
func (h *ScheduleHandler) ResolveSlot(c *gin.Context) {
	userID, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	onDate, ok := queryDate(c, "date")
	if !ok {
		return
	}

	pos, onShift, err := h.scheduleSvc.ResolveSlot(c.Request.Context(), c.Param("key"), userID, onDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.NotFound(c, 10404, "group not found")
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFound(c, 10404, "member not found")
		default:
			response.InternalError(c)
		}
		return
	}

	if !onShift {
		response.OK(c, gin.H{"on_shift": false})
		return
	}
	response.OK(c, gin.H{"on_shift": true, "slot_pos": pos})
}
