package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/budyakovan/shift-tracker-bot/internal/dto"
	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/service"
	"github.com/budyakovan/shift-tracker-bot/pkg/response"
)

// DutyHandler serves the duty catalog, exclusions, rank overrides and
// the assignment batch.
type DutyHandler struct {
	dutySvc *service.DutyService
}

func NewDutyHandler(dutySvc *service.DutyService) *DutyHandler {
	return &DutyHandler{dutySvc: dutySvc}
}

// ── assignment batch ──

// Assign runs the duty assignment batch for a date.
// POST /api/v1/duties/assign
func (h *DutyHandler) Assign(c *gin.Context) {
	var req dto.AssignDutiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	onDate, err := dto.ParseDate(req.Date)
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}

	var createdBy *int64
	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(int64); ok {
			createdBy = &id
		}
	}

	result, err := h.dutySvc.AssignForDate(c.Request.Context(), onDate, req.GroupKey, req.Mode, createdBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.NotFound(c, 10404, "group not found")
		case errors.Is(err, service.ErrInvalidMode):
			response.BadRequest(c, 10001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ListAssignments returns assignments for a date.
// GET /api/v1/duties/assignments?date=&group=
func (h *DutyHandler) ListAssignments(c *gin.Context) {
	onDate, ok := queryDate(c, "date")
	if !ok {
		return
	}

	rows, err := h.dutySvc.ListAssignments(c.Request.Context(), onDate, c.Query("group"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

// ── catalog ──

// CreateDuty adds a catalog entry.
// POST /api/v1/duties
func (h *DutyHandler) CreateDuty(c *gin.Context) {
	var req dto.SaveDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	duty := dutyFromRequest(&req)
	if err := h.dutySvc.CreateDuty(c.Request.Context(), duty); err != nil {
		if errors.Is(err, service.ErrDutyCodeTaken) {
			response.Conflict(c, 10409, "duty code already exists")
			return
		}
		response.BadRequest(c, 10001, err.Error())
		return
	}
	response.Created(c, duty)
}

// ListDuties lists catalog entries.
// GET /api/v1/duties?active=true&kind=
func (h *DutyHandler) ListDuties(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	duties, err := h.dutySvc.ListDuties(c.Request.Context(), activeOnly, c.Query("kind"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": duties})
}

// UpdateDuty replaces a catalog entry.
// PUT /api/v1/duties/:id
func (h *DutyHandler) UpdateDuty(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req dto.SaveDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	duty := dutyFromRequest(&req)
	duty.ID = id
	if err := h.dutySvc.UpdateDuty(c.Request.Context(), duty); err != nil {
		if errors.Is(err, service.ErrDutyNotFound) {
			response.NotFound(c, 10404, "duty not found")
			return
		}
		response.BadRequest(c, 10001, err.Error())
		return
	}
	response.OK(c, duty)
}

// DeleteDuty removes a catalog entry.
// DELETE /api/v1/duties/:id
func (h *DutyHandler) DeleteDuty(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.dutySvc.DeleteDuty(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrDutyNotFound) {
			response.NotFound(c, 10404, "duty not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

func dutyFromRequest(req *dto.SaveDutyRequest) *model.Duty {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &model.Duty{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		MinRank:     req.MinRank,
		IsActive:    active,
	}
}

// ── exclusions ──

// AddExclusion records an unavailability window.
// POST /api/v1/exclusions
func (h *DutyHandler) AddExclusion(c *gin.Context) {
	var req dto.AddExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	from, err := dto.ParseDate(req.DateFrom)
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}
	to, err := dto.ParseDate(req.DateTo)
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}

	excl := &model.Exclusion{
		UserID:   req.UserID,
		DateFrom: from,
		DateTo:   to,
		Reason:   req.Reason,
	}
	if req.GroupKey != "" {
		excl.GroupKey = &req.GroupKey
	}
	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(int64); ok {
			excl.CreatedBy = &id
		}
	}

	if err := h.dutySvc.AddExclusion(c.Request.Context(), excl); err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			response.BadRequest(c, 10001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, excl)
}

// RemoveExclusion deletes an exclusion by id.
// DELETE /api/v1/exclusions/:id
func (h *DutyHandler) RemoveExclusion(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.dutySvc.RemoveExclusion(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrExclusionNotFound) {
			response.NotFound(c, 10404, "exclusion not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ListExclusions lists exclusions, filterable by date, group and user.
// GET /api/v1/exclusions?date=&group=&user=
func (h *DutyHandler) ListExclusions(c *gin.Context) {
	var onDate *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			response.BadRequest(c, 10001, err.Error())
			return
		}
		onDate = &d
	}
	var userID int64
	if c.Query("user") != "" {
		id, ok := queryInt64(c, "user")
		if !ok {
			return
		}
		userID = id
	}

	rows, err := h.dutySvc.ListExclusions(c.Request.Context(), onDate, c.Query("group"), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

// ── rank overrides ──

// SetRank sets a per-group rank override.
// PUT /api/v1/groups/:key/ranks
func (h *DutyHandler) SetRank(c *gin.Context) {
	var req dto.SetRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	err := h.dutySvc.SetRankOverride(c.Request.Context(), c.Param("key"), req.UserID, req.Rank)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.NotFound(c, 10404, "group not found")
		case errors.Is(err, service.ErrInvalidRank):
			response.BadRequest(c, 10001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// ListRanks lists a group's rank overrides.
// GET /api/v1/groups/:key/ranks
func (h *DutyHandler) ListRanks(c *gin.Context) {
	rows, err := h.dutySvc.ListRankOverrides(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}
