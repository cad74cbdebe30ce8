package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/budyakovan/shift-tracker-bot/internal/dto"
	"github.com/budyakovan/shift-tracker-bot/internal/service"
	"github.com/budyakovan/shift-tracker-bot/pkg/response"
)

// LocationHandler serves the office/home assignment endpoints.
type LocationHandler struct {
	locationSvc *service.LocationService
}

func NewLocationHandler(locationSvc *service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// Assign rewrites a group's office/home split for a date.
// POST /api/v1/locations/assign
func (h *LocationHandler) Assign(c *gin.Context) {
	var req dto.AssignLocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	onDate, err := dto.ParseDate(req.Date)
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}

	result, err := h.locationSvc.AssignLocations(c.Request.Context(), req.GroupKey, onDate)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.NotFound(c, 10404, "group not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List returns the stored split for a date.
// GET /api/v1/locations?date=&group=
func (h *LocationHandler) List(c *gin.Context) {
	onDate, ok := queryDate(c, "date")
	if !ok {
		return
	}

	rows, err := h.locationSvc.ListLocations(c.Request.Context(), c.Query("group"), onDate)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

// Report aggregates office day totals over a range.
// GET /api/v1/locations/report?group=&from=&to=
func (h *LocationHandler) Report(c *gin.Context) {
	groupKey := c.Query("group")
	if groupKey == "" {
		response.BadRequest(c, 10001, "group is required")
		return
	}
	from, err := dto.ParseDate(c.Query("from"))
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}
	to, err := dto.ParseDate(c.Query("to"))
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}

	report, err := h.locationSvc.OfficeReport(c.Request.Context(), groupKey, from, to)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			response.BadRequest(c, 10001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": report})
}

// SetHoliday marks a calendar date.
// PUT /api/v1/calendar
func (h *LocationHandler) SetHoliday(c *gin.Context) {
	var req dto.SetHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	onDate, err := dto.ParseDate(req.Date)
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}

	if err := h.locationSvc.SetHoliday(c.Request.Context(), onDate, *req.IsHoliday); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
