package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/budyakovan/shift-tracker-bot/internal/dto"
	"github.com/budyakovan/shift-tracker-bot/internal/service"
	"github.com/budyakovan/shift-tracker-bot/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves file downloads.
type ExportHandler struct {
	exportSvc *service.ExportService
}

func NewExportHandler(exportSvc *service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// OfficeReport downloads the office-days report as .xlsx.
// GET /api/v1/export/office-report?group=&from=&to=
func (h *ExportHandler) OfficeReport(c *gin.Context) {
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

	buf, filename, err := h.exportSvc.OfficeReportXLSX(c.Request.Context(), groupKey, from, to)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExportEmpty):
			response.NotFound(c, 10404, "nothing to export")
		case errors.Is(err, service.ErrInvalidDateRange):
			response.BadRequest(c, 10001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// MemberCalendar downloads one member's shifts as an .ics feed.
// GET /api/v1/export/calendar?group=&user=&from=&days=
func (h *ExportHandler) MemberCalendar(c *gin.Context) {
	groupKey := c.Query("group")
	if groupKey == "" {
		response.BadRequest(c, 10001, "group is required")
		return
	}
	userID, ok := queryInt64(c, "user")
	if !ok {
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	days := 31
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 366 {
			response.BadRequest(c, 10001, "days must be in 1-366")
			return
		}
		days = n
	}

	content, filename, err := h.exportSvc.MemberCalendarICS(c.Request.Context(), groupKey, userID, from, days)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.NotFound(c, 10404, "group not found")
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFound(c, 10404, "member not found")
		case errors.Is(err, service.ErrExportEmpty):
			response.NotFound(c, 10404, "nothing to export")
		default:
			response.InternalError(c)
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}
