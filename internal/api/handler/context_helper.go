package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/budyakovan/shift-tracker-bot/internal/dto"
	"github.com/budyakovan/shift-tracker-bot/pkg/response"
)

// MustGetUserID extracts user_id injected by the auth middleware.
// Writes a 401 and returns ok=false when it is missing.
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id == 0 {
		response.Unauthorized(c, 10002, "not authenticated")
		return 0, false
	}
	return id, true
}

// queryDate parses a date query parameter, defaulting to today (UTC)
// when absent. Writes a 400 and returns ok=false on a malformed value.
func queryDate(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	d, err := dto.ParseDate(raw)
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return time.Time{}, false
	}
	return d, true
}

// queryInt64 parses a numeric query parameter.
func queryInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || v <= 0 {
		response.BadRequest(c, 10001, "invalid "+name)
		return 0, false
	}
	return v, true
}

// paramInt64 parses a numeric path parameter.
func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		response.BadRequest(c, 10001, "invalid "+name)
		return 0, false
	}
	return v, true
}
