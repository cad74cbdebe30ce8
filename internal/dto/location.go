package dto

// AssignLocationsRequest triggers the office/home split for a date.
type AssignLocationsRequest struct {
	Date     string `json:"date" binding:"required"`
	GroupKey string `json:"group_key" binding:"required"`
}

// SetHolidayRequest marks a calendar date.
type SetHolidayRequest struct {
	Date      string `json:"date" binding:"required"`
	IsHoliday *bool  `json:"is_holiday" binding:"required"`
}
