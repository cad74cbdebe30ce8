package dto

// SaveDutyRequest creates or updates a duty catalog entry.
type SaveDutyRequest struct {
	Code        string `json:"code" binding:"max=64"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=500"`
	Kind        string `json:"kind" binding:"required,oneof=leader specialist junior"`
	MinRank     int    `json:"min_rank" binding:"required,min=1,max=3"`
	IsActive    *bool  `json:"is_active"`
}

// AssignDutiesRequest triggers a duty assignment batch.
type AssignDutiesRequest struct {
	Date     string `json:"date" binding:"required"`
	GroupKey string `json:"group_key"`
	Mode     string `json:"mode" binding:"omitempty,oneof=round_robin least_loaded"`
}

// AddExclusionRequest records an unavailability window.
type AddExclusionRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	GroupKey string `json:"group_key"`
	DateFrom string `json:"date_from" binding:"required"`
	DateTo   string `json:"date_to" binding:"required"`
	Reason   string `json:"reason" binding:"max=300"`
}

// SetRankRequest sets a per-group rank override.
type SetRankRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	Rank   int   `json:"rank" binding:"required,min=1,max=3"`
}
