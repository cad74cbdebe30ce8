package dto

// SlotPayload is one slot definition inside a profile payload.
type SlotPayload struct {
	Pos       int    `json:"pos" binding:"min=0,max=3"`
	Name      string `json:"name"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// SaveProfileRequest creates or updates a time profile. A nil Slots
// field keeps the stored slot set untouched.
type SaveProfileRequest struct {
	Key           string        `json:"key" binding:"required,max=64"`
	Name          string        `json:"name" binding:"required,max=100"`
	TZName        string        `json:"tz_name"`
	TZOffsetHours int           `json:"tz_offset_hours" binding:"min=-14,max=14"`
	Slots         []SlotPayload `json:"slots"`
}

// SaveGroupRequest creates or updates a rotation group.
type SaveGroupRequest struct {
	Key             string `json:"key" binding:"required,max=64"`
	Name            string `json:"name" binding:"required,max=100"`
	ProfileKey      string `json:"profile_key" binding:"required"`
	Epoch           string `json:"epoch" binding:"required"`
	CycleLengthDays int    `json:"cycle_length_days" binding:"required"`
	TZName          string `json:"tz_name"`
	TZOffsetHours   int    `json:"tz_offset_hours" binding:"min=-14,max=14"`
}

// AddMemberRequest joins a user to a group.
type AddMemberRequest struct {
	UserID  int64 `json:"user_id" binding:"required"`
	BasePos int   `json:"base_pos" binding:"min=0,max=1"`
	Rank    int   `json:"rank" binding:"required,min=1,max=3"`
}

// UpsertUserRequest registers or refreshes a user identity.
type UpsertUserRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	Username  string `json:"username" binding:"max=64"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
}
