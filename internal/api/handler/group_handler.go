package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/budyakovan/shift-tracker-bot/internal/dto"
	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/service"
	"github.com/budyakovan/shift-tracker-bot/pkg/response"
)

// GroupHandler serves users, time profiles, groups and memberships.
type GroupHandler struct {
	groupSvc *service.GroupService
}

func NewGroupHandler(groupSvc *service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// ── users ──

// UpsertUser registers or refreshes a user identity.
// PUT /api/v1/users
func (h *GroupHandler) UpsertUser(c *gin.Context) {
	var req dto.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	user := &model.User{
		UserID:    req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.groupSvc.UpsertUser(c.Request.Context(), user); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, user)
}

// ListUsers lists every known user.
// GET /api/v1/users
func (h *GroupHandler) ListUsers(c *gin.Context) {
	users, err := h.groupSvc.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": users})
}

// ── time profiles ──

// SaveProfile creates or updates a time profile with its slots.
// PUT /api/v1/profiles
func (h *GroupHandler) SaveProfile(c *gin.Context) {
	var req dto.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	profile := &model.TimeProfile{
		Key:           req.Key,
		Name:          req.Name,
		TZName:        req.TZName,
		TZOffsetHours: req.TZOffsetHours,
	}
	var slots []model.TimeSlot
	if req.Slots != nil {
		slots = make([]model.TimeSlot, 0, len(req.Slots))
		for _, s := range req.Slots {
			slots = append(slots, model.TimeSlot{
				Pos:       s.Pos,
				Name:      s.Name,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
			})
		}
	}

	if err := h.groupSvc.SaveProfile(c.Request.Context(), profile, slots); err != nil {
		if errors.Is(err, service.ErrInvalidSlotTime) {
			response.BadRequest(c, 10001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, profile)
}

// GetProfile returns one profile with its slots.
// GET /api/v1/profiles/:key
func (h *GroupHandler) GetProfile(c *gin.Context) {
	profile, err := h.groupSvc.GetProfile(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, 10404, "profile not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, profile)
}

// ListProfiles lists every profile.
// GET /api/v1/profiles
func (h *GroupHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.groupSvc.ListProfiles(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": profiles})
}

// DeleteProfile removes a profile.
// DELETE /api/v1/profiles/:key
func (h *GroupHandler) DeleteProfile(c *gin.Context) {
	if err := h.groupSvc.DeleteProfile(c.Request.Context(), c.Param("key")); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, 10404, "profile not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ── groups ──

// SaveGroup creates or updates a rotation group.
// PUT /api/v1/groups
func (h *GroupHandler) SaveGroup(c *gin.Context) {
	var req dto.SaveGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	epoch, err := dto.ParseDate(req.Epoch)
	if err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}

	group := &model.Group{
		Key:             req.Key,
		Name:            req.Name,
		Epoch:           epoch,
		CycleLengthDays: req.CycleLengthDays,
		TZName:          req.TZName,
		TZOffsetHours:   req.TZOffsetHours,
	}
	if err := h.groupSvc.SaveGroup(c.Request.Context(), group, req.ProfileKey); err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			response.NotFound(c, 10404, "profile not found")
		case errors.Is(err, service.ErrGroupKeyTaken):
			response.Conflict(c, 10409, "group key already exists")
		default:
			response.BadRequest(c, 10001, err.Error())
		}
		return
	}
	response.OK(c, group)
}

// GetGroup returns one group with profile and members.
// GET /api/v1/groups/:key
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.groupSvc.GetGroup(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.NotFound(c, 10404, "group not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, group)
}

// ListGroups lists every group.
// GET /api/v1/groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupSvc.ListGroups(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": groups})
}

// DeleteGroup removes a group.
// DELETE /api/v1/groups/:key
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	if err := h.groupSvc.DeleteGroup(c.Request.Context(), c.Param("key")); err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.NotFound(c, 10404, "group not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ── membership ──

// AddMember joins a user to a group.
// POST /api/v1/groups/:key/members
func (h *GroupHandler) AddMember(c *gin.Context) {
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	err := h.groupSvc.AddMember(c.Request.Context(), c.Param("key"), req.UserID, req.BasePos, req.Rank)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			response.NotFound(c, 10404, "group not found")
		case errors.Is(err, service.ErrInvalidRank):
			response.BadRequest(c, 10001, err.Error())
		default:
			response.BadRequest(c, 10001, err.Error())
		}
		return
	}
	response.Created(c, nil)
}

// RemoveMember drops a membership.
// DELETE /api/v1/groups/:key/members/:id
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID, ok := paramInt64(c, "id")
	if !ok {
		return
	}

	err := h.groupSvc.RemoveMember(c.Request.Context(), c.Param("key"), userID)
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
	response.OK(c, nil)
}

// ListMembers lists a group's roster.
// GET /api/v1/groups/:key/members
func (h *GroupHandler) ListMembers(c *gin.Context) {
	members, err := h.groupSvc.ListMembers(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.NotFound(c, 10404, "group not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": members})
}
