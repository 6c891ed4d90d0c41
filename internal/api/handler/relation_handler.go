package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/response"
)

type followRequest struct {
	TargetID string `json:"targetId" binding:"required,notblank"`
}

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "被关注者"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if !bind(c, &req) {
		return
	}
	if _, err := h.relService.Follow(c.Request.Context(), actor(c).UserID, req.TargetID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "followed")
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param targetId query string true "被关注者ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	target, ok := requiredQuery(c, "targetId")
	if !ok {
		return
	}
	if err := h.relService.Unfollow(c.Request.Context(), actor(c).UserID, target); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "unfollowed")
}

// IsFollowing 是否已关注
// @Summary 查询关注状态
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param targetId query string true "被关注者ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/follow [get]
func (h *Handler) IsFollowing(c *gin.Context) {
	target, ok := requiredQuery(c, "targetId")
	if !ok {
		return
	}
	following, err := h.relService.IsFollowing(c.Request.Context(), actor(c).UserID, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"isFollowing": following})
}

// ListFollowers 查询某用户的粉丝
// @Summary 粉丝列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.relService.ListFollowers(c.Request.Context(), c.Param("id"), actor(c).UserID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("followers", page))
}

// ListFollowing 查询某用户关注的人
// @Summary 关注列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.relService.ListFollowing(c.Request.Context(), c.Param("id"), actor(c).UserID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("following", page))
}

// FollowArtist 关注艺人
// @Summary 关注艺人
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ArtistInput true "艺人快照"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/artists/follow [post]
func (h *Handler) FollowArtist(c *gin.Context) {
	var req service.ArtistInput
	if !bind(c, &req) {
		return
	}
	f, err := h.relService.FollowArtist(c.Request.Context(), actor(c).UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"follow": f})
}

// UnfollowArtist 取消关注艺人
// @Summary 取消关注艺人
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param artistId query string true "艺人ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/artists/follow [delete]
func (h *Handler) UnfollowArtist(c *gin.Context) {
	artist, ok := requiredQuery(c, "artistId")
	if !ok {
		return
	}
	if err := h.relService.UnfollowArtist(c.Request.Context(), actor(c).UserID, artist); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "unfollowed artist")
}

// IsFollowingArtist 是否已关注艺人
// @Summary 查询艺人关注状态
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param artistId query string true "艺人ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/artists/follow [get]
func (h *Handler) IsFollowingArtist(c *gin.Context) {
	artist, ok := requiredQuery(c, "artistId")
	if !ok {
		return
	}
	following, err := h.relService.IsFollowingArtist(c.Request.Context(), actor(c).UserID, artist)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"isFollowing": following})
}

// ListArtists 某用户关注的艺人
// @Summary 艺人关注列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/{id}/artists [get]
func (h *Handler) ListArtists(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.relService.ListArtists(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("artists", page))
}
